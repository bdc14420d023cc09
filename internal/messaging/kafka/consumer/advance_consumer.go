package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go-farmops/internal/advance"
	"go-farmops/internal/approval"
	"go-farmops/internal/events"
	"go-farmops/internal/payroll"
	payrollerrors "go-farmops/internal/payroll/errors"
	"go-farmops/internal/shared/apperror"
	"go-farmops/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdvanceTopics are the topics that can change a snapshot's advance totals.
var AdvanceTopics = []string{events.ApprovalDecidedTopic, events.AdvanceRequestedTopic}

type AdvanceLookup interface {
	FindByIDAndFarm(ctx context.Context, farmID, id string) (*advance.SalaryAdvance, error)
}

type PayrollRefresher interface {
	Refresh(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error)
}

// AdvanceHandler refreshes the payroll snapshot an advance belongs to.
type AdvanceHandler struct {
	advances AdvanceLookup
	payroll  PayrollRefresher
	logger   *zap.Logger
}

func NewAdvanceHandler(advances AdvanceLookup, refresher PayrollRefresher, logger ...*zap.Logger) *AdvanceHandler {
	l := zap.L().Named("kafka.consumer.advance")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.consumer.advance")
	}
	return &AdvanceHandler{advances: advances, payroll: refresher, logger: l}
}

type advanceTarget struct {
	requestID  string
	farmID     string
	employeeID string
	month      int
	year       int
}

func (h *AdvanceHandler) Handle(ctx context.Context, msg kafkago.Message) error {
	var head struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(msg.Value, &head); err != nil {
		h.logger.Error("decode advance event failed", zap.String("topic", msg.Topic), zap.Error(err))
		return nil
	}

	var (
		target advanceTarget
		ok     bool
		err    error
	)
	switch head.EventType {
	case events.EventTypeApprovalDecided:
		target, ok, err = h.fromApprovalDecided(ctx, msg.Value)
	case events.EventTypeAdvanceRequested:
		target, ok, err = h.fromAdvanceRequested(msg.Value)
	default:
		return nil
	}
	if err != nil || !ok {
		return err
	}

	ctx = contextutil.WithRequestID(ctx, target.requestID)
	log := h.logger.With(
		zap.String("request_id", target.requestID),
		zap.String("farm_id", target.farmID),
		zap.String("employee_id", target.employeeID),
		zap.Int("month", target.month),
		zap.Int("year", target.year),
	)

	snap, err := h.payroll.Refresh(ctx, target.farmID, target.employeeID, payroll.PeriodQuery{Month: target.month, Year: target.year})
	if err != nil {
		if errors.Is(err, payrollerrors.ErrPeriodClosed) {
			log.Info("period closed, snapshot stays frozen until reopen")
			return nil
		}
		if httpErr := apperror.ToHTTP(err); httpErr.Status < http.StatusInternalServerError {
			log.Warn("advance event rejected by payroll", zap.String("code", httpErr.Code), zap.String("message", httpErr.Message))
			return nil
		}
		return err
	}

	log.Info("payroll snapshot refreshed from advance event",
		zap.String("event_type", head.EventType),
		zap.Int64("net_amount", snap.NetAmount),
	)
	return nil
}

func (h *AdvanceHandler) fromApprovalDecided(ctx context.Context, raw []byte) (advanceTarget, bool, error) {
	var event events.ApprovalDecidedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.logger.Error("decode approval_decided event failed", zap.Error(err))
		return advanceTarget{}, false, nil
	}
	if approval.Kind(event.Kind) != approval.KindAdvance {
		return advanceTarget{}, false, nil
	}

	adv, err := h.advances.FindByIDAndFarm(ctx, event.FarmID, event.EntityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("advance from approval event not found",
				zap.String("advance_id", event.EntityID),
				zap.String("farm_id", event.FarmID),
			)
			return advanceTarget{}, false, nil
		}
		return advanceTarget{}, false, err
	}

	return advanceTarget{
		requestID:  event.RequestID,
		farmID:     event.FarmID,
		employeeID: adv.EmployeeID.String(),
		month:      adv.Month,
		year:       adv.Year,
	}, true, nil
}

func (h *AdvanceHandler) fromAdvanceRequested(raw []byte) (advanceTarget, bool, error) {
	var event events.AdvanceRequestedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.logger.Error("decode advance_requested event failed", zap.Error(err))
		return advanceTarget{}, false, nil
	}
	return advanceTarget{
		requestID:  event.RequestID,
		farmID:     event.FarmID,
		employeeID: event.EmployeeID,
		month:      event.Month,
		year:       event.Year,
	}, true, nil
}

// ConsumeAdvanceEvents keeps payroll snapshots in step with advance
// requests and decisions.
func ConsumeAdvanceEvents(ctx context.Context, reader MessageReader, handler *AdvanceHandler, logger *zap.Logger) {
	Consume(ctx, reader, handler.Handle, logger.Named("kafka.consumer.advance"))
}
