package payroll

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-farmops/internal/advance"
	"go-farmops/internal/domain"
	"go-farmops/internal/employeesalary"
	"go-farmops/internal/events"
	"go-farmops/internal/messaging/kafka"
	payrollerrors "go-farmops/internal/payroll/errors"
	"go-farmops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SnapshotManager lets the attendance lifecycle drive snapshots inside its own
// transaction.
type SnapshotManager interface {
	// RefreshInTx recomputes the snapshot from attendance, salary profile and
	// advances. It fails with ErrPeriodClosed while a closing record exists.
	RefreshInTx(ctx context.Context, tx *sql.Tx, farmID, employeeID string, month, year int) (*PayrollSnapshot, error)
	FreezeInTx(ctx context.Context, tx *sql.Tx, farmID, snapshotID string, frozenAt *time.Time) error
}

type Service interface {
	SnapshotManager
	AddAdjustment(ctx context.Context, farmID, actorID, employeeID string, req AdjustmentRequest) (AdjustmentResponse, error)
	GetLogs(ctx context.Context, farmID, employeeID string, q PeriodQuery) ([]LogResponse, error)
	GetSnapshot(ctx context.Context, farmID, employeeID string, q PeriodQuery) (SnapshotResponse, error)
	Refresh(ctx context.Context, farmID, employeeID string, q PeriodQuery) (SnapshotResponse, error)
	ExportMonth(ctx context.Context, farmID string, q PeriodQuery) ([]byte, error)
	Payslip(ctx context.Context, farmID, employeeID string, q PeriodQuery) ([]byte, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	salaryRepo  employeesalary.Repository
	advanceRepo advance.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	salaryRepo employeesalary.Repository,
	advanceRepo advance.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		salaryRepo:  salaryRepo,
		advanceRepo: advanceRepo,
		outboxRepo:  outboxRepo,
		logger:      l,
	}
}

func validatePeriod(farmID, employeeID string, month, year int) error {
	if _, err := uuid.Parse(farmID); err != nil {
		return payrollerrors.ErrInvalidFarmID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return payrollerrors.ErrInvalidEmployeeID
	}
	if !domain.ValidPeriod(month, year) {
		return payrollerrors.ErrInvalidPeriod
	}
	return nil
}

func (s *service) RefreshInTx(ctx context.Context, tx *sql.Tx, farmID, employeeID string, month, year int) (*PayrollSnapshot, error) {
	if err := validatePeriod(farmID, employeeID, month, year); err != nil {
		return nil, err
	}
	qrepo := s.repo.WithTx(tx)

	snap, err := s.lockOrNewSnapshot(ctx, qrepo, farmID, employeeID, month, year)
	if err != nil {
		return nil, err
	}

	closed, err := qrepo.IsPeriodClosed(ctx, farmID, employeeID, month, year)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, payrollerrors.ErrPeriodClosed
	}

	if err := s.loadInputs(ctx, tx, snap); err != nil {
		return nil, err
	}
	Compute(snap)

	if err := s.persist(ctx, qrepo, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *service) FreezeInTx(ctx context.Context, tx *sql.Tx, farmID, snapshotID string, frozenAt *time.Time) error {
	return s.repo.WithTx(tx).SetFrozen(ctx, farmID, snapshotID, frozenAt)
}

// lockOrNewSnapshot returns the locked snapshot, or an unsaved one with a zero
// CreatedAt when the period has none yet.
func (s *service) lockOrNewSnapshot(ctx context.Context, qrepo Repository, farmID, employeeID string, month, year int) (*PayrollSnapshot, error) {
	snap, err := qrepo.FindSnapshotForUpdate(ctx, farmID, employeeID, month, year)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &PayrollSnapshot{
		ID:               uuid.New(),
		FarmID:           uuid.MustParse(farmID),
		EmployeeID:       uuid.MustParse(employeeID),
		Month:            month,
		Year:             year,
		WorkDaysPerMonth: employeesalary.DefaultWorkDaysPerMonth,
	}, nil
}

func (s *service) persist(ctx context.Context, qrepo Repository, snap *PayrollSnapshot) error {
	if !snap.CreatedAt.IsZero() {
		return qrepo.SaveSnapshot(ctx, snap)
	}
	err := qrepo.CreateSnapshot(ctx, snap)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return payrollerrors.ErrConcurrentUpdate
	}
	return err
}

func (s *service) loadInputs(ctx context.Context, tx *sql.Tx, snap *PayrollSnapshot) error {
	farmID := snap.FarmID.String()
	employeeID := snap.EmployeeID.String()

	stats, err := s.repo.WithTx(tx).FindPeriodStats(ctx, farmID, employeeID, snap.Month, snap.Year)
	if err != nil {
		return err
	}
	snap.PresentDays = stats.PresentDays
	snap.PeriodOvertimeAmount = stats.OvertimeAmount

	snap.SalaryBase = 0
	snap.WorkDaysPerMonth = employeesalary.DefaultWorkDaysPerMonth
	if s.salaryRepo != nil {
		profile, err := s.salaryRepo.WithTx(tx).FindEffective(ctx, farmID, employeeID, snap.Month, snap.Year)
		switch {
		case err == nil:
			snap.SalaryBase = profile.BaseSalary
			snap.WorkDaysPerMonth = profile.WorkDaysPerMonth
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
	}

	if s.advanceRepo != nil {
		totals, err := s.advanceRepo.WithTx(tx).SumForPeriod(ctx, farmID, employeeID, snap.Month, snap.Year)
		if err != nil {
			return err
		}
		snap.AdvanceApprovedAmount = totals.Approved
		snap.AdvancePendingAmount = totals.Pending
	}
	return nil
}

func (s *service) AddAdjustment(ctx context.Context, farmID, actorID, employeeID string, req AdjustmentRequest) (AdjustmentResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("employee_id", employeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	if err := validatePeriod(farmID, employeeID, req.Month, req.Year); err != nil {
		return AdjustmentResponse{}, err
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidActorID
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return AdjustmentResponse{}, payrollerrors.ErrReasonRequired
	}
	if req.Amount <= 0 {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidAmount
	}
	if req.Amount > MaxAdjustmentAmount {
		return AdjustmentResponse{}, payrollerrors.ErrAmountOutOfRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("add adjustment begin tx failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	snap, err := s.RefreshInTx(ctx, tx, farmID, employeeID, req.Month, req.Year)
	if err != nil {
		if errors.Is(err, payrollerrors.ErrPeriodClosed) {
			log.Warn("add adjustment refused, period closed")
		}
		return AdjustmentResponse{}, err
	}

	entry, err := applyAdjustment(snap, req.ActionType, req.Direction, req.Amount)
	if err != nil {
		return AdjustmentResponse{}, err
	}

	qrepo := s.repo.WithTx(tx)
	if err := qrepo.SaveSnapshot(ctx, snap); err != nil {
		log.Error("add adjustment save snapshot failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	entry.ID = uuid.New()
	entry.FarmID = snap.FarmID
	entry.SnapshotID = snap.ID
	entry.EmployeeID = snap.EmployeeID
	entry.Month = snap.Month
	entry.Year = snap.Year
	entry.Reason = reason
	entry.CreatedBy = actorUUID
	entry.CreatedAt = time.Now().UTC()
	if err := qrepo.AppendLog(ctx, &entry); err != nil {
		log.Error("add adjustment append log failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	if s.outboxRepo != nil {
		requestID := contextutil.GetRequestID(ctx)
		event, err := kafka.NewOutboxEvent(
			requestID,
			"payroll_snapshot",
			snap.ID.String(),
			events.EventTypePayrollAdjusted,
			events.PayrollAdjustedTopic,
			events.PayrollAdjustedEvent{
				EventType:  events.EventTypePayrollAdjusted,
				RequestID:  requestID,
				LogID:      entry.ID.String(),
				FarmID:     farmID,
				EmployeeID: employeeID,
				Month:      snap.Month,
				Year:       snap.Year,
				ActionType: entry.ActionType,
				Delta:      entry.Delta,
				NetAmount:  snap.NetAmount,
				ActorID:    actorID,
				OccurredAt: entry.CreatedAt,
			},
		)
		if err != nil {
			return AdjustmentResponse{}, err
		}
		if err := s.outboxRepo.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("add adjustment outbox failed", zap.Error(err))
			return AdjustmentResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("add adjustment commit failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	log.Info("payroll adjusted",
		zap.String("action_type", entry.ActionType),
		zap.Int64("delta", entry.Delta),
		zap.Int64("before_net", entry.BeforeNet),
		zap.Int64("after_net", entry.AfterNet),
	)
	return AdjustmentResponse{
		Snapshot: mapSnapshot(*snap, false),
		Log:      mapLog(entry),
	}, nil
}

func (s *service) GetLogs(ctx context.Context, farmID, employeeID string, q PeriodQuery) ([]LogResponse, error) {
	if err := validatePeriod(farmID, employeeID, q.Month, q.Year); err != nil {
		return nil, err
	}
	logs, err := s.repo.FindLogs(ctx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		return nil, err
	}
	resp := make([]LogResponse, len(logs))
	for i, l := range logs {
		resp[i] = mapLog(l)
	}
	return resp, nil
}

func (s *service) GetSnapshot(ctx context.Context, farmID, employeeID string, q PeriodQuery) (SnapshotResponse, error) {
	if err := validatePeriod(farmID, employeeID, q.Month, q.Year); err != nil {
		return SnapshotResponse{}, err
	}
	snap, err := s.repo.FindSnapshot(ctx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SnapshotResponse{}, payrollerrors.ErrSnapshotNotFound
		}
		return SnapshotResponse{}, err
	}
	closed, err := s.repo.IsPeriodClosed(ctx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		return SnapshotResponse{}, err
	}
	return mapSnapshot(*snap, closed), nil
}

func (s *service) Refresh(ctx context.Context, farmID, employeeID string, q PeriodQuery) (SnapshotResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("refresh payroll begin tx failed", zap.Error(err))
		return SnapshotResponse{}, err
	}
	defer tx.Rollback()

	snap, err := s.RefreshInTx(ctx, tx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		return SnapshotResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("refresh payroll commit failed", zap.Error(err))
		return SnapshotResponse{}, err
	}

	log.Info("payroll snapshot refreshed",
		zap.String("employee_id", employeeID),
		zap.Int64("net_amount", snap.NetAmount),
	)
	return mapSnapshot(*snap, false), nil
}

func (s *service) ExportMonth(ctx context.Context, farmID string, q PeriodQuery) ([]byte, error) {
	if _, err := uuid.Parse(farmID); err != nil {
		return nil, payrollerrors.ErrInvalidFarmID
	}
	if !domain.ValidPeriod(q.Month, q.Year) {
		return nil, payrollerrors.ErrInvalidPeriod
	}
	snapshots, err := s.repo.FindSnapshotsByMonth(ctx, farmID, q.Month, q.Year)
	if err != nil {
		return nil, err
	}

	out, err := buildMonthWorkbook(q.Month, q.Year, snapshots)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("export payroll workbook failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *service) Payslip(ctx context.Context, farmID, employeeID string, q PeriodQuery) ([]byte, error) {
	snap, err := s.GetSnapshot(ctx, farmID, employeeID, q)
	if err != nil {
		return nil, err
	}
	return buildSimplePayslipPDF(payslipLines(snap))
}

func mapSnapshot(s PayrollSnapshot, closed bool) SnapshotResponse {
	resp := SnapshotResponse{
		ID:                    s.ID.String(),
		EmployeeID:            s.EmployeeID.String(),
		Month:                 s.Month,
		Year:                  s.Year,
		SalaryBase:            s.SalaryBase,
		SalaryAdjustment:      s.SalaryAdjustment,
		WorkDaysPerMonth:      s.WorkDaysPerMonth,
		PresentDays:           s.PresentDays,
		OvertimeAmount:        s.OvertimeAmount,
		OvertimeAdjustment:    s.OvertimeAdjustment,
		BonusAmount:           s.BonusAmount,
		PenaltyAmount:         s.PenaltyAmount,
		AllowanceAmount:       s.AllowanceAmount,
		AdvanceApprovedAmount: s.AdvanceApprovedAmount,
		AdvancePendingAmount:  s.AdvancePendingAmount,
		GrossAmount:           s.GrossAmount,
		NetAmount:             s.NetAmount,
		Closed:                closed,
		UpdatedAt:             s.UpdatedAt.Format(time.RFC3339),
	}
	if s.FrozenAt != nil {
		v := s.FrozenAt.Format(time.RFC3339)
		resp.FrozenAt = &v
	}
	return resp
}

// MapSnapshot exposes the response mapping to the attendance views.
func MapSnapshot(s PayrollSnapshot, closed bool) SnapshotResponse {
	return mapSnapshot(s, closed)
}

func mapLog(l PayrollLog) LogResponse {
	return LogResponse{
		ID:          l.ID.String(),
		ActionType:  l.ActionType,
		Direction:   l.Direction,
		Field:       l.Field,
		Amount:      l.Amount,
		Delta:       l.Delta,
		BeforeValue: l.BeforeValue,
		AfterValue:  l.AfterValue,
		BeforeNet:   l.BeforeNet,
		AfterNet:    l.AfterNet,
		Reason:      l.Reason,
		CreatedBy:   l.CreatedBy.String(),
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
}
