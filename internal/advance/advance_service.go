package advance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	advanceerrors "go-farmops/internal/advance/errors"
	"go-farmops/internal/approval"
	"go-farmops/internal/domain"
	"go-farmops/internal/events"
	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, farmID, actorID string, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAll(ctx context.Context, farmID string, filter ListFilter) ([]AdvanceResponse, error)
	GetByID(ctx context.Context, farmID, id string) (AdvanceResponse, error)
	Approve(ctx context.Context, farmID, actorID, id string) (AdvanceResponse, error)
	Reject(ctx context.Context, farmID, actorID, id, rejectionReason string) (AdvanceResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	approvals  approval.Service
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, approvals approval.Service, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("advance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("advance.service")
	}
	return &service{db: db, repo: repo, approvals: approvals, outboxRepo: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, farmID, actorID string, req CreateAdvanceRequest) (AdvanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	farmUUID, err := uuid.Parse(farmID)
	if err != nil {
		return AdvanceResponse{}, advanceerrors.ErrInvalidFarmID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AdvanceResponse{}, advanceerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AdvanceResponse{}, advanceerrors.ErrInvalidEmployeeID
	}
	if req.Amount <= 0 {
		return AdvanceResponse{}, advanceerrors.ErrInvalidAmount
	}
	if !domain.ValidPeriod(req.Month, req.Year) {
		return AdvanceResponse{}, advanceerrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create advance begin tx failed", zap.Error(err))
		return AdvanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	closed, err := qtx.IsPeriodClosed(ctx, farmID, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		log.Error("create advance closing check failed", zap.Error(err))
		return AdvanceResponse{}, err
	}
	if closed {
		return AdvanceResponse{}, advanceerrors.ErrPeriodClosed
	}

	a := &SalaryAdvance{
		ID:         uuid.New(),
		FarmID:     farmUUID,
		EmployeeID: employeeUUID,
		Month:      req.Month,
		Year:       req.Year,
		Amount:     req.Amount,
		Reason:     req.Reason,
		CreatedBy:  actorUUID,
		Review:     approval.Review{Status: approval.StatusPending},
	}
	if err := qtx.Create(ctx, a); err != nil {
		log.Error("create advance persist failed", zap.Error(err))
		return AdvanceResponse{}, err
	}

	if s.outboxRepo != nil {
		requestID := contextutil.GetRequestID(ctx)
		event, err := kafka.NewOutboxEvent(
			requestID,
			"salary_advance",
			a.ID.String(),
			events.EventTypeAdvanceRequested,
			events.AdvanceRequestedTopic,
			events.AdvanceRequestedEvent{
				EventType:  events.EventTypeAdvanceRequested,
				RequestID:  requestID,
				AdvanceID:  a.ID.String(),
				FarmID:     farmID,
				EmployeeID: req.EmployeeID,
				Month:      req.Month,
				Year:       req.Year,
				Amount:     req.Amount,
				OccurredAt: time.Now().UTC(),
			},
		)
		if err != nil {
			return AdvanceResponse{}, err
		}
		if err := s.outboxRepo.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("create advance outbox failed", zap.Error(err))
			return AdvanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create advance commit failed", zap.Error(err))
		return AdvanceResponse{}, err
	}

	log.Info("create advance success",
		zap.String("advance_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int64("amount", req.Amount),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, farmID string, filter ListFilter) ([]AdvanceResponse, error) {
	advances, err := s.repo.FindAllByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]AdvanceResponse, len(advances))
	for i, a := range advances {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, farmID, id string) (AdvanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AdvanceResponse{}, advanceerrors.ErrAdvanceNotFound
	}
	a, err := s.repo.FindByIDAndFarm(ctx, farmID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdvanceResponse{}, advanceerrors.ErrAdvanceNotFound
		}
		return AdvanceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Approve(ctx context.Context, farmID, actorID, id string) (AdvanceResponse, error) {
	if _, err := s.approvals.Approve(ctx, farmID, actorID, approval.KindAdvance, id); err != nil {
		return AdvanceResponse{}, err
	}
	return s.GetByID(ctx, farmID, id)
}

func (s *service) Reject(ctx context.Context, farmID, actorID, id, rejectionReason string) (AdvanceResponse, error) {
	if _, err := s.approvals.Reject(ctx, farmID, actorID, approval.KindAdvance, id, rejectionReason); err != nil {
		return AdvanceResponse{}, err
	}
	return s.GetByID(ctx, farmID, id)
}

func mapToResponse(a SalaryAdvance) AdvanceResponse {
	resp := AdvanceResponse{
		ID:              a.ID.String(),
		FarmID:          a.FarmID.String(),
		EmployeeID:      a.EmployeeID.String(),
		Month:           a.Month,
		Year:            a.Year,
		Amount:          a.Amount,
		Reason:          a.Reason,
		Status:          a.Status,
		CreatedBy:       a.CreatedBy.String(),
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
	if a.ReviewedBy != nil {
		v := a.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if a.ReviewedAt != nil {
		v := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
