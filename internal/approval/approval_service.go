package approval

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	approvalerrors "go-farmops/internal/approval/errors"
	"go-farmops/internal/events"
	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Decision describes a transition that has been written but not committed.
type Decision struct {
	FarmID          string
	Kind            Kind
	EntityID        string
	ActorID         string
	FromStatus      string
	ToStatus        string
	ReviewedAt      time.Time
	RejectionReason *string
}

// DecisionHook runs inside the transition's transaction. Returning an error
// rolls the whole transition back.
type DecisionHook func(ctx context.Context, tx *sql.Tx, d Decision) error

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Approve(ctx context.Context, farmID, actorID string, kind Kind, id string) (DecisionResponse, error)
	Reject(ctx context.Context, farmID, actorID string, kind Kind, id, reason string) (DecisionResponse, error)
	History(ctx context.Context, farmID string, kind Kind, id string) ([]LogResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	hooks      map[Kind]DecisionHook
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, hooks map[Kind]DecisionHook, logger ...*zap.Logger) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	if hooks == nil {
		hooks = map[Kind]DecisionHook{}
	}
	return &service{db: db, repo: repo, outboxRepo: outboxRepo, hooks: hooks, logger: l}
}

func (s *service) Approve(ctx context.Context, farmID, actorID string, kind Kind, id string) (DecisionResponse, error) {
	return s.decide(ctx, farmID, actorID, kind, id, ActionApprove, nil)
}

func (s *service) Reject(ctx context.Context, farmID, actorID string, kind Kind, id, reason string) (DecisionResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return DecisionResponse{}, approvalerrors.ErrRejectionReasonRequired
	}
	return s.decide(ctx, farmID, actorID, kind, id, ActionReject, &reason)
}

func (s *service) decide(ctx context.Context, farmID, actorID string, kind Kind, id string, action Action, reason *string) (DecisionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("approval transition requested",
		zap.String("farm_id", farmID),
		zap.String("actor_id", actorID),
		zap.String("kind", string(kind)),
		zap.String("entity_id", id),
		zap.String("action", string(action)),
	)

	farmUUID, actorUUID, entityUUID, err := validateTarget(farmID, actorID, kind, id)
	if err != nil {
		return DecisionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("approval transition begin tx failed", zap.Error(err))
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindStatus(ctx, farmID, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecisionResponse{}, approvalerrors.ErrRequestNotFound
		}
		log.Error("approval transition load failed", zap.Error(err))
		return DecisionResponse{}, err
	}

	next, err := NextStatus(current, action)
	if err != nil {
		log.Warn("approval transition refused",
			zap.String("entity_id", id),
			zap.String("from_status", current),
			zap.String("action", string(action)),
		)
		return DecisionResponse{}, err
	}

	now := time.Now().UTC()
	affected, err := qtx.Transition(ctx, farmID, kind, id, next, actorUUID, now, reason)
	if err != nil {
		log.Error("approval transition persist failed", zap.Error(err))
		return DecisionResponse{}, err
	}
	if affected == 0 {
		log.Warn("approval transition lost race", zap.String("entity_id", id))
		return DecisionResponse{}, approvalerrors.ErrAlreadyDecided
	}

	if err := qtx.AppendLog(ctx, &ApprovalLog{
		ID:         uuid.New(),
		FarmID:     farmUUID,
		Kind:       string(kind),
		EntityID:   entityUUID,
		Action:     string(action),
		FromStatus: current,
		ToStatus:   next,
		ActorID:    actorUUID,
		Reason:     reason,
		CreatedAt:  now,
	}); err != nil {
		log.Error("approval log append failed", zap.Error(err))
		return DecisionResponse{}, err
	}

	decision := Decision{
		FarmID:          farmID,
		Kind:            kind,
		EntityID:        id,
		ActorID:         actorID,
		FromStatus:      current,
		ToStatus:        next,
		ReviewedAt:      now,
		RejectionReason: reason,
	}
	if hook, ok := s.hooks[kind]; ok {
		if err := hook(ctx, tx, decision); err != nil {
			log.Warn("approval hook failed", zap.String("kind", string(kind)), zap.Error(err))
			return DecisionResponse{}, err
		}
	}

	if err := s.enqueueDecided(ctx, tx, decision); err != nil {
		log.Error("approval outbox enqueue failed", zap.Error(err))
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("approval transition commit failed", zap.Error(err))
		return DecisionResponse{}, err
	}

	log.Info("approval transition success",
		zap.String("kind", string(kind)),
		zap.String("entity_id", id),
		zap.String("status", next),
	)
	return mapDecision(decision), nil
}

func (s *service) enqueueDecided(ctx context.Context, tx *sql.Tx, d Decision) error {
	if s.outboxRepo == nil {
		return nil
	}
	requestID := contextutil.GetRequestID(ctx)
	payload := events.ApprovalDecidedEvent{
		EventType:  events.EventTypeApprovalDecided,
		RequestID:  requestID,
		Kind:       string(d.Kind),
		EntityID:   d.EntityID,
		FarmID:     d.FarmID,
		FromStatus: d.FromStatus,
		ToStatus:   d.ToStatus,
		ReviewedBy: d.ActorID,
		OccurredAt: d.ReviewedAt,
	}
	if d.RejectionReason != nil {
		payload.RejectionReason = *d.RejectionReason
	}

	event, err := kafka.NewOutboxEvent(
		requestID,
		strings.ToLower(string(d.Kind)),
		d.EntityID,
		events.EventTypeApprovalDecided,
		events.ApprovalDecidedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, event)
}

func (s *service) History(ctx context.Context, farmID string, kind Kind, id string) ([]LogResponse, error) {
	if _, ok := kindTables[kind]; !ok {
		return nil, approvalerrors.ErrInvalidKind
	}
	if _, err := uuid.Parse(farmID); err != nil {
		return nil, approvalerrors.ErrInvalidFarmID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, approvalerrors.ErrInvalidEntityID
	}
	if _, err := s.repo.FindStatus(ctx, farmID, kind, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approvalerrors.ErrRequestNotFound
		}
		return nil, err
	}

	logs, err := s.repo.FindLogs(ctx, farmID, kind, id)
	if err != nil {
		return nil, err
	}
	resp := make([]LogResponse, len(logs))
	for i, l := range logs {
		resp[i] = mapLog(l)
	}
	return resp, nil
}

func validateTarget(farmID, actorID string, kind Kind, id string) (uuid.UUID, uuid.UUID, uuid.UUID, error) {
	if _, ok := kindTables[kind]; !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, approvalerrors.ErrInvalidKind
	}
	farmUUID, err := uuid.Parse(farmID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, approvalerrors.ErrInvalidFarmID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, approvalerrors.ErrInvalidActorID
	}
	entityUUID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, approvalerrors.ErrInvalidEntityID
	}
	return farmUUID, actorUUID, entityUUID, nil
}

func mapDecision(d Decision) DecisionResponse {
	return DecisionResponse{
		Kind:            string(d.Kind),
		EntityID:        d.EntityID,
		FromStatus:      d.FromStatus,
		Status:          d.ToStatus,
		ReviewedBy:      d.ActorID,
		ReviewedAt:      d.ReviewedAt.Format(time.RFC3339),
		RejectionReason: d.RejectionReason,
	}
}

func mapLog(l ApprovalLog) LogResponse {
	return LogResponse{
		ID:         l.ID.String(),
		Kind:       l.Kind,
		EntityID:   l.EntityID.String(),
		Action:     l.Action,
		FromStatus: l.FromStatus,
		ToStatus:   l.ToStatus,
		ActorID:    l.ActorID.String(),
		Reason:     l.Reason,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
}
