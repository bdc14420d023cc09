package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	attendanceerrors "go-farmops/internal/attendance/errors"
	"go-farmops/internal/domain"
	"go-farmops/internal/employeesalary"
	"go-farmops/internal/events"
	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/payroll"
	payrollerrors "go-farmops/internal/payroll/errors"
	"go-farmops/internal/shared/apperror"
	"go-farmops/internal/shared/cache"
	"go-farmops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"

	PeriodsCacheKeyPrefix = "attendance:periods:"
	periodsCacheTTL       = 5 * time.Minute
	bulkCloseLockTTL      = 2 * time.Minute
)

var maxOvertimeHours = decimal.NewFromInt(24)

func PeriodsCacheKey(farmID string, month, year int) string {
	return fmt.Sprintf("%s%s:%04d-%02d", PeriodsCacheKeyPrefix, farmID, year, month)
}

func bulkCloseLockKey(farmID string, month, year int) string {
	return fmt.Sprintf("attendance:bulk-close:%s:%04d-%02d", farmID, year, month)
}

// SnapshotService is the slice of payroll the period lifecycle depends on.
type SnapshotService interface {
	payroll.SnapshotManager
	GetSnapshot(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error)
}

type Service interface {
	RecordCheckin(ctx context.Context, farmID, actorID, employeeID string, req CheckinRequest) (PeriodResponse, error)
	GetPeriod(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (PeriodDetailResponse, error)
	ListPeriods(ctx context.Context, farmID string, q payroll.PeriodQuery) ([]PeriodResponse, error)
	Close(ctx context.Context, farmID, actorID, employeeID string, q payroll.PeriodQuery) (CloseResponse, error)
	Reopen(ctx context.Context, farmID, actorID, employeeID string, q payroll.PeriodQuery) (CloseResponse, error)
	BulkClose(ctx context.Context, farmID, actorID string, req BulkCloseRequest) (BulkCloseResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	salaryRepo employeesalary.Repository
	snapshots  SnapshotService
	outboxRepo kafka.OutboxRepository
	rdb        *redis.Client
	locker     Locker
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	salaryRepo employeesalary.Repository,
	snapshots SnapshotService,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	locker Locker,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		salaryRepo: salaryRepo,
		snapshots:  snapshots,
		outboxRepo: outboxRepo,
		rdb:        rdb,
		locker:     locker,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func validateFarmPeriod(farmID string, month, year int) error {
	if _, err := uuid.Parse(farmID); err != nil {
		return attendanceerrors.ErrInvalidFarmID
	}
	if !domain.ValidPeriod(month, year) {
		return attendanceerrors.ErrInvalidPeriod
	}
	return nil
}

func validateEmployeePeriod(farmID, employeeID string, month, year int) error {
	if err := validateFarmPeriod(farmID, month, year); err != nil {
		return err
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return attendanceerrors.ErrInvalidEmployeeID
	}
	return nil
}

func (s *service) RecordCheckin(ctx context.Context, farmID, actorID, employeeID string, req CheckinRequest) (PeriodResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.String("employee_id", employeeID))

	day, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return PeriodResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	month, year := int(day.Month()), day.Year()
	if err := validateEmployeePeriod(farmID, employeeID, month, year); err != nil {
		return PeriodResponse{}, err
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, attendanceerrors.ErrInvalidActorID
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case StatusPresent, StatusLate, StatusAbsent:
	default:
		return PeriodResponse{}, attendanceerrors.ErrInvalidStatus
	}
	if req.OvertimeHours.IsNegative() || req.OvertimeHours.GreaterThan(maxOvertimeHours) {
		return PeriodResponse{}, attendanceerrors.ErrInvalidOvertime
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("record checkin begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)
	closed, err := s.isClosed(ctx, qrepo, farmID, employeeID, month, year)
	if err != nil {
		return PeriodResponse{}, err
	}
	if closed {
		return PeriodResponse{}, attendanceerrors.ErrPeriodClosed
	}

	now := time.Now().UTC()
	farmUUID := uuid.MustParse(farmID)
	employeeUUID := uuid.MustParse(employeeID)
	if err := qrepo.UpsertCheckin(ctx, &Checkin{
		ID:            uuid.New(),
		FarmID:        farmUUID,
		EmployeeID:    employeeUUID,
		CheckinDate:   day,
		Status:        status,
		OvertimeHours: req.OvertimeHours,
		Notes:         req.Notes,
		RecordedBy:    actorUUID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		log.Error("upsert checkin failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	period, err := s.reaggregate(ctx, tx, farmUUID, employeeUUID, month, year, now)
	if err != nil {
		log.Error("reaggregate period failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	if _, err := s.snapshots.RefreshInTx(ctx, tx, farmID, employeeID, month, year); err != nil {
		if errors.Is(err, payrollerrors.ErrPeriodClosed) {
			return PeriodResponse{}, attendanceerrors.ErrPeriodClosed
		}
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("record checkin commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	s.invalidatePeriods(ctx, farmID, month, year)
	log.Info("checkin recorded",
		zap.String("date", day.Format("2006-01-02")),
		zap.String("status", status),
	)
	return mapPeriod(*period, false), nil
}

// reaggregate recounts the month's check-ins into the period row.
func (s *service) reaggregate(ctx context.Context, tx *sql.Tx, farmID, employeeID uuid.UUID, month, year int, now time.Time) (*AttendancePeriod, error) {
	qrepo := s.repo.WithTx(tx)
	agg, err := qrepo.AggregateMonth(ctx, farmID.String(), employeeID.String(), month, year)
	if err != nil {
		return nil, err
	}

	var rate int64
	if s.salaryRepo != nil {
		profile, err := s.salaryRepo.WithTx(tx).FindEffective(ctx, farmID.String(), employeeID.String(), month, year)
		switch {
		case err == nil:
			rate = profile.OvertimeRate
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	period := &AttendancePeriod{
		ID:               uuid.New(),
		FarmID:           farmID,
		EmployeeID:       employeeID,
		Month:            month,
		Year:             year,
		TotalCheckinDays: agg.TotalCheckinDays,
		PresentDays:      agg.PresentDays,
		LateDays:         agg.LateDays,
		AbsentDays:       agg.AbsentDays,
		OvertimeHours:    agg.OvertimeHours,
		OvertimeAmount:   OvertimeAmount(agg.OvertimeHours, rate),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := qrepo.UpsertPeriod(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// OvertimeAmount rounds hours times the hourly rate to the smallest unit.
func OvertimeAmount(hours decimal.Decimal, rate int64) int64 {
	return hours.Mul(decimal.NewFromInt(rate)).Round(0).IntPart()
}

func (s *service) isClosed(ctx context.Context, qrepo Repository, farmID, employeeID string, month, year int) (bool, error) {
	_, err := qrepo.FindClosing(ctx, farmID, employeeID, month, year)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *service) GetPeriod(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (PeriodDetailResponse, error) {
	if err := validateEmployeePeriod(farmID, employeeID, q.Month, q.Year); err != nil {
		return PeriodDetailResponse{}, err
	}

	period, err := s.repo.FindPeriod(ctx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PeriodDetailResponse{}, attendanceerrors.ErrPeriodNotFound
		}
		return PeriodDetailResponse{}, err
	}

	var resp PeriodDetailResponse
	closing, err := s.repo.FindClosing(ctx, farmID, employeeID, q.Month, q.Year)
	switch {
	case err == nil:
		closedAt := closing.ClosedAt.Format(time.RFC3339)
		closedBy := closing.ClosedBy.String()
		resp.ClosedAt = &closedAt
		resp.ClosedBy = &closedBy
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return PeriodDetailResponse{}, err
	}
	resp.Period = mapPeriod(*period, resp.ClosedAt != nil)

	snap, err := s.snapshots.GetSnapshot(ctx, farmID, employeeID, q)
	switch {
	case err == nil:
		resp.Snapshot = &snap
	case !errors.Is(err, payrollerrors.ErrSnapshotNotFound):
		return PeriodDetailResponse{}, err
	}
	return resp, nil
}

func (s *service) ListPeriods(ctx context.Context, farmID string, q payroll.PeriodQuery) ([]PeriodResponse, error) {
	if err := validateFarmPeriod(farmID, q.Month, q.Year); err != nil {
		return nil, err
	}
	log := contextutil.GetLogger(ctx, s.logger)
	cacheKey := PeriodsCacheKey(farmID, q.Month, q.Year)

	var cached []PeriodResponse
	if found, err := cache.GetJSON(ctx, s.rdb, cacheKey, &cached); err != nil {
		log.Warn("periods cache read failed", zap.String("key", cacheKey), zap.Error(err))
	} else if found {
		return cached, nil
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		// Shared by every caller waiting on cacheKey; one cancelled request
		// must not fail the others.
		ctx := context.WithoutCancel(ctx)

		periods, err := s.repo.FindPeriodsByMonth(ctx, farmID, q.Month, q.Year)
		if err != nil {
			return nil, err
		}
		closings, err := s.repo.FindClosingsByMonth(ctx, farmID, q.Month, q.Year)
		if err != nil {
			return nil, err
		}
		closed := make(map[uuid.UUID]bool, len(closings))
		for _, c := range closings {
			closed[c.EmployeeID] = true
		}

		resp := make([]PeriodResponse, len(periods))
		for i, p := range periods {
			resp[i] = mapPeriod(p, closed[p.EmployeeID])
		}
		if err := cache.SetJSON(ctx, s.rdb, cacheKey, resp, periodsCacheTTL); err != nil {
			log.Warn("periods cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
		return resp, nil
	})
	if err != nil {
		log.Error("list periods failed", zap.Error(err))
		return nil, err
	}
	return v.([]PeriodResponse), nil
}

func (s *service) Close(ctx context.Context, farmID, actorID, employeeID string, q payroll.PeriodQuery) (CloseResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("employee_id", employeeID),
		zap.Int("month", q.Month),
		zap.Int("year", q.Year),
	)

	if err := validateEmployeePeriod(farmID, employeeID, q.Month, q.Year); err != nil {
		return CloseResponse{}, err
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CloseResponse{}, attendanceerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("close period begin tx failed", zap.Error(err))
		return CloseResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)
	closed, err := s.isClosed(ctx, qrepo, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		return CloseResponse{}, err
	}
	if closed {
		return CloseResponse{}, attendanceerrors.ErrPeriodAlreadyClosed
	}

	period, err := qrepo.FindPeriod(ctx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CloseResponse{}, attendanceerrors.ErrAttendanceIncomplete
		}
		return CloseResponse{}, err
	}
	if period.TotalCheckinDays == 0 {
		return CloseResponse{}, attendanceerrors.ErrAttendanceIncomplete
	}

	snap, err := s.snapshots.RefreshInTx(ctx, tx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		if errors.Is(err, payrollerrors.ErrPeriodClosed) {
			return CloseResponse{}, attendanceerrors.ErrPeriodAlreadyClosed
		}
		return CloseResponse{}, err
	}

	now := time.Now().UTC()
	if err := s.snapshots.FreezeInTx(ctx, tx, farmID, snap.ID.String(), &now); err != nil {
		log.Error("freeze snapshot failed", zap.Error(err))
		return CloseResponse{}, err
	}
	snap.FrozenAt = &now

	err = qrepo.CreateClosing(ctx, &AttendanceClosing{
		ID:         uuid.New(),
		FarmID:     period.FarmID,
		EmployeeID: period.EmployeeID,
		Month:      q.Month,
		Year:       q.Year,
		ClosedAt:   now,
		ClosedBy:   actorUUID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return CloseResponse{}, attendanceerrors.ErrPeriodAlreadyClosed
		}
		log.Error("create closing failed", zap.Error(err))
		return CloseResponse{}, err
	}

	if err := s.writeLifecycleEvent(ctx, tx, events.EventTypePeriodClosed, farmID, employeeID, actorID, q, snap.NetAmount, now); err != nil {
		log.Error("close period outbox failed", zap.Error(err))
		return CloseResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("close period commit failed", zap.Error(err))
		return CloseResponse{}, err
	}

	s.invalidatePeriods(ctx, farmID, q.Month, q.Year)
	log.Info("period closed", zap.Int64("net_amount", snap.NetAmount))
	return CloseResponse{
		EmployeeID: employeeID,
		Month:      q.Month,
		Year:       q.Year,
		Status:     StateClosed,
		Snapshot:   payroll.MapSnapshot(*snap, true),
	}, nil
}

func (s *service) Reopen(ctx context.Context, farmID, actorID, employeeID string, q payroll.PeriodQuery) (CloseResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("employee_id", employeeID),
		zap.Int("month", q.Month),
		zap.Int("year", q.Year),
	)

	if err := validateEmployeePeriod(farmID, employeeID, q.Month, q.Year); err != nil {
		return CloseResponse{}, err
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return CloseResponse{}, attendanceerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("reopen period begin tx failed", zap.Error(err))
		return CloseResponse{}, err
	}
	defer tx.Rollback()

	rows, err := s.repo.WithTx(tx).DeleteClosing(ctx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		log.Error("delete closing failed", zap.Error(err))
		return CloseResponse{}, err
	}
	if rows == 0 {
		return CloseResponse{}, attendanceerrors.ErrPeriodNotClosed
	}

	snap, err := s.snapshots.RefreshInTx(ctx, tx, farmID, employeeID, q.Month, q.Year)
	if err != nil {
		return CloseResponse{}, err
	}
	if err := s.snapshots.FreezeInTx(ctx, tx, farmID, snap.ID.String(), nil); err != nil {
		log.Error("unfreeze snapshot failed", zap.Error(err))
		return CloseResponse{}, err
	}
	snap.FrozenAt = nil

	now := time.Now().UTC()
	if err := s.writeLifecycleEvent(ctx, tx, events.EventTypePeriodReopened, farmID, employeeID, actorID, q, snap.NetAmount, now); err != nil {
		log.Error("reopen period outbox failed", zap.Error(err))
		return CloseResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("reopen period commit failed", zap.Error(err))
		return CloseResponse{}, err
	}

	s.invalidatePeriods(ctx, farmID, q.Month, q.Year)
	log.Info("period reopened")
	return CloseResponse{
		EmployeeID: employeeID,
		Month:      q.Month,
		Year:       q.Year,
		Status:     StateOpen,
		Snapshot:   payroll.MapSnapshot(*snap, false),
	}, nil
}

// BulkClose closes each target in its own transaction and keeps going past
// failures. The lock is extended before every target after the first.
func (s *service) BulkClose(ctx context.Context, farmID, actorID string, req BulkCloseRequest) (BulkCloseResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Bool("close_all", req.CloseAll),
	)

	if err := validateFarmPeriod(farmID, req.Month, req.Year); err != nil {
		return BulkCloseResponse{}, err
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return BulkCloseResponse{}, attendanceerrors.ErrInvalidActorID
	}
	if !req.CloseAll && len(req.EmployeeIDs) == 0 {
		return BulkCloseResponse{}, attendanceerrors.ErrNoTargets
	}

	var lease Lease
	if s.locker != nil {
		l, err := s.locker.Acquire(ctx, bulkCloseLockKey(farmID, req.Month, req.Year), bulkCloseLockTTL)
		if err != nil {
			log.Warn("bulk close lock not obtained", zap.Error(err))
			return BulkCloseResponse{}, err
		}
		lease = l
		defer lease.Release()
	}

	targets, err := s.bulkTargets(ctx, farmID, req)
	if err != nil {
		log.Error("resolve bulk close targets failed", zap.Error(err))
		return BulkCloseResponse{}, err
	}

	q := payroll.PeriodQuery{Month: req.Month, Year: req.Year}
	resp := BulkCloseResponse{Total: len(targets), Errors: []BulkCloseError{}}
	for i, employeeID := range targets {
		if lease != nil && i > 0 {
			if err := lease.Refresh(ctx, bulkCloseLockTTL); err != nil {
				log.Warn("bulk close lock refresh failed, stopping", zap.Int("remaining", len(targets)-i), zap.Error(err))
				msg := apperror.ToHTTP(attendanceerrors.ErrBulkCloseLockLost).Message
				for _, rest := range targets[i:] {
					resp.Errors = append(resp.Errors, BulkCloseError{EmployeeID: rest, Message: msg})
				}
				break
			}
		}
		if _, err := s.Close(ctx, farmID, actorID, employeeID, q); err != nil {
			resp.Errors = append(resp.Errors, BulkCloseError{
				EmployeeID: employeeID,
				Message:    apperror.ToHTTP(err).Message,
			})
			continue
		}
		resp.ClosedCount++
	}

	log.Info("bulk close finished",
		zap.Int("closed_count", resp.ClosedCount),
		zap.Int("total", resp.Total),
	)
	return resp, nil
}

func (s *service) bulkTargets(ctx context.Context, farmID string, req BulkCloseRequest) ([]string, error) {
	if req.CloseAll {
		periods, err := s.repo.FindPeriodsByMonth(ctx, farmID, req.Month, req.Year)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(periods))
		for i, p := range periods {
			ids[i] = p.EmployeeID.String()
		}
		return ids, nil
	}

	seen := make(map[string]struct{}, len(req.EmployeeIDs))
	ids := make([]string, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) writeLifecycleEvent(
	ctx context.Context,
	tx *sql.Tx,
	eventType, farmID, employeeID, actorID string,
	q payroll.PeriodQuery,
	netAmount int64,
	at time.Time,
) error {
	if s.outboxRepo == nil {
		return nil
	}
	requestID := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(
		requestID,
		"attendance_period",
		fmt.Sprintf("%s:%04d-%02d", employeeID, q.Year, q.Month),
		eventType,
		events.AttendancePeriodTopic,
		events.PeriodLifecycleEvent{
			EventType:  eventType,
			RequestID:  requestID,
			FarmID:     farmID,
			EmployeeID: employeeID,
			Month:      q.Month,
			Year:       q.Year,
			ActorID:    actorID,
			NetAmount:  netAmount,
			OccurredAt: at,
		},
	)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, event)
}

func (s *service) invalidatePeriods(ctx context.Context, farmID string, month, year int) {
	key := PeriodsCacheKey(farmID, month, year)
	if err := cache.Delete(ctx, s.rdb, key); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("failed to invalidate periods cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func mapPeriod(p AttendancePeriod, closed bool) PeriodResponse {
	return PeriodResponse{
		EmployeeID:       p.EmployeeID.String(),
		Month:            p.Month,
		Year:             p.Year,
		TotalCheckinDays: p.TotalCheckinDays,
		PresentDays:      p.PresentDays,
		LateDays:         p.LateDays,
		AbsentDays:       p.AbsentDays,
		OvertimeHours:    p.OvertimeHours.StringFixed(2),
		OvertimeAmount:   p.OvertimeAmount,
		Closed:           closed,
	}
}
