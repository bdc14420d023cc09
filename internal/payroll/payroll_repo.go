package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-farmops/internal/shared/dbtx"
	"go-farmops/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindSnapshot(ctx context.Context, farmID, employeeID string, month, year int) (*PayrollSnapshot, error)
	// FindSnapshotForUpdate row-locks the snapshot until the transaction ends.
	FindSnapshotForUpdate(ctx context.Context, farmID, employeeID string, month, year int) (*PayrollSnapshot, error)
	FindSnapshotsByMonth(ctx context.Context, farmID string, month, year int) ([]PayrollSnapshot, error)
	CreateSnapshot(ctx context.Context, s *PayrollSnapshot) error
	SaveSnapshot(ctx context.Context, s *PayrollSnapshot) error
	SetFrozen(ctx context.Context, farmID, snapshotID string, frozenAt *time.Time) error

	AppendLog(ctx context.Context, l *PayrollLog) error
	FindLogs(ctx context.Context, farmID, employeeID string, month, year int) ([]PayrollLog, error)

	FindPeriodStats(ctx context.Context, farmID, employeeID string, month, year int) (PeriodStats, error)
	IsPeriodClosed(ctx context.Context, farmID, employeeID string, month, year int) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) periodQuery(ctx context.Context, farmID, employeeID string, month, year int) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year)
}

func (r *repository) FindSnapshot(ctx context.Context, farmID, employeeID string, month, year int) (*PayrollSnapshot, error) {
	var s PayrollSnapshot
	err := r.periodQuery(ctx, farmID, employeeID, month, year).First(&s).Error
	return &s, err
}

func (r *repository) FindSnapshotForUpdate(ctx context.Context, farmID, employeeID string, month, year int) (*PayrollSnapshot, error) {
	var s PayrollSnapshot
	err := r.periodQuery(ctx, farmID, employeeID, month, year).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s).Error
	return &s, err
}

func (r *repository) FindSnapshotsByMonth(ctx context.Context, farmID string, month, year int) ([]PayrollSnapshot, error) {
	var snapshots []PayrollSnapshot
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		Where("month = ? AND year = ?", month, year).
		Order("employee_id ASC").
		Find(&snapshots).Error
	return snapshots, err
}

func (r *repository) CreateSnapshot(ctx context.Context, s *PayrollSnapshot) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(s).Error
}

func (r *repository) SaveSnapshot(ctx context.Context, s *PayrollSnapshot) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(s).Error
}

func (r *repository) SetFrozen(ctx context.Context, farmID, snapshotID string, frozenAt *time.Time) error {
	return dbtx.Bind(ctx, r.db, r.tx).
		Model(&PayrollSnapshot{}).
		Scopes(tenant.Scope(farmID)).
		Where("id = ?", snapshotID).
		Updates(map[string]any{
			"frozen_at":  frozenAt,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) AppendLog(ctx context.Context, l *PayrollLog) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(l).Error
}

func (r *repository) FindLogs(ctx context.Context, farmID, employeeID string, month, year int) ([]PayrollLog, error) {
	var logs []PayrollLog
	err := r.periodQuery(ctx, farmID, employeeID, month, year).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) FindPeriodStats(ctx context.Context, farmID, employeeID string, month, year int) (PeriodStats, error) {
	var row struct {
		PresentDays    int
		OvertimeAmount int64
	}
	res := r.periodQuery(ctx, farmID, employeeID, month, year).
		Table("attendance_periods").
		Select("present_days, overtime_amount").
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return PeriodStats{}, res.Error
	}
	return PeriodStats{
		PresentDays:    row.PresentDays,
		OvertimeAmount: row.OvertimeAmount,
		Found:          res.RowsAffected > 0,
	}, nil
}

func (r *repository) IsPeriodClosed(ctx context.Context, farmID, employeeID string, month, year int) (bool, error) {
	var count int64
	err := r.periodQuery(ctx, farmID, employeeID, month, year).
		Table("attendance_closings").
		Count(&count).Error
	return count > 0, err
}
