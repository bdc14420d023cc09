package attendance

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
	UpsertCheckin(ctx context.Context, c *Checkin) error
	AggregateMonth(ctx context.Context, farmID, employeeID string, month, year int) (MonthAggregate, error)
	UpsertPeriod(ctx context.Context, p *AttendancePeriod) error
	FindPeriod(ctx context.Context, farmID, employeeID string, month, year int) (*AttendancePeriod, error)
	FindPeriodsByMonth(ctx context.Context, farmID string, month, year int) ([]AttendancePeriod, error)

	FindClosing(ctx context.Context, farmID, employeeID string, month, year int) (*AttendanceClosing, error)
	FindClosingsByMonth(ctx context.Context, farmID string, month, year int) ([]AttendanceClosing, error)
	CreateClosing(ctx context.Context, c *AttendanceClosing) error
	DeleteClosing(ctx context.Context, farmID, employeeID string, month, year int) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) periodScope(farmID, employeeID string, month, year int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(tenant.Scope(farmID)).
			Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year)
	}
}

func (r *repository) UpsertCheckin(ctx context.Context, c *Checkin) error {
	return dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "farm_id"}, {Name: "employee_id"}, {Name: "checkin_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "overtime_hours", "notes", "recorded_by", "updated_at"}),
		}).
		Create(c).Error
}

func (r *repository) AggregateMonth(ctx context.Context, farmID, employeeID string, month, year int) (MonthAggregate, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var agg MonthAggregate
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&Checkin{}).
		Scopes(tenant.Scope(farmID)).
		Select(
			"COUNT(*) AS total_checkin_days, "+
				"COUNT(*) FILTER (WHERE status IN (?, ?)) AS present_days, "+
				"COUNT(*) FILTER (WHERE status = ?) AS late_days, "+
				"COUNT(*) FILTER (WHERE status = ?) AS absent_days, "+
				"COALESCE(SUM(overtime_hours), 0) AS overtime_hours",
			StatusPresent, StatusLate, StatusLate, StatusAbsent,
		).
		Where("employee_id = ?", employeeID).
		Where("checkin_date BETWEEN ? AND ?", from, to).
		Scan(&agg).Error
	return agg, err
}

func (r *repository) UpsertPeriod(ctx context.Context, p *AttendancePeriod) error {
	return dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "farm_id"}, {Name: "employee_id"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_checkin_days",
				"present_days",
				"late_days",
				"absent_days",
				"overtime_hours",
				"overtime_amount",
				"updated_at",
			}),
		}).
		Create(p).Error
}

func (r *repository) FindPeriod(ctx context.Context, farmID, employeeID string, month, year int) (*AttendancePeriod, error) {
	var p AttendancePeriod
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(r.periodScope(farmID, employeeID, month, year)).
		First(&p).Error
	return &p, err
}

func (r *repository) FindPeriodsByMonth(ctx context.Context, farmID string, month, year int) ([]AttendancePeriod, error) {
	var periods []AttendancePeriod
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		Where("month = ? AND year = ?", month, year).
		Order("employee_id ASC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) FindClosing(ctx context.Context, farmID, employeeID string, month, year int) (*AttendanceClosing, error) {
	var c AttendanceClosing
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(r.periodScope(farmID, employeeID, month, year)).
		First(&c).Error
	return &c, err
}

func (r *repository) FindClosingsByMonth(ctx context.Context, farmID string, month, year int) ([]AttendanceClosing, error) {
	var closings []AttendanceClosing
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		Where("month = ? AND year = ?", month, year).
		Find(&closings).Error
	return closings, err
}

func (r *repository) CreateClosing(ctx context.Context, c *AttendanceClosing) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(c).Error
}

func (r *repository) DeleteClosing(ctx context.Context, farmID, employeeID string, month, year int) (int64, error) {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(r.periodScope(farmID, employeeID, month, year)).
		Delete(&AttendanceClosing{})
	return res.RowsAffected, res.Error
}
