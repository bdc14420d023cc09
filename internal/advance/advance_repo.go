package advance

import (
	"context"
	"database/sql"

	"go-farmops/internal/approval"
	"go-farmops/internal/shared/dbtx"
	"go-farmops/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *SalaryAdvance) error
	FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]SalaryAdvance, error)
	FindByIDAndFarm(ctx context.Context, farmID, id string) (*SalaryAdvance, error)
	SumForPeriod(ctx context.Context, farmID, employeeID string, month, year int) (Totals, error)
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
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, a *SalaryAdvance) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(a).Error
}

func (r *repository) FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]SalaryAdvance, error) {
	db := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(farmID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Month != 0 {
		db = db.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}

	var advances []SalaryAdvance
	err := db.Order("created_at DESC").Find(&advances).Error
	return advances, err
}

func (r *repository) FindByIDAndFarm(ctx context.Context, farmID, id string) (*SalaryAdvance, error) {
	var a SalaryAdvance
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) SumForPeriod(ctx context.Context, farmID, employeeID string, month, year int) (Totals, error) {
	var row struct {
		Approved int64
		Pending  int64
	}
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&SalaryAdvance{}).
		Scopes(tenant.Scope(farmID)).
		Select(
			"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS approved, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS pending",
			approval.StatusApproved, approval.StatusPending,
		).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		Scan(&row).Error
	return Totals{Approved: row.Approved, Pending: row.Pending}, err
}

func (r *repository) IsPeriodClosed(ctx context.Context, farmID, employeeID string, month, year int) (bool, error) {
	var count int64
	err := dbtx.Bind(ctx, r.db, r.tx).
		Table("attendance_closings").
		Scopes(tenant.Scope(farmID)).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		Count(&count).Error
	return count > 0, err
}
