package employeesalary

import (
	"context"
	"database/sql"
	"time"

	"go-farmops/internal/shared/dbtx"
	"go-farmops/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, salary *EmployeeSalary) error
	Update(ctx context.Context, salary *EmployeeSalary) error
	FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]EmployeeSalary, error)
	FindByIDAndFarm(ctx context.Context, farmID string, id string) (*EmployeeSalary, error)
	// FindEffective returns the latest profile effective on or before the
	// last day of the given month.
	FindEffective(ctx context.Context, farmID, employeeID string, month, year int) (*EmployeeSalary, error)
	Delete(ctx context.Context, farmID string, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, salary *EmployeeSalary) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(salary).Error
}

func (r *repository) Update(ctx context.Context, salary *EmployeeSalary) error {
	return dbtx.Bind(ctx, r.db, r.tx).
		Model(&EmployeeSalary{}).
		Scopes(tenant.Scope(salary.FarmID.String())).
		Where("id = ?", salary.ID).
		Updates(map[string]any{
			"base_salary":         salary.BaseSalary,
			"work_days_per_month": salary.WorkDaysPerMonth,
			"overtime_rate":       salary.OvertimeRate,
			"effective_date":      salary.EffectiveDate,
			"updated_at":          time.Now(),
		}).Error
}

func (r *repository) FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]EmployeeSalary, error) {
	db := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(farmID))
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var salaries []EmployeeSalary
	err := db.Order("employee_id ASC").
		Order("effective_date DESC").
		Order("created_at DESC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindByIDAndFarm(ctx context.Context, farmID string, id string) (*EmployeeSalary, error) {
	var salary EmployeeSalary
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		First(&salary, "id = ?", id).Error
	return &salary, err
}

func (r *repository) FindEffective(ctx context.Context, farmID, employeeID string, month, year int) (*EmployeeSalary, error) {
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

	var salary EmployeeSalary
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		Where("employee_id = ?", employeeID).
		Where("effective_date <= ?", lastDay).
		Order("effective_date DESC").
		First(&salary).Error
	return &salary, err
}

func (r *repository) Delete(ctx context.Context, farmID string, id string) (int64, error) {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		Where("id = ?", id).
		Delete(&EmployeeSalary{})
	return res.RowsAffected, res.Error
}
