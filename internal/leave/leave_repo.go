package leave

import (
	"context"
	"database/sql"
	"time"

	"go-farmops/internal/approval"
	"go-farmops/internal/shared/dbtx"
	"go-farmops/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]LeaveRequest, error)
	FindByIDAndFarm(ctx context.Context, farmID, id string) (*LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, farmID, employeeID string, startDate, endDate time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(l).Error
}

func (r *repository) FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]LeaveRequest, error) {
	db := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(farmID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndFarm(ctx context.Context, farmID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

// HasOverlappingPeriod ignores rejected requests; pending and approved ones
// both block the range.
func (r *repository) HasOverlappingPeriod(ctx context.Context, farmID, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(farmID)).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", approval.StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}
