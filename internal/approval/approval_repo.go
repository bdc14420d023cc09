package approval

import (
	"context"
	"database/sql"
	"time"

	"go-farmops/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindStatus(ctx context.Context, farmID string, kind Kind, id string) (string, error)
	// Transition moves a PENDING row to status and reports affected rows.
	// Zero means another reviewer got there first.
	Transition(ctx context.Context, farmID string, kind Kind, id, status string, reviewedBy uuid.UUID, reviewedAt time.Time, reason *string) (int64, error)
	AppendLog(ctx context.Context, log *ApprovalLog) error
	FindLogs(ctx context.Context, farmID string, kind Kind, id string) ([]ApprovalLog, error)
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

func (r *repository) FindStatus(ctx context.Context, farmID string, kind Kind, id string) (string, error) {
	var row struct{ Status string }
	err := dbtx.Bind(ctx, r.db, r.tx).
		Table(kind.Table()).
		Select("status").
		Where("id = ? AND farm_id = ?", id, farmID).
		Take(&row).Error
	return row.Status, err
}

func (r *repository) Transition(ctx context.Context, farmID string, kind Kind, id, status string, reviewedBy uuid.UUID, reviewedAt time.Time, reason *string) (int64, error) {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Table(kind.Table()).
		Where("id = ? AND farm_id = ? AND status = ?", id, farmID, StatusPending).
		Updates(map[string]any{
			"status":           status,
			"reviewed_by":      reviewedBy,
			"reviewed_at":      reviewedAt,
			"rejection_reason": reason,
			"updated_at":       reviewedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) AppendLog(ctx context.Context, log *ApprovalLog) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(log).Error
}

func (r *repository) FindLogs(ctx context.Context, farmID string, kind Kind, id string) ([]ApprovalLog, error) {
	var logs []ApprovalLog
	err := dbtx.Bind(ctx, r.db, r.tx).
		Where("farm_id = ? AND kind = ? AND entity_id = ?", farmID, string(kind), id).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
