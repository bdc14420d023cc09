package receipt

import (
	"context"
	"database/sql"

	"go-farmops/internal/approval"
	"go-farmops/internal/shared/dbtx"
	"go-farmops/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Receipt) error
	FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]Receipt, error)
	FindByIDAndFarm(ctx context.Context, farmID, id string) (*Receipt, error)
	// FindByIDForUpdate locks the receipt row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, farmID, id string) (*Receipt, error)
	Update(ctx context.Context, r *Receipt) error

	CreateChangeRequest(ctx context.Context, cr *ChangeRequest) error
	FindChangeRequests(ctx context.Context, farmID string, filter ChangeRequestFilter) ([]ChangeRequest, error)
	FindChangeRequestByID(ctx context.Context, farmID, id string) (*ChangeRequest, error)
	HasPendingChangeRequest(ctx context.Context, farmID, receiptID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, rc *Receipt) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(rc).Error
}

func (r *repository) FindAllByFarm(ctx context.Context, farmID string, filter ListFilter) ([]Receipt, error) {
	db := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(farmID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ReceiptType != "" {
		db = db.Where("receipt_type = ?", filter.ReceiptType)
	}
	if filter.Fund != "" {
		db = db.Where("fund = ?", filter.Fund)
	}
	if filter.From != "" {
		db = db.Where("receipt_date >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("receipt_date <= ?", filter.To)
	}

	var receipts []Receipt
	err := db.Order("receipt_date DESC, receipt_number DESC").Find(&receipts).Error
	return receipts, err
}

func (r *repository) FindByIDAndFarm(ctx context.Context, farmID, id string) (*Receipt, error) {
	var rc Receipt
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		First(&rc, "id = ?", id).Error
	return &rc, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, farmID, id string) (*Receipt, error) {
	var rc Receipt
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(farmID)).
		First(&rc, "id = ?", id).Error
	return &rc, err
}

func (r *repository) Update(ctx context.Context, rc *Receipt) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(rc).Error
}

func (r *repository) CreateChangeRequest(ctx context.Context, cr *ChangeRequest) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(cr).Error
}

func (r *repository) FindChangeRequests(ctx context.Context, farmID string, filter ChangeRequestFilter) ([]ChangeRequest, error) {
	db := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(farmID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ReceiptID != "" {
		db = db.Where("receipt_id = ?", filter.ReceiptID)
	}

	var crs []ChangeRequest
	err := db.Order("created_at DESC").Find(&crs).Error
	return crs, err
}

func (r *repository) FindChangeRequestByID(ctx context.Context, farmID, id string) (*ChangeRequest, error) {
	var cr ChangeRequest
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(farmID)).
		First(&cr, "id = ?", id).Error
	return &cr, err
}

func (r *repository) HasPendingChangeRequest(ctx context.Context, farmID, receiptID string) (bool, error) {
	var count int64
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&ChangeRequest{}).
		Scopes(tenant.Scope(farmID)).
		Where("receipt_id = ? AND status = ?", receiptID, approval.StatusPending).
		Count(&count).Error
	return count > 0, err
}
