package receipt

import (
	"time"

	"go-farmops/internal/approval"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"

	ChangeEdit   = "EDIT"
	ChangeCancel = "CANCEL"
)

type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FarmID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_receipts_farm_number;index:idx_receipts_farm_date"`
	ReceiptNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_receipts_farm_number"`
	ReceiptType   string    `gorm:"type:varchar(10);not null"`
	Fund          string    `gorm:"type:varchar(100);not null"`
	Amount        int64     `gorm:"not null"`
	ReceiptDate   time.Time `gorm:"type:date;not null;index:idx_receipts_farm_date"`
	Description   string    `gorm:"type:text"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`

	approval.Review

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Receipt) TableName() string {
	return "receipts"
}

// ChangeRequest proposes an edit or cancellation of an approved receipt.
// The partial unique index allows one PENDING request per receipt.
type ChangeRequest struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FarmID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	ReceiptID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_change_requests_one_pending,where:status = 'PENDING'"`
	RequestType     string         `gorm:"type:varchar(10);not null"`
	ProposedChanges datatypes.JSON `gorm:"type:jsonb"`
	Reason          string         `gorm:"type:text;not null"`
	CreatedBy       uuid.UUID      `gorm:"type:uuid;not null"`

	approval.Review

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ChangeRequest) TableName() string {
	return "receipt_change_requests"
}
