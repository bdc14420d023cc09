package approval

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind tags which approvable entity a transition targets.
type Kind string

const (
	KindLeave         Kind = "LEAVE"
	KindAdvance       Kind = "ADVANCE"
	KindReceipt       Kind = "RECEIPT"
	KindChangeRequest Kind = "CHANGE_REQUEST"
)

var kindTables = map[Kind]string{
	KindLeave:         "leave_requests",
	KindAdvance:       "salary_advances",
	KindReceipt:       "receipts",
	KindChangeRequest: "receipt_change_requests",
}

// ParseKind accepts both the constant form and the URL form ("change-request").
func ParseKind(v string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.ReplaceAll(v, "-", "_")))
	_, ok := kindTables[k]
	return k, ok
}

func (k Kind) Table() string {
	return kindTables[k]
}

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Review holds the columns every approvable table shares. Entity structs
// embed it so gorm maps the fields onto their own table.
type Review struct {
	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
}

func (r Review) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// ApprovalLog is append-only. Rows are never updated or deleted.
type ApprovalLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FarmID     uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_logs_entity"`
	Kind       string    `gorm:"type:varchar(30);not null;index:idx_approval_logs_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_logs_entity"`
	Action     string    `gorm:"type:varchar(20);not null"`
	FromStatus string    `gorm:"type:varchar(20);not null"`
	ToStatus   string    `gorm:"type:varchar(20);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	Reason     *string   `gorm:"type:text"`
	CreatedAt  time.Time
}

func (ApprovalLog) TableName() string {
	return "approval_logs"
}
