package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionBonus        = "BONUS"
	ActionDeduction    = "DEDUCTION"
	ActionAllowance    = "ALLOWANCE"
	ActionOTAdjust     = "OT_ADJUST"
	ActionSalaryAdjust = "SALARY_ADJUST"

	DirectionIncrease = "INCREASE"
	DirectionDecrease = "DECREASE"
)

// PayrollSnapshot is the payroll view of one attendance period. Money is kept
// in the smallest currency unit.
type PayrollSnapshot struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_snapshot_period;index:idx_payroll_snapshot_month"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_snapshot_period"`
	Month      int       `gorm:"not null;uniqueIndex:uq_payroll_snapshot_period;index:idx_payroll_snapshot_month"`
	Year       int       `gorm:"not null;uniqueIndex:uq_payroll_snapshot_period;index:idx_payroll_snapshot_month"`

	SalaryBase       int64 `gorm:"type:bigint;not null;default:0"`
	SalaryAdjustment int64 `gorm:"type:bigint;not null;default:0"`
	WorkDaysPerMonth int   `gorm:"not null;default:26"`
	PresentDays      int   `gorm:"not null;default:0"`

	PeriodOvertimeAmount int64 `gorm:"type:bigint;not null;default:0"`
	OvertimeAdjustment   int64 `gorm:"type:bigint;not null;default:0"`
	OvertimeAmount       int64 `gorm:"type:bigint;not null;default:0"`

	BonusAmount     int64 `gorm:"type:bigint;not null;default:0"`
	PenaltyAmount   int64 `gorm:"type:bigint;not null;default:0"`
	AllowanceAmount int64 `gorm:"type:bigint;not null;default:0"`

	AdvanceApprovedAmount int64 `gorm:"type:bigint;not null;default:0"`
	AdvancePendingAmount  int64 `gorm:"type:bigint;not null;default:0"`

	GrossAmount int64 `gorm:"type:bigint;not null;default:0"`
	NetAmount   int64 `gorm:"type:bigint;not null;default:0"`

	FrozenAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollSnapshot) TableName() string {
	return "payroll_snapshots"
}

// PayrollLog is an append-only record of one adjustment.
type PayrollLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmID      uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_logs_period"`
	SnapshotID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_logs_period"`
	Month       int       `gorm:"not null;index:idx_payroll_logs_period"`
	Year        int       `gorm:"not null;index:idx_payroll_logs_period"`
	ActionType  string    `gorm:"type:varchar(20);not null"`
	Direction   string    `gorm:"type:varchar(10);not null"`
	Field       string    `gorm:"type:varchar(40);not null"`
	Amount      int64     `gorm:"type:bigint;not null"`
	Delta       int64     `gorm:"type:bigint;not null"`
	BeforeValue int64     `gorm:"type:bigint;not null"`
	AfterValue  int64     `gorm:"type:bigint;not null"`
	BeforeNet   int64     `gorm:"type:bigint;not null"`
	AfterNet    int64     `gorm:"type:bigint;not null"`
	Reason      string    `gorm:"type:text;not null"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (PayrollLog) TableName() string {
	return "payroll_logs"
}

// PeriodStats are the attendance aggregates payroll reads for a period.
type PeriodStats struct {
	PresentDays    int
	OvertimeAmount int64
	Found          bool
}
