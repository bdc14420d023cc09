package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
)

// Checkin is one recorded day. Recording the same day again replaces it.
type Checkin struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	FarmID        uuid.UUID       `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:uq_attendance_checkin_day"`
	EmployeeID    uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_checkin_day"`
	CheckinDate   time.Time       `gorm:"column:checkin_date;type:date;not null;uniqueIndex:uq_attendance_checkin_day"`
	Status        string          `gorm:"column:status;type:varchar(10);not null"`
	OvertimeHours decimal.Decimal `gorm:"column:overtime_hours;type:numeric(6,2);not null;default:0"`
	Notes         *string         `gorm:"column:notes;type:text"`
	RecordedBy    uuid.UUID       `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (Checkin) TableName() string {
	return "attendance_checkins"
}

// AttendancePeriod aggregates one employee's check-ins for a month.
type AttendancePeriod struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	FarmID           uuid.UUID       `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:uq_attendance_period;index:idx_attendance_period_month"`
	EmployeeID       uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_period"`
	Month            int             `gorm:"column:month;not null;uniqueIndex:uq_attendance_period;index:idx_attendance_period_month"`
	Year             int             `gorm:"column:year;not null;uniqueIndex:uq_attendance_period;index:idx_attendance_period_month"`
	TotalCheckinDays int             `gorm:"column:total_checkin_days;not null;default:0"`
	PresentDays      int             `gorm:"column:present_days;not null;default:0"`
	LateDays         int             `gorm:"column:late_days;not null;default:0"`
	AbsentDays       int             `gorm:"column:absent_days;not null;default:0"`
	OvertimeHours    decimal.Decimal `gorm:"column:overtime_hours;type:numeric(8,2);not null;default:0"`
	OvertimeAmount   int64           `gorm:"column:overtime_amount;type:bigint;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (AttendancePeriod) TableName() string {
	return "attendance_periods"
}

// AttendanceClosing marks a period CLOSED while it exists.
type AttendanceClosing struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmID     uuid.UUID `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:uq_attendance_closing"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_closing"`
	Month      int       `gorm:"column:month;not null;uniqueIndex:uq_attendance_closing"`
	Year       int       `gorm:"column:year;not null;uniqueIndex:uq_attendance_closing"`
	ClosedAt   time.Time `gorm:"column:closed_at;not null"`
	ClosedBy   uuid.UUID `gorm:"column:closed_by;type:uuid;not null"`
}

func (AttendanceClosing) TableName() string {
	return "attendance_closings"
}

// MonthAggregate is the result of re-counting a month's check-ins.
type MonthAggregate struct {
	TotalCheckinDays int
	PresentDays      int
	LateDays         int
	AbsentDays       int
	OvertimeHours    decimal.Decimal
}
