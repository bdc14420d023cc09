package advance

import (
	"time"

	"go-farmops/internal/approval"

	"github.com/google/uuid"
)

type SalaryAdvance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FarmID     uuid.UUID `gorm:"type:uuid;not null;index:idx_salary_advances_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_salary_advances_period"`
	Month      int       `gorm:"not null;index:idx_salary_advances_period"`
	Year       int       `gorm:"not null;index:idx_salary_advances_period"`
	Amount     int64     `gorm:"not null"`
	Reason     string    `gorm:"type:text"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`

	approval.Review

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryAdvance) TableName() string {
	return "salary_advances"
}

// Totals is the advance input of a payroll snapshot.
type Totals struct {
	Approved int64
	Pending  int64
}
