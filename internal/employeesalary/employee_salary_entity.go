package employeesalary

import (
	"time"

	"github.com/google/uuid"
)

const DefaultWorkDaysPerMonth = 26

// EmployeeSalary is a salary profile. The profile in force for a month is the
// latest one whose effective date is on or before the month's last day.
type EmployeeSalary struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmID           uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employee_salary_effective"`
	BaseSalary       int64     `gorm:"not null"`
	WorkDaysPerMonth int       `gorm:"not null;default:26"`
	OvertimeRate     int64     `gorm:"not null;default:0"`
	EffectiveDate    time.Time `gorm:"type:date;not null;uniqueIndex:uq_employee_salary_effective"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (EmployeeSalary) TableName() string {
	return "employee_salaries"
}
