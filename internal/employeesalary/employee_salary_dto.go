package employeesalary

type CreateEmployeeSalaryRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	BaseSalary       int64  `json:"base_salary" binding:"required,gt=0"`
	WorkDaysPerMonth int    `json:"work_days_per_month" binding:"omitempty,gte=0,lte=31"`
	OvertimeRate     int64  `json:"overtime_rate" binding:"gte=0"`
	EffectiveDate    string `json:"effective_date" binding:"required"`
}

type UpdateEmployeeSalaryRequest struct {
	BaseSalary       int64  `json:"base_salary" binding:"required,gt=0"`
	WorkDaysPerMonth int    `json:"work_days_per_month" binding:"omitempty,gte=0,lte=31"`
	OvertimeRate     int64  `json:"overtime_rate" binding:"gte=0"`
	EffectiveDate    string `json:"effective_date" binding:"required"`
}

type ListFilter struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

type EmployeeSalaryResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	BaseSalary       int64  `json:"base_salary"`
	WorkDaysPerMonth int    `json:"work_days_per_month"`
	OvertimeRate     int64  `json:"overtime_rate"`
	EffectiveDate    string `json:"effective_date"`
}
