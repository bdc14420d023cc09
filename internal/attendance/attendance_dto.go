package attendance

import (
	"go-farmops/internal/payroll"

	"github.com/shopspring/decimal"
)

type CheckinRequest struct {
	Date          string          `json:"date" binding:"required"`
	Status        string          `json:"status" binding:"required,oneof=PRESENT LATE ABSENT"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Notes         *string         `json:"notes"`
}

type BulkCloseRequest struct {
	Month       int      `json:"month" binding:"required,min=1,max=12"`
	Year        int      `json:"year" binding:"required,min=2000,max=2100"`
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	CloseAll    bool     `json:"close_all"`
}

type PeriodResponse struct {
	EmployeeID       string `json:"employee_id"`
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	TotalCheckinDays int    `json:"total_checkin_days"`
	PresentDays      int    `json:"present_days"`
	LateDays         int    `json:"late_days"`
	AbsentDays       int    `json:"absent_days"`
	OvertimeHours    string `json:"overtime_hours"`
	OvertimeAmount   int64  `json:"overtime_amount"`
	Closed           bool   `json:"closed"`
}

type PeriodDetailResponse struct {
	Period   PeriodResponse            `json:"period"`
	Snapshot *payroll.SnapshotResponse `json:"snapshot,omitempty"`
	ClosedAt *string                   `json:"closed_at,omitempty"`
	ClosedBy *string                   `json:"closed_by,omitempty"`
}

type CloseResponse struct {
	EmployeeID string                   `json:"employee_id"`
	Month      int                      `json:"month"`
	Year       int                      `json:"year"`
	Status     string                   `json:"status"`
	Snapshot   payroll.SnapshotResponse `json:"snapshot"`
}

type BulkCloseError struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

type BulkCloseResponse struct {
	ClosedCount int              `json:"closed_count"`
	Total       int              `json:"total"`
	Errors      []BulkCloseError `json:"errors"`
}
