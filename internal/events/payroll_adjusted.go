package events

import "time"

const PayrollAdjustedTopic = "farm.payroll.adjusted.v1"

const EventTypePayrollAdjusted = "payroll_adjusted"

type PayrollAdjustedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LogID      string    `json:"log_id"`
	FarmID     string    `json:"farm_id"`
	EmployeeID string    `json:"employee_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	ActionType string    `json:"action_type"`
	Delta      int64     `json:"delta"`
	NetAmount  int64     `json:"net_amount"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
