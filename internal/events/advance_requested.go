package events

import "time"

const AdvanceRequestedTopic = "farm.payroll.advance.v1"

const EventTypeAdvanceRequested = "advance_requested"

type AdvanceRequestedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	AdvanceID  string    `json:"advance_id"`
	FarmID     string    `json:"farm_id"`
	EmployeeID string    `json:"employee_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
