package events

import "time"

const AttendancePeriodTopic = "farm.attendance.period.v1"

const (
	EventTypePeriodClosed   = "period_closed"
	EventTypePeriodReopened = "period_reopened"
)

type PeriodLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	FarmID     string    `json:"farm_id"`
	EmployeeID string    `json:"employee_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	ActorID    string    `json:"actor_id"`
	NetAmount  int64     `json:"net_amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
