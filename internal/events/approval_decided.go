package events

import "time"

const ApprovalDecidedTopic = "farm.approval.decided.v1"

const EventTypeApprovalDecided = "approval_decided"

type ApprovalDecidedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	Kind            string    `json:"kind"`
	EntityID        string    `json:"entity_id"`
	FarmID          string    `json:"farm_id"`
	FromStatus      string    `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	ReviewedBy      string    `json:"reviewed_by"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
