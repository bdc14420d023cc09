package approval

type RejectRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type DecisionResponse struct {
	Kind            string  `json:"kind"`
	EntityID        string  `json:"entity_id"`
	FromStatus      string  `json:"from_status"`
	Status          string  `json:"status"`
	ReviewedBy      string  `json:"reviewed_by"`
	ReviewedAt      string  `json:"reviewed_at"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type LogResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	EntityID   string  `json:"entity_id"`
	Action     string  `json:"action"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	ActorID    string  `json:"actor_id"`
	Reason     *string `json:"reason,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
