package advance

type CreateAdvanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Year       int    `json:"year" binding:"required,min=2000,max=2100"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Reason     string `json:"reason"`
}

type ListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       int    `form:"year" binding:"omitempty,min=2000,max=2100"`
}

type AdvanceResponse struct {
	ID              string  `json:"id"`
	FarmID          string  `json:"farm_id"`
	EmployeeID      string  `json:"employee_id"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	Amount          int64   `json:"amount"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
