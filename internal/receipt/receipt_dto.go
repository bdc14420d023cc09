package receipt

import "encoding/json"

type CreateReceiptRequest struct {
	ReceiptType string `json:"receipt_type" binding:"required,oneof=INCOME EXPENSE"`
	Fund        string `json:"fund" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ReceiptDate string `json:"receipt_date" binding:"required"`
	Description string `json:"description"`
}

type ListFilter struct {
	Status      string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	ReceiptType string `form:"receipt_type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Fund        string `form:"fund"`
	From        string `form:"from"`
	To          string `form:"to"`
}

// ProposedChanges lists the receipt fields an EDIT may touch. Nil fields
// stay as they are.
type ProposedChanges struct {
	ReceiptType *string `json:"receipt_type,omitempty"`
	Fund        *string `json:"fund,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	ReceiptDate *string `json:"receipt_date,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateChangeRequestRequest struct {
	RequestType     string          `json:"request_type" binding:"required,oneof=EDIT CANCEL"`
	ProposedChanges json.RawMessage `json:"proposed_changes"`
	Reason          string          `json:"reason" binding:"required"`
}

type ChangeRequestFilter struct {
	Status    string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	ReceiptID string `form:"receipt_id" binding:"omitempty,uuid"`
}

type ReceiptResponse struct {
	ID              string  `json:"id"`
	FarmID          string  `json:"farm_id"`
	ReceiptNumber   string  `json:"receipt_number"`
	ReceiptType     string  `json:"receipt_type"`
	Fund            string  `json:"fund"`
	Amount          int64   `json:"amount"`
	ReceiptDate     string  `json:"receipt_date"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	Cancelled       bool    `json:"cancelled"`
	CreatedBy       string  `json:"created_by"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type ChangeRequestResponse struct {
	ID              string          `json:"id"`
	ReceiptID       string          `json:"receipt_id"`
	RequestType     string          `json:"request_type"`
	ProposedChanges json.RawMessage `json:"proposed_changes,omitempty"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	CreatedBy       string          `json:"created_by"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	ReviewedAt      *string         `json:"reviewed_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}
