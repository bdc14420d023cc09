package payroll

type PeriodQuery struct {
	Month int `form:"month" json:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" json:"year" binding:"required,min=2000,max=2100"`
}

type AdjustmentRequest struct {
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Year       int    `json:"year" binding:"required,min=2000,max=2100"`
	ActionType string `json:"action_type" binding:"required,oneof=BONUS DEDUCTION ALLOWANCE OT_ADJUST SALARY_ADJUST"`
	Direction  string `json:"direction" binding:"required,oneof=INCREASE DECREASE"`
	Amount     int64  `json:"amount" binding:"required,gt=0,max=1000000000000"`
	Reason     string `json:"reason" binding:"required"`
}

type SnapshotResponse struct {
	ID                    string  `json:"id"`
	EmployeeID            string  `json:"employee_id"`
	Month                 int     `json:"month"`
	Year                  int     `json:"year"`
	SalaryBase            int64   `json:"salary_base"`
	SalaryAdjustment      int64   `json:"salary_adjustment"`
	WorkDaysPerMonth      int     `json:"work_days_per_month"`
	PresentDays           int     `json:"present_days"`
	OvertimeAmount        int64   `json:"overtime_amount"`
	OvertimeAdjustment    int64   `json:"overtime_adjustment"`
	BonusAmount           int64   `json:"bonus_amount"`
	PenaltyAmount         int64   `json:"penalty_amount"`
	AllowanceAmount       int64   `json:"allowance_amount"`
	AdvanceApprovedAmount int64   `json:"advance_approved_amount"`
	AdvancePendingAmount  int64   `json:"advance_pending_amount"`
	GrossAmount           int64   `json:"gross_amount"`
	NetAmount             int64   `json:"net_amount"`
	Closed                bool    `json:"closed"`
	FrozenAt              *string `json:"frozen_at,omitempty"`
	UpdatedAt             string  `json:"updated_at"`
}

type LogResponse struct {
	ID          string `json:"id"`
	ActionType  string `json:"action_type"`
	Direction   string `json:"direction"`
	Field       string `json:"field"`
	Amount      int64  `json:"amount"`
	Delta       int64  `json:"delta"`
	BeforeValue int64  `json:"before_value"`
	AfterValue  int64  `json:"after_value"`
	BeforeNet   int64  `json:"before_net"`
	AfterNet    int64  `json:"after_net"`
	Reason      string `json:"reason"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type AdjustmentResponse struct {
	Snapshot SnapshotResponse `json:"snapshot"`
	Log      LogResponse      `json:"log"`
}
