package payroll

import (
	payrollerrors "go-farmops/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

// Compute derives overtime, gross and net from the snapshot's inputs.
//
//	gross = round(base * min(present, work_days) / work_days) + overtime
//	net   = gross - advance_approved - penalty + bonus + allowance
//
// A non-positive work_days pays the full base.
func Compute(s *PayrollSnapshot) {
	base := decimal.NewFromInt(s.SalaryBase + s.SalaryAdjustment)

	prorated := base
	if s.WorkDaysPerMonth > 0 {
		days := s.PresentDays
		if days > s.WorkDaysPerMonth {
			days = s.WorkDaysPerMonth
		}
		if days < 0 {
			days = 0
		}
		prorated = base.
			Mul(decimal.NewFromInt(int64(days))).
			Div(decimal.NewFromInt(int64(s.WorkDaysPerMonth))).
			Round(0)
	}

	s.OvertimeAmount = s.PeriodOvertimeAmount + s.OvertimeAdjustment
	s.GrossAmount = prorated.IntPart() + s.OvertimeAmount
	s.NetAmount = s.GrossAmount - s.AdvanceApprovedAmount - s.PenaltyAmount + s.BonusAmount + s.AllowanceAmount
}

// Money is stored in the smallest currency unit. A single adjustment is capped
// at MaxAdjustmentAmount, and no snapshot column or total may pass
// MaxPayrollAmount in either direction, so every sum stays far from int64 limits.
const (
	MaxAdjustmentAmount int64 = 1_000_000_000_000
	MaxPayrollAmount    int64 = 1_000_000_000_000_000
)

// withinLimits recomputes the totals in decimal so an out-of-range snapshot is
// caught before any int64 sum can wrap.
func withinLimits(s *PayrollSnapshot) bool {
	limit := decimal.NewFromInt(MaxPayrollAmount)
	d := decimal.NewFromInt

	base := d(s.SalaryBase).Add(d(s.SalaryAdjustment))
	overtime := d(s.PeriodOvertimeAmount).Add(d(s.OvertimeAdjustment))
	gross := base.Add(overtime)
	net := gross.
		Sub(d(s.AdvanceApprovedAmount)).
		Sub(d(s.PenaltyAmount)).
		Add(d(s.BonusAmount)).
		Add(d(s.AllowanceAmount))

	for _, v := range []decimal.Decimal{
		base, overtime, gross, net,
		d(s.BonusAmount), d(s.PenaltyAmount), d(s.AllowanceAmount), d(s.AdvanceApprovedAmount),
	} {
		if v.Abs().GreaterThan(limit) {
			return false
		}
	}
	return true
}

// adjustmentField names the column an action writes and the value that must
// stay non-negative after it.
type adjustmentField struct {
	name  string
	value func(s *PayrollSnapshot) int64
	add   func(s *PayrollSnapshot, delta int64)
}

var adjustmentFields = map[string]adjustmentField{
	ActionBonus: {
		name:  "bonus_amount",
		value: func(s *PayrollSnapshot) int64 { return s.BonusAmount },
		add:   func(s *PayrollSnapshot, d int64) { s.BonusAmount += d },
	},
	ActionDeduction: {
		name:  "penalty_amount",
		value: func(s *PayrollSnapshot) int64 { return s.PenaltyAmount },
		add:   func(s *PayrollSnapshot, d int64) { s.PenaltyAmount += d },
	},
	ActionAllowance: {
		name:  "allowance_amount",
		value: func(s *PayrollSnapshot) int64 { return s.AllowanceAmount },
		add:   func(s *PayrollSnapshot, d int64) { s.AllowanceAmount += d },
	},
	ActionOTAdjust: {
		name:  "overtime_amount",
		value: func(s *PayrollSnapshot) int64 { return s.PeriodOvertimeAmount + s.OvertimeAdjustment },
		add:   func(s *PayrollSnapshot, d int64) { s.OvertimeAdjustment += d },
	},
	ActionSalaryAdjust: {
		name:  "salary_base",
		value: func(s *PayrollSnapshot) int64 { return s.SalaryBase + s.SalaryAdjustment },
		add:   func(s *PayrollSnapshot, d int64) { s.SalaryAdjustment += d },
	},
}

// applyAdjustment mutates s and returns the log skeleton describing the change.
// On error s is left as it was.
func applyAdjustment(s *PayrollSnapshot, actionType, direction string, amount int64) (PayrollLog, error) {
	field, ok := adjustmentFields[actionType]
	if !ok {
		return PayrollLog{}, payrollerrors.ErrInvalidActionType
	}
	if amount <= 0 {
		return PayrollLog{}, payrollerrors.ErrInvalidAmount
	}
	if amount > MaxAdjustmentAmount {
		return PayrollLog{}, payrollerrors.ErrAmountOutOfRange
	}

	var delta int64
	switch direction {
	case DirectionIncrease:
		delta = amount
	case DirectionDecrease:
		delta = -amount
	default:
		return PayrollLog{}, payrollerrors.ErrInvalidDirection
	}

	before := field.value(s)
	if before > MaxPayrollAmount-delta {
		return PayrollLog{}, payrollerrors.ErrAmountOutOfRange
	}
	if before+delta < 0 {
		return PayrollLog{}, payrollerrors.ErrNegativeField
	}

	Compute(s)
	beforeNet := s.NetAmount

	next := *s
	field.add(&next, delta)
	if !withinLimits(&next) {
		return PayrollLog{}, payrollerrors.ErrAmountOutOfRange
	}
	Compute(&next)
	*s = next

	return PayrollLog{
		ActionType:  actionType,
		Direction:   direction,
		Field:       field.name,
		Amount:      amount,
		Delta:       delta,
		BeforeValue: before,
		AfterValue:  field.value(s),
		BeforeNet:   beforeNet,
		AfterNet:    s.NetAmount,
	}, nil
}
