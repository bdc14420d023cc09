package payroll_test

import (
	"math"
	"testing"

	"go-farmops/internal/payroll"
	payrollerrors "go-farmops/internal/payroll/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		snap      payroll.PayrollSnapshot
		wantGross int64
		wantNet   int64
	}{
		{
			name:      "full attendance",
			snap:      payroll.PayrollSnapshot{SalaryBase: 2_600_000, WorkDaysPerMonth: 26, PresentDays: 26},
			wantGross: 2_600_000,
			wantNet:   2_600_000,
		},
		{
			name:      "prorated and rounded",
			snap:      payroll.PayrollSnapshot{SalaryBase: 1_000_000, WorkDaysPerMonth: 26, PresentDays: 20},
			wantGross: 769_231,
			wantNet:   769_231,
		},
		{
			name:      "present days capped at work days",
			snap:      payroll.PayrollSnapshot{SalaryBase: 2_600_000, WorkDaysPerMonth: 26, PresentDays: 30},
			wantGross: 2_600_000,
			wantNet:   2_600_000,
		},
		{
			name:      "zero work days pays full base",
			snap:      payroll.PayrollSnapshot{SalaryBase: 1_500_000, WorkDaysPerMonth: 0, PresentDays: 3},
			wantGross: 1_500_000,
			wantNet:   1_500_000,
		},
		{
			name: "all components",
			snap: payroll.PayrollSnapshot{
				SalaryBase:            2_600_000,
				WorkDaysPerMonth:      26,
				PresentDays:           13,
				PeriodOvertimeAmount:  50_000,
				OvertimeAdjustment:    10_000,
				BonusAmount:           100_000,
				AllowanceAmount:       40_000,
				PenaltyAmount:         30_000,
				AdvanceApprovedAmount: 200_000,
				AdvancePendingAmount:  999_999,
			},
			wantGross: 1_360_000,
			wantNet:   1_270_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := tt.snap
			payroll.Compute(&snap)

			assert.Equal(t, tt.wantGross, snap.GrossAmount)
			assert.Equal(t, tt.wantNet, snap.NetAmount)
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := payroll.PayrollSnapshot{SalaryBase: 3_100_000, WorkDaysPerMonth: 26, PresentDays: 17, BonusAmount: 5}
	b := a

	payroll.Compute(&a)
	payroll.Compute(&b)
	payroll.Compute(&b)

	assert.Equal(t, a, b)
}

func TestApplyAdjustment_Limits(t *testing.T) {
	newSnapshot := func() payroll.PayrollSnapshot {
		s := payroll.PayrollSnapshot{SalaryBase: 1_000, WorkDaysPerMonth: 26, PresentDays: 26}
		payroll.Compute(&s)
		return s
	}

	t.Run("max int64 bonus refused and snapshot untouched", func(t *testing.T) {
		snap := newSnapshot()
		before := snap

		_, err := payroll.ApplyAdjustment(&snap, payroll.ActionBonus, payroll.DirectionIncrease, math.MaxInt64)

		assert.ErrorIs(t, err, payrollerrors.ErrAmountOutOfRange)
		assert.Equal(t, before, snap)
	})

	t.Run("later small bonus still accepted", func(t *testing.T) {
		snap := newSnapshot()
		_, err := payroll.ApplyAdjustment(&snap, payroll.ActionBonus, payroll.DirectionIncrease, math.MaxInt64)
		require.Error(t, err)

		entry, err := payroll.ApplyAdjustment(&snap, payroll.ActionBonus, payroll.DirectionIncrease, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1_000), entry.BeforeNet)
		assert.Equal(t, int64(1_001), entry.AfterNet)
		assert.Equal(t, int64(1_001), snap.NetAmount)
	})

	t.Run("largest single adjustment accepted", func(t *testing.T) {
		snap := newSnapshot()

		entry, err := payroll.ApplyAdjustment(&snap, payroll.ActionAllowance, payroll.DirectionIncrease, payroll.MaxAdjustmentAmount)

		require.NoError(t, err)
		assert.Equal(t, payroll.MaxAdjustmentAmount+1_000, entry.AfterNet)
	})

	t.Run("amount above single adjustment cap", func(t *testing.T) {
		snap := newSnapshot()

		_, err := payroll.ApplyAdjustment(&snap, payroll.ActionDeduction, payroll.DirectionIncrease, payroll.MaxAdjustmentAmount+1)

		assert.ErrorIs(t, err, payrollerrors.ErrAmountOutOfRange)
	})

	t.Run("field at payroll ceiling", func(t *testing.T) {
		snap := newSnapshot()
		snap.BonusAmount = payroll.MaxPayrollAmount - 10
		payroll.Compute(&snap)

		_, err := payroll.ApplyAdjustment(&snap, payroll.ActionBonus, payroll.DirectionIncrease, 11)

		assert.ErrorIs(t, err, payrollerrors.ErrAmountOutOfRange)
		assert.Equal(t, payroll.MaxPayrollAmount-10, snap.BonusAmount)
	})

	t.Run("net total past ceiling", func(t *testing.T) {
		snap := newSnapshot()
		snap.BonusAmount = payroll.MaxPayrollAmount - 1_000
		payroll.Compute(&snap)

		_, err := payroll.ApplyAdjustment(&snap, payroll.ActionAllowance, payroll.DirectionIncrease, 1)

		assert.ErrorIs(t, err, payrollerrors.ErrAmountOutOfRange)
		assert.Zero(t, snap.AllowanceAmount)
	})
}
