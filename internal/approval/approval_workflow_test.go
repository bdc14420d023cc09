package approval_test

import (
	"testing"

	"go-farmops/internal/approval"
	approvalerrors "go-farmops/internal/approval/errors"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		action  approval.Action
		want    string
		wantErr error
	}{
		{"approve pending", approval.StatusPending, approval.ActionApprove, approval.StatusApproved, nil},
		{"reject pending", approval.StatusPending, approval.ActionReject, approval.StatusRejected, nil},
		{"approve approved", approval.StatusApproved, approval.ActionApprove, "", approvalerrors.ErrAlreadyDecided},
		{"reject approved", approval.StatusApproved, approval.ActionReject, "", approvalerrors.ErrAlreadyDecided},
		{"approve rejected", approval.StatusRejected, approval.ActionApprove, "", approvalerrors.ErrAlreadyDecided},
		{"unknown action", approval.StatusPending, approval.Action("CANCEL"), "", approvalerrors.ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := approval.NextStatus(tt.current, tt.action)
			assert.Equal(t, tt.want, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := approval.ParseKind("change-request")
	assert.True(t, ok)
	assert.Equal(t, approval.KindChangeRequest, k)
	assert.Equal(t, "receipt_change_requests", k.Table())

	k, ok = approval.ParseKind("leave")
	assert.True(t, ok)
	assert.Equal(t, approval.KindLeave, k)

	_, ok = approval.ParseKind("payroll")
	assert.False(t, ok)
}
