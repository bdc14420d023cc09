package approval

import approvalerrors "go-farmops/internal/approval/errors"

type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

// NextStatus is the whole state machine: PENDING -> APPROVED | REJECTED,
// with both targets terminal.
func NextStatus(current string, action Action) (string, error) {
	if current != StatusPending {
		return "", approvalerrors.ErrAlreadyDecided
	}
	switch action {
	case ActionApprove:
		return StatusApproved, nil
	case ActionReject:
		return StatusRejected, nil
	default:
		return "", approvalerrors.ErrInvalidAction
	}
}
