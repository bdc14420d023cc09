package receipt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go-farmops/internal/approval"
	receipterrors "go-farmops/internal/receipt/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewChangeRequestHook applies an approved change request to its receipt
// inside the approval transaction. Rejections leave the receipt untouched.
func NewChangeRequestHook(repo Repository, logger ...*zap.Logger) approval.DecisionHook {
	log := zap.L().Named("receipt.change_hook")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("receipt.change_hook")
	}

	return func(ctx context.Context, tx *sql.Tx, d approval.Decision) error {
		if d.ToStatus != approval.StatusApproved {
			return nil
		}

		qrepo := repo.WithTx(tx)
		cr, err := qrepo.FindChangeRequestByID(ctx, d.FarmID, d.EntityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return receipterrors.ErrChangeRequestNotFound
			}
			return err
		}

		rc, err := qrepo.FindByIDForUpdate(ctx, d.FarmID, cr.ReceiptID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return receipterrors.ErrReceiptNotFound
			}
			return err
		}
		if rc.CancelledAt != nil {
			return receipterrors.ErrReceiptCancelled
		}

		switch cr.RequestType {
		case ChangeCancel:
			cancelledAt := d.ReviewedAt
			rc.CancelledAt = &cancelledAt
		case ChangeEdit:
			var changes ProposedChanges
			if err := json.Unmarshal(cr.ProposedChanges, &changes); err != nil {
				return receipterrors.ErrInvalidProposedChanges
			}
			if err := applyChanges(rc, changes); err != nil {
				return err
			}
		}

		if err := qrepo.Update(ctx, rc); err != nil {
			return err
		}

		log.Info("change request applied",
			zap.String("change_request_id", d.EntityID),
			zap.String("receipt_id", rc.ID.String()),
			zap.String("request_type", cr.RequestType),
		)
		return nil
	}
}
