package receipt

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	receipterrors "go-farmops/internal/receipt/errors"

	"gorm.io/datatypes"
)

// parseProposedChanges validates an EDIT payload and returns its normalised
// JSON. CANCEL requests carry no payload.
func parseProposedChanges(requestType string, raw json.RawMessage) (datatypes.JSON, error) {
	if requestType == ChangeCancel {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, receipterrors.ErrInvalidProposedChanges
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var changes ProposedChanges
	if err := dec.Decode(&changes); err != nil {
		return nil, receipterrors.ErrInvalidProposedChanges
	}
	if changes.ReceiptType == nil && changes.Fund == nil && changes.Amount == nil &&
		changes.ReceiptDate == nil && changes.Description == nil {
		return nil, receipterrors.ErrInvalidProposedChanges
	}

	// Dry run against a blank receipt to surface field errors at request time.
	if err := applyChanges(&Receipt{}, changes); err != nil {
		return nil, err
	}

	normalised, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(normalised), nil
}

func applyChanges(rc *Receipt, changes ProposedChanges) error {
	if changes.ReceiptType != nil {
		t := strings.ToUpper(strings.TrimSpace(*changes.ReceiptType))
		if t != TypeIncome && t != TypeExpense {
			return receipterrors.ErrInvalidReceiptType
		}
		rc.ReceiptType = t
	}
	if changes.Fund != nil {
		fund := strings.TrimSpace(*changes.Fund)
		if fund == "" {
			return receipterrors.ErrEmptyFund
		}
		rc.Fund = fund
	}
	if changes.Amount != nil {
		if *changes.Amount <= 0 {
			return receipterrors.ErrInvalidAmount
		}
		rc.Amount = *changes.Amount
	}
	if changes.ReceiptDate != nil {
		d, err := time.Parse("2006-01-02", *changes.ReceiptDate)
		if err != nil {
			return receipterrors.ErrInvalidDateFormat
		}
		rc.ReceiptDate = d
	}
	if changes.Description != nil {
		rc.Description = *changes.Description
	}
	return nil
}
