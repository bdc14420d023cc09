package receipterrors

import (
	"net/http"

	"go-farmops/internal/shared/apperror"
)

var (
	ErrInvalidFarmID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid farm id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidReceiptType = apperror.New(
		apperror.CodeInvalidInput,
		"receipt_type must be INCOME or EXPENSE",
		http.StatusBadRequest,
	)
	ErrEmptyFund = apperror.New(
		apperror.CodeInvalidInput,
		"fund cannot be empty",
		http.StatusBadRequest,
	)
	ErrInvalidProposedChanges = apperror.New(
		apperror.CodeInvalidInput,
		"proposed_changes must be an object with at least one editable receipt field",
		http.StatusBadRequest,
	)
	ErrReceiptNotFound = apperror.New(
		apperror.CodeNotFound,
		"receipt not found",
		http.StatusNotFound,
	)
	ErrChangeRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"change request not found",
		http.StatusNotFound,
	)
	ErrReceiptNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"only approved receipts can receive change requests",
		http.StatusUnprocessableEntity,
	)
	ErrReceiptCancelled = apperror.New(
		apperror.CodeInvalidState,
		"receipt has been cancelled",
		http.StatusUnprocessableEntity,
	)
	ErrChangeRequestPending = apperror.New(
		apperror.CodeConflict,
		"receipt already has a pending change request",
		http.StatusConflict,
	)
)
