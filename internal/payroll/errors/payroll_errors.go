package payrollerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period, expected month 1-12 and a four digit year",
		http.StatusBadRequest,
	)
	ErrInvalidActionType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid action_type",
		http.StatusBadRequest,
	)
	ErrInvalidDirection = apperror.New(
		apperror.CodeInvalidInput,
		"invalid direction, expected INCREASE or DECREASE",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrAmountOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"amount is outside the allowed payroll range",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrNegativeField = apperror.New(
		apperror.CodeInvalidState,
		"adjustment would make the payroll field negative",
		http.StatusUnprocessableEntity,
	)
	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"period is closed, reopen it before changing payroll",
		http.StatusUnprocessableEntity,
	)
	ErrSnapshotNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll snapshot not found",
		http.StatusNotFound,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"payroll snapshot was created concurrently, retry the request",
		http.StatusConflict,
	)
)
