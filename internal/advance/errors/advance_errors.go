package advanceerrors

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
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year must be valid",
		http.StatusBadRequest,
	)
	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is closed, reopen it before adding advances",
		http.StatusUnprocessableEntity,
	)
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary advance not found",
		http.StatusNotFound,
	)
)
