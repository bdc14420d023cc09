package attendanceerrors

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
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status, expected PRESENT, LATE or ABSENT",
		http.StatusBadRequest,
	)
	ErrInvalidOvertime = apperror.New(
		apperror.CodeInvalidInput,
		"overtime_hours must be between 0 and 24",
		http.StatusBadRequest,
	)
	ErrNoTargets = apperror.New(
		apperror.CodeInvalidInput,
		"employee_ids is empty and close_all is false",
		http.StatusBadRequest,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance period not found",
		http.StatusNotFound,
	)
	ErrPeriodAlreadyClosed = apperror.New(
		apperror.CodeConflict,
		"period is already closed",
		http.StatusConflict,
	)
	ErrPeriodNotClosed = apperror.New(
		apperror.CodeConflict,
		"period is not closed",
		http.StatusConflict,
	)
	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"period is closed, reopen it before recording attendance",
		http.StatusUnprocessableEntity,
	)
	ErrAttendanceIncomplete = apperror.New(
		apperror.CodeInvalidState,
		"period has no check-ins, attendance is incomplete",
		http.StatusUnprocessableEntity,
	)
	ErrBulkCloseInProgress = apperror.New(
		apperror.CodeConflict,
		"a bulk close for this month is already running",
		http.StatusConflict,
	)
	ErrBulkCloseLockLost = apperror.New(
		apperror.CodeConflict,
		"bulk close lock expired, remaining periods were not closed",
		http.StatusConflict,
	)
)
