package employeesalaryerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base_salary must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidOvertimeRate = apperror.New(
		apperror.CodeInvalidInput,
		"overtime_rate must not be negative",
		http.StatusBadRequest,
	)
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary profile not found",
		http.StatusNotFound,
	)
	ErrSalaryEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Salary for this employee and effective date already exists",
		http.StatusConflict,
	)
)
