package employeeerrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Period must use the YYYY-MM format",
		http.StatusBadRequest,
	)
	ErrUnpaidDaysOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"Unpaid leave days cannot exceed the days in the period",
		http.StatusBadRequest,
	)
)
