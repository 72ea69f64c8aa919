package payrollrunerrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll run not found",
		http.StatusNotFound,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payslip not found in this run",
		http.StatusNotFound,
	)
	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"A payroll run already exists for this period",
		http.StatusConflict,
	)
	ErrForbiddenTransition = apperror.New(
		apperror.CodeForbidden,
		"Your role is not permitted to perform this transition",
		http.StatusForbidden,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidTransition,
		"The payroll run is not in a state that allows this transition",
		http.StatusConflict,
	)
	ErrRunNotEditable = apperror.New(
		apperror.CodeInvalidTransition,
		"Payslips can only be changed while the run is in draft",
		http.StatusConflict,
	)
	ErrBlockingAnomalies = apperror.New(
		apperror.CodeInvalidTransition,
		"One or more payslips carry unresolved anomalies",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A reason is required when rejecting a payroll run",
		http.StatusBadRequest,
	)
	ErrUnfreezeReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A reason is required to unfreeze a locked payroll run",
		http.StatusBadRequest,
	)
	ErrNetPayMismatch = apperror.New(
		apperror.CodeValidationFailed,
		"Net pay does not reconcile with the patched components",
		http.StatusUnprocessableEntity,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"The payroll run was modified concurrently, retry the request",
		http.StatusConflict,
	)
	ErrPayslipNotReady = apperror.New(
		apperror.CodeInvalidTransition,
		"Payslip documents are only available once the run is locked",
		http.StatusConflict,
	)
	ErrNoEmployeesInScope = apperror.New(
		apperror.CodeInvalidInput,
		"No active employees found for this period",
		http.StatusUnprocessableEntity,
	)
)
