package refunderrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrClaimNotFound = apperror.New(
		apperror.CodeNotFound,
		"claim not found",
		http.StatusNotFound,
	)
	ErrDisputeNotFound = apperror.New(
		apperror.CodeNotFound,
		"dispute not found",
		http.StatusNotFound,
	)
	ErrInvalidReviewTransition = apperror.New(
		apperror.CodeInvalidTransition,
		"record is not in a reviewable state for this step",
		http.StatusConflict,
	)
	ErrReviewRoleMismatch = apperror.New(
		apperror.CodeForbidden,
		"your role cannot act on this review step",
		http.StatusForbidden,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeValidationFailed,
		"a reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrResolvedAmountRequired = apperror.New(
		apperror.CodeValidationFailed,
		"a resolved amount is required when finance approves a dispute",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeValidationFailed,
		"amount must be positive",
		http.StatusBadRequest,
	)
	ErrRefundAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a refund already exists for this record",
		http.StatusConflict,
	)
)
