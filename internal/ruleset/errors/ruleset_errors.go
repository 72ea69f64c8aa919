package ruleseterrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrNoApprovedTaxPolicy = apperror.New(
		apperror.CodeConfigurationMissing,
		"no approved tax policy is effective for this period",
		http.StatusUnprocessableEntity,
	)
	ErrNoApprovedInsurancePolicy = apperror.New(
		apperror.CodeConfigurationMissing,
		"no approved insurance policy is effective for this period",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrEmptyTaxBrackets = apperror.New(
		apperror.CodeConfigurationMissing,
		"approved tax policy has no brackets",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownTaxMode = apperror.New(
		apperror.CodeConfigurationMissing,
		"approved tax policy has an unknown tax mode",
		http.StatusUnprocessableEntity,
	)
	ErrTaxBracketGap = apperror.New(
		apperror.CodeConfigurationMissing,
		"tax brackets must be contiguous from zero",
		http.StatusUnprocessableEntity,
	)
	ErrTaxBracketOverlap = apperror.New(
		apperror.CodeConfigurationMissing,
		"tax brackets must not overlap",
		http.StatusUnprocessableEntity,
	)
	ErrTaxBracketUnbounded = apperror.New(
		apperror.CodeConfigurationMissing,
		"the last tax bracket must be unbounded",
		http.StatusUnprocessableEntity,
	)
	ErrInsuranceBracketRange = apperror.New(
		apperror.CodeConfigurationMissing,
		"insurance bracket has an inverted salary range",
		http.StatusUnprocessableEntity,
	)
)
