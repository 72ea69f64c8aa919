package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput      = "INVALID_INPUT"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"

	// Server errors (5xx)
	CodeInternalError        = "INTERNAL_ERROR"
	CodeConfigurationMissing = "CONFIGURATION_MISSING"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)
