package utils

import (
	"errors"
	"net/http"
)

// Storage-level errors shared by every repository implementation.
var (
	ErrEmailExists          = errors.New("email_exists")
	ErrUniqueIDExists       = errors.New("unique_id_exists")
	ErrPackageExistsForLead = errors.New("package_exists_for_lead")
	ErrPaidCommissionExists = errors.New("paid_commission_exists")
	ErrPolicyExists         = errors.New("policy_exists")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For rate limiting
	ErrRateLimitExceeded = errors.New("rate_limit_exceeded")

	// For external service failures (SendGrid, Twilio)
	ErrExternalServiceFailure = errors.New("external_service_failure")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
	ErrTokenRevoked  = errors.New("token_revoked")
)

// AppError carries the HTTP status and public error code a controller
// should answer with.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
