package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// Is matches any BaseError carrying the same business code, so copies made by
// WithDetails still compare equal to the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Tenant
	ErrTenantNotFound = NewBaseError(
		http.StatusNotFound,
		"TENANT_NOT_FOUND",
		"Tenant not found",
		"",
	)

	// Connection preconditions
	ErrNotConnected = NewBaseError(
		http.StatusBadRequest,
		"GOOGLE_NOT_CONNECTED",
		"Google Business Profile is not connected",
		"",
	)

	ErrNoLocationSelected = NewBaseError(
		http.StatusBadRequest,
		"NO_LOCATION_SELECTED",
		"No Google Business Profile location is selected",
		"",
	)

	// The stored grant is no longer usable; the tenant must connect again.
	ErrTokenExpiredOrRevoked = NewBaseError(
		http.StatusUnauthorized,
		"GOOGLE_TOKEN_EXPIRED",
		"Google access has expired or was revoked, please reconnect",
		"",
	)

	ErrCSRFMismatch = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_STATE_MISMATCH",
		"The authorization request could not be verified",
		"",
	)

	// Token blob integrity
	ErrTokenTampered = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_TAMPERED",
		"Stored Google credentials failed verification",
		"",
	)

	ErrTokenMalformed = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_MALFORMED",
		"Stored Google credentials are unreadable",
		"",
	)

	// Reviews
	ErrReviewNotFound = NewBaseError(
		http.StatusNotFound,
		"REVIEW_NOT_FOUND",
		"Review not found",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
