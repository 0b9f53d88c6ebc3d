package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP status code.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindInvariantViolation Kind = "invariant_violation"
	KindNotFound           Kind = "not_found"
	KindValidation         Kind = "validation"
	KindStoreFailure       Kind = "store_failure"
)

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches on Kind and Message so sentinel errors survive wrapping with fmt.Errorf("%w").
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewAppError creates a new AppError
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Common errors
var (
	ErrInvalidRequest = BadRequest("Invalid request parameters")
	ErrUnauthorized   = Unauthorized("Unauthorized")
	ErrNotMember      = Forbidden("Unauthorized")
	ErrNotFound       = NotFound("Resource not found")
	ErrInternalServer = Internal("Internal server error")

	// ErrLastAdmin is returned when an operation would leave a group without an admin.
	ErrLastAdmin = Invariant("Cannot remove the last admin. Promote another member first or delete the group.")
)

// Helper functions to create specific errors
func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, KindValidation, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, msg)
}

func Unauthorized(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, KindUnauthenticated, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, KindForbidden, msg)
}

// Invariant reports a rejected operation that would break a data invariant.
// It maps to 400 like the rest of the client-side failures, but keeps its own kind.
func Invariant(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, KindInvariantViolation, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, KindStoreFailure, msg)
}

// As unwraps err into an AppError when possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, treating unknown errors as store failures.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindStoreFailure
}
