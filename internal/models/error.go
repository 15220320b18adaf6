package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Token failures. Both resolve to an unauthenticated outcome but stay
	// distinguishable for logs and metrics.
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired   = errors.New("token has expired")

	// Reset-flow failures
	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")
	ErrEmailDelivery     = errors.New("email delivery failed")
)

// StatusError is an operational error: an anticipated, user-facing failure
// whose message is safe to show to the client verbatim.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// NewStatusError creates an operational error with an explicit status code.
func NewStatusError(code int, format string, args ...any) *StatusError {
	return &StatusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// statusCodes maps sentinel errors to their HTTP status codes.
var statusCodes = map[error]int{
	ErrNotFound:          http.StatusNotFound,
	ErrConflict:          http.StatusBadRequest,
	ErrUnauthorized:      http.StatusUnauthorized,
	ErrForbidden:         http.StatusForbidden,
	ErrBadRequest:        http.StatusBadRequest,
	ErrTokenMalformed:    http.StatusUnauthorized,
	ErrTokenExpired:      http.StatusUnauthorized,
	ErrResetTokenInvalid: http.StatusBadRequest,
	ErrEmailDelivery:     http.StatusInternalServerError,
}

// IsOperational reports whether err is safe to describe to the client.
// ErrInternalServer and unknown errors are not operational.
func IsOperational(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return true
	}
	for sentinel := range statusCodes {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// StatusCode resolves the HTTP status code for an error, defaulting to 500.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	for sentinel, code := range statusCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return http.StatusInternalServerError
}
