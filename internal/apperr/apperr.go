// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services return *Error values wrapping one of the sentinel kinds;
// handlers map them to status codes with Status.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrDuplicateEmail       = errors.New("duplicate email")
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
)

// Error pairs a sentinel kind with a caller-safe message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New returns an *Error of the given kind.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error { return New(ErrValidation, message) }

func Forbidden(message string) *Error { return New(ErrForbidden, message) }

func NotFound(message string) *Error { return New(ErrNotFound, message) }

func Unauthorized(message string) *Error { return New(ErrUnauthorized, message) }

// Status maps err to an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrDuplicateApplication):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-safe message carried by err, or fallback when err
// is not classified.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
