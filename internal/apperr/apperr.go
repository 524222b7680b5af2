// Package apperr defines the failure kinds a request can end with and the
// HTTP status each one maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidRelation = errors.New("invalid relation")
	ErrValidation      = errors.New("validation error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInternal        = errors.New("internal error")
)

// Error carries a client-facing message next to its kind.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

func Forbidden(format string, args ...any) error { return newf(ErrForbidden, format, args...) }

func InvalidRelation(format string, args ...any) error {
	return newf(ErrInvalidRelation, format, args...)
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

func Unauthorized(format string, args ...any) error { return newf(ErrUnauthorized, format, args...) }

// Internal wraps an infrastructure failure. The cause is logged, never shown.
func Internal(err error, format string, args ...any) error {
	e := newf(ErrInternal, format, args...)
	e.Err = err
	return e
}

// Status maps err to the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidRelation):
		return http.StatusBadRequest
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the message safe to send to the caller.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if errors.Is(e.Kind, ErrInternal) {
			return "internal server error"
		}
		return e.Detail
	}
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
