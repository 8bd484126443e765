package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error and decides its HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPrecondition
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind onto the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindPrecondition:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AppError is an error carrying a client-safe message and a Kind.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *AppError {
	return newError(KindValidation, format, args...)
}

func Precondition(format string, args ...any) *AppError {
	return newError(KindPrecondition, format, args...)
}

func Unauthenticated(format string, args ...any) *AppError {
	return newError(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...any) *AppError {
	return newError(KindForbidden, format, args...)
}

func NotFound(resource string) *AppError {
	return newError(KindNotFound, "%s not found", resource)
}

func Conflict(format string, args ...any) *AppError {
	return newError(KindConflict, format, args...)
}

func TooManyRequests(format string, args ...any) *AppError {
	return newError(KindTooManyRequests, format, args...)
}

// Unavailable wraps a store or dependency failure that the caller may retry.
func Unavailable(err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: "service temporarily unavailable", Err: err}
}

// KindOf returns the Kind of the first AppError in err's chain. Deadline
// errors without an AppError are reported as unavailable.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	return KindInternal
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
