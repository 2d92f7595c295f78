package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidRequest
	KindForbidden
	KindConflict
	KindInvalidConfiguration
	KindUnavailable
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidConfiguration:
		return "invalid_configuration"
	case KindUnavailable:
		return "unavailable"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is the typed failure returned by every public booking operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Fields maps request fields to what is wrong with them. Only validation errors set it.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func InvalidRequest(format string, args ...any) *Error {
	return New(KindInvalidRequest, fmt.Sprintf(format, args...))
}

// Validation reports rejected request fields. summary is the one-line form of fields.
func Validation(summary string, fields map[string]string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: "validation failed: " + summary, Fields: fields}
}

// FieldsOf returns the per-field messages of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

func InvalidConfiguration(message string, err error) *Error {
	return Wrap(KindInvalidConfiguration, message, err)
}

func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf reports the kind of the first *Error in err's chain.
// Deadline and cancellation errors without one count as Unavailable.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindUnavailable
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsAlert marks kinds that point at broken data or infrastructure rather than caller mistakes.
func IsAlert(kind Kind) bool {
	return kind == KindInvalidConfiguration || kind == KindUnavailable || kind == KindInternal
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing text. Internal details stay in logs.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && !IsAlert(appErr.Kind) {
		return appErr.Message
	}
	switch KindOf(err) {
	case KindUnavailable:
		return "Service temporarily unavailable"
	case KindInvalidConfiguration:
		return "Shop configuration is invalid"
	default:
		return "Internal server error"
	}
}
