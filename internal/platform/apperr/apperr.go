// Package apperr defines the error taxonomy shared by all domain services.
// Handlers never inspect storage errors directly; services translate them
// into one of these kinds and the HTTP layer maps kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthenticated
	KindAccountInactive
	KindInvalidTimeZone
	KindStorageUnavailable
	KindRateLimited
)

// FieldError reports a single invalid field with a machine-readable code.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
	Msg   string `json:"message"`
}

// Error is the single error type crossing service boundaries. Msg is safe to
// return to clients; wrapped errors carry internal detail for logs only.
type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	err    error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, err: err}
}

func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }
func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }
func AccountInactive(msg string) *Error { return New(KindAccountInactive, msg) }
func InvalidTimeZone(name string) *Error {
	return New(KindInvalidTimeZone, fmt.Sprintf("unknown time zone %q", name))
}
func StorageUnavailable(err error) *Error {
	return Wrap(KindStorageUnavailable, "storage unavailable", err)
}
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal error", err)
}

// Validation builds a field-level validation error. Every field carries a
// machine-readable code so clients can render targeted messages.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Msg: "validation failed", Fields: fields}
}

// ValidationField is shorthand for a single-field validation error.
func ValidationField(field, code, msg string) *Error {
	return Validation(FieldError{Field: field, Code: code, Msg: msg})
}

// KindOf extracts the kind from any error. Unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns the *Error inside err, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
