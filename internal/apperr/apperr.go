// Package apperr classifies the errors the ledger core produces so the
// transport layer can map each kind to a status code without inspecting
// error strings.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the class of failure.
type Kind int

const (
	// KindUnknown covers errors that did not originate in this package.
	KindUnknown Kind = iota
	// KindValidation means malformed or missing input; carries field errors.
	KindValidation
	// KindNotFound means a referenced id or document is absent.
	KindNotFound
	// KindForbidden means the caller is authenticated but not authorized.
	KindForbidden
	// KindConflict means a uniqueness or concurrency violation.
	KindConflict
	// KindUnauthenticated means the caller could not be identified.
	KindUnauthenticated
	// KindStore means the persistence layer failed; never retried here.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed error returned by the service and storage layers.
type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
		}
		return strings.Join(parts, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a field-level validation error.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// NotFound reports an absent document or id.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden reports an authorization failure.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness or concurrent-write violation.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports a missing or unverifiable caller identity.
func Unauthenticated(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: fmt.Sprintf(format, args...)}
}

// Store wraps a persistence failure.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Msg: "storage failure", Err: err}
}

// KindOf extracts the kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns the field errors attached to err, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
