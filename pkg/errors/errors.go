// Package errors defines the coded domain errors exchanged between services
// and the HTTP edge. Stores return sentinel errors (pkg/platform/sentinel);
// services translate those into coded errors; httputil maps codes to HTTP
// statuses. Keep internal detail out of messages that reach the boundary.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for boundary mapping.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeConflict   Code = "conflict"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal_error"
)

// Error carries a code, a caller-safe message, and an optional wrapped cause.
// The cause is for logs and the diagnostic sink, never for the boundary.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-safe message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for anything
// that is not a coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is delegates to the standard library so callers need only one import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As delegates to the standard library so callers need only one import.
func As(err error, target any) bool { return errors.As(err, target) }
