// Package domainerrors provides coded errors shared across services.
//
// Every error that crosses a package boundary carries a Code so transport
// layers can map it to a status without string matching, and so services can
// branch on failure class while preserving the wrapped cause for logs.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// CodeInvalidInput marks input rejected at a trust boundary (parsing,
	// format, range checks).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a structurally valid but unusable request.
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized marks missing or failed authentication.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound marks a missing record or subject.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a uniqueness or concurrent-update conflict.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks a broken domain contract. These indicate
	// a programming error upstream, not bad user input.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnavailable marks a dependency that could not be reached. Callers
	// may retry; prior state is preserved.
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks an unexpected failure. Details stay out of
	// responses and go to logs only.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. It wraps an optional cause.
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

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a code and message. A nil err
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if domainErr.Code == code {
			return true
		}
		err = domainErr.cause
		domainErr = nil
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error is not coded.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost coded message, or a generic fallback.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}
