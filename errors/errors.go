// Package errors provides the coded domain errors shared by the timing
// packages.
package errors

import (
	goerrors "errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeDivisionByZero      Code = "DIVISION_BY_ZERO"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	CodeOverflow            Code = "OVERFLOW"
)

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrInvalidArgument     = New(CodeInvalidArgument, "invalid argument")
	ErrDivisionByZero      = New(CodeDivisionByZero, "division by zero")
	ErrConstraintViolation = New(CodeConstraintViolation, "constraint violation")
	ErrOverflow            = New(CodeOverflow, "integer overflow")
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Offending values, e.g. offset and duration
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error carrying the values that caused it.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HTTPStatus maps a code to the status the serve command answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument, CodeDivisionByZero:
		return http.StatusBadRequest
	case CodeConstraintViolation:
		return http.StatusConflict
	case CodeOverflow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf extracts the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if !goerrors.As(err, &e) {
		return "", false
	}
	return e.Code, true
}
