// Package domainerrors defines the uniform error shape every failure takes
// before it leaves a service. Stores return sentinel errors (pkg/platform/sentinel);
// services translate those facts into a coded Error here; the HTTP layer maps
// codes to status lines in pkg/platform/httputil and nowhere else.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and caller recovery.
type Code string

const (
	// CodeValidation marks client input that failed field-level validation.
	// Carries the full field-error list so the caller can fix every problem at once.
	CodeValidation Code = "validation"

	// CodeBadRequest marks requests that are malformed before field validation
	// even applies (unreadable body, bad path parameter).
	CodeBadRequest Code = "bad_request"

	// CodeInvalidInput marks a single value that fails a domain invariant at a
	// trust boundary (e.g. an identifier that is not a UUID).
	CodeInvalidInput Code = "invalid_input"

	// CodeUnauthorized marks requests with no usable session.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks authenticated requests without sufficient rights.
	CodeForbidden Code = "forbidden"

	// CodeNotFound marks references to records that do not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks natural-key uniqueness violations detected before the
	// storage layer is asked to write.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks an attempted state change a model forbids.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks unexpected backend failures. No detail beyond the code
	// is ever shown to a caller.
	CodeInternal Code = "internal_error"
)

// FieldError describes one failing constraint on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single error type services return. It optionally wraps a cause
// and, for validation failures, carries the ordered field-error list.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two domain errors by code.
func (e *Error) Is(target error) bool {
	var de *Error
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// New builds a domain error with a code and caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. The cause is kept
// for logs and errors.Is/As; it is never serialized to a caller.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation builds a validation error carrying every failing field.
// The field order is preserved so responses are deterministic.
func NewValidation(fields []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// HasCode reports whether err is (or wraps) a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// GetCode extracts the code from err, defaulting to CodeInternal for anything
// that is not a domain error. Unstructured faults never pick up a softer code
// by accident.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
