package errors

import (
	"errors"
	"fmt"
)

// Code represents a stable error code for programmatic handling.
type Code string

const (
	CodeUnknown       Code = "unknown"
	CodeInvalid       Code = "invalid"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeUnauthorized  Code = "unauthorized"
	CodeForbidden     Code = "forbidden"
	CodeInternal      Code = "internal"
	CodeAlreadyExists Code = "already_exists"
)

// AppError is a structured error type that carries a code, message, and optional metadata.
type AppError struct {
	Code    Code
	Message string
	Err     error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error { return e.Err }

// WithMeta attaches metadata to the error.
func (e *AppError) WithMeta(k string, v any) *AppError {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[k] = v
	return e
}

// New creates a new AppError with code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with code and message.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NotFound returns a not_found error for the named entity. Callers also use
// this for resources the actor is not allowed to see, so existence is never
// leaked through the error code.
func NotFound(entity string) *AppError {
	return New(CodeNotFound, entity+" not found")
}

// Forbidden returns a forbidden error with a deliberately generic message.
func Forbidden() *AppError {
	return New(CodeForbidden, "you don't have permission to perform this action")
}

// Unauthenticated returns an unauthorized error for actions that require an actor.
func Unauthenticated() *AppError {
	return New(CodeUnauthorized, "authentication required")
}

// Invalid returns a validation error carrying the offending field name.
func Invalid(field, reason string) *AppError {
	return New(CodeInvalid, reason).WithMeta("field", field)
}

// Duplicate returns an already_exists error for unique-constraint violations
// surfaced as domain errors.
func Duplicate(what string) *AppError {
	return New(CodeAlreadyExists, what+" already exists")
}

// IsCode checks if an error has the provided code (through unwrapping).
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
