package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeProvider indicates the identity provider reported an error on the callback.
	ErrCodeProvider ErrorCode = "provider_error"
	// ErrCodeExchange indicates a code or token exchange with the identity provider failed.
	ErrCodeExchange ErrorCode = "exchange_failed"
	// ErrCodeSchemaCache indicates the transient stale-schema-cache shape seen
	// after a column was recently added to the profiles table.
	ErrCodeSchemaCache ErrorCode = "schema_cache"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Provider creates a new Provider error from the callback error params.
func Provider(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeProvider,
		Message: message,
		Cause:   cause,
	}
}

// Exchange creates a new Exchange error wrapping the provider failure.
func Exchange(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeExchange,
		Message: message,
		Cause:   cause,
	}
}

// SchemaCache creates the recognizable transient schema-cache error.
func SchemaCache(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeSchemaCache,
		Message: "stale schema cache",
		Cause:   cause,
	}
}

// Internal creates a new Internal error.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the ErrorCode from an error, returning ErrCodeInternal for
// errors that are not AppErrors.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return IsCode(err, ErrCodeNotFound) }

// IsSchemaCache reports whether err is the transient schema-cache shape.
func IsSchemaCache(err error) bool { return IsCode(err, ErrCodeSchemaCache) }
