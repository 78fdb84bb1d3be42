// Package errors provides domain-specific error types for tracegate.
//
// Errors carry a code so callers can branch on the category of a failure with
// errors.Is, independently of the message text. None of these are produced on
// the trace fast path; they come from configuration, the admin API and the
// command line.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration file could not be read or parsed.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeValidation indicates a configuration or request value is invalid.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeEmit indicates a trace output destination could not be opened.
	ErrCodeEmit ErrorCode = "EMIT_ERROR"

	// ErrCodeReload indicates a running configuration could not be reloaded.
	ErrCodeReload ErrorCode = "RELOAD_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewEmitError creates a new output destination error.
func NewEmitError(message string, cause error) *Error {
	return Wrap(ErrCodeEmit, message, cause)
}

// NewReloadError creates a new reload error.
func NewReloadError(message string, cause error) *Error {
	return Wrap(ErrCodeReload, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
