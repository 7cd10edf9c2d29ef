package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrWeakPassword     = fmt.Errorf("%w: weak password", ErrValidationFailed)

	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")

	// User errors
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already registered", ErrValidationFailed)
)

// Client-facing messages
const (
	MsgAllFieldsRequired  = "All fields are required"
	MsgInvalidEmail       = "Invalid email format"
	MsgWeakPassword       = "Password must be at least 8 characters"
	MsgEmailRegistered    = "Email already registered"
	MsgCredentialsMissing = "Email and password are required"
	MsgInvalidCredentials = "Invalid email or password"
	MsgAuthenticate       = "Please authenticate"
	MsgEnrollmentNotFound = "Enrollment not found"
	MsgUserNotFound       = "User not found"
	MsgPasswordTooLong    = "Password must be at most 72 bytes"
	MsgInternal           = "Internal server error"
)

// CustomError represents application-specific errors with a client-facing message
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a human-readable reason
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// NewWeakPasswordError creates a weak password error
func NewWeakPasswordError(message string) error {
	return NewCustomError(ErrWeakPassword, message)
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewInvalidCredentialsError returns the single credentials error used for both unknown email and bad password
func NewInvalidCredentialsError() error {
	return NewCustomError(ErrInvalidCredentials, MsgInvalidCredentials)
}

// NewInvalidTokenError creates an invalid token error
func NewInvalidTokenError(message string) error {
	return NewCustomError(ErrTokenInvalid, message)
}

// Message returns the client-facing message of err, or fallback when err carries none
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
