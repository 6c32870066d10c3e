// Package common defines shared constants and sentinel errors used across
// the web server, the terminal client and the backend adapters. Callers
// should use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Startup errors. The only fatal class.
	ErrConfiguration = errors.New("configuration error")

	// Recoverable classes surfaced to the user inline.
	ErrValidation = errors.New("validation error")
	ErrData       = errors.New("data error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrorAlreadyExists is returned when signing up with a taken email.
	ErrorAlreadyExists = errors.New("already exists")
)

// ValidationError reports which required fields were empty after trimming.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return "validation error: empty " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DataError carries the collaborator's message for a failed insert or select.
type DataError struct {
	Message string
}

func NewDataError(msg string) *DataError {
	return &DataError{Message: msg}
}

func (e *DataError) Error() string { return e.Message }

func (e *DataError) Unwrap() error { return ErrData }

// AuthError carries the collaborator's message for a rejected sign-in or
// sign-up, e.g. "Invalid login credentials".
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return ErrorUnauthorized }
