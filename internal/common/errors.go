// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Matching errors.
	ErrNoRecords = errors.New("no records to match")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingReferenceDataError is returned when a required reference-catalog
// table is absent at index-construction time. It is the only fatal matcher
// error; the caller decides whether to abort or run with reduced capability.
type MissingReferenceDataError struct {
	Table string
}

func (e *MissingReferenceDataError) Error() string {
	return fmt.Sprintf("missing reference data: table %q is unavailable", e.Table)
}

// IsMissingReferenceData reports whether err wraps a MissingReferenceDataError.
func IsMissingReferenceData(err error) bool {
	var target *MissingReferenceDataError
	return errors.As(err, &target)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
