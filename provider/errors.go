package provider

import (
	"errors"
	"fmt"
)

// Category is the user-facing classification of a failure. Callers switch on
// it to distinguish auth-vs-missing-tool-vs-transient-vs-other.
type Category string

const (
	CategoryAuthRequired     Category = "auth_required"
	CategoryCLIMissing       Category = "cli_missing"
	CategoryPermissionDenied Category = "permission_denied"
	CategoryTimeout          Category = "timeout"
	CategoryNetwork          Category = "network_error"
	CategoryAccessDenied     Category = "access_denied"
	CategoryInvalidRequest   Category = "invalid_request"
	CategoryUnclassified     Category = "unclassified"
)

// Error is the categorized error type returned across the Provider boundary.
// Message carries the remediation guidance; Cause preserves the original
// diagnostic text, which Error() always appends rather than discards.
type Error struct {
	Category Category
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a categorized Error wrapping cause.
func NewError(category Category, message string, cause error) *Error {
	return &Error{Category: category, Message: message, Cause: cause}
}

// CategoryOf extracts the Category from an error chain. Errors that never
// passed through a classifier report CategoryUnclassified.
func CategoryOf(err error) Category {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryUnclassified
}

// CodedError carries a machine-readable code and an HTTP-like status
// alongside the message, the way process and SDK failures report them.
// Classifiers match on Code and Status in addition to the message text.
type CodedError struct {
	Message string
	Code    string
	Status  int
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}
