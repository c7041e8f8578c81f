package services

import (
	"errors"
	"fmt"
)

var (
	// ErrCaseNotFound covers both a missing case and a denied principal:
	// unauthorized callers must not learn that a case exists.
	ErrCaseNotFound = errors.New("case not found")

	ErrForbidden         = errors.New("operation not permitted")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyResolved   = errors.New("this case has already been resolved")

	// ErrUpstream signals a collaborator failure (file storage, identity
	// provider). The case mutation was not applied; the caller may retry.
	ErrUpstream = errors.New("upstream service failure")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
