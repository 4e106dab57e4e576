package news

import (
	"errors"
	"fmt"
)

// ErrArticleNotFound reports a slug lookup miss.
var ErrArticleNotFound = errors.New("article not found")

// ValidationError reports malformed or missing required input. The write
// is rejected with no state change.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// DuplicateRejectedError reports that duplicate detection blocked the
// write. It carries the verdict so the HTTP boundary can answer with a
// conflict response and the reason string.
type DuplicateRejectedError struct {
	Verdict Verdict
}

func (e *DuplicateRejectedError) Error() string {
	return fmt.Sprintf("duplicate article detected: %s", e.Verdict.Reason)
}

// IsDuplicateRejected reports whether err is a DuplicateRejectedError.
func IsDuplicateRejected(err error) bool {
	var target *DuplicateRejectedError
	return errors.As(err, &target)
}

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
