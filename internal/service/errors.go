package service

import (
	"errors"
	"fmt"
)

// Sentinel errors controllers map onto HTTP status codes.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed input with field-level detail. It is
// never partially applied: any validation failure aborts the whole operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports an operation rejected because of the current state of
// the target, such as restructuring a question that answers already reference.
type ConflictError struct {
	Message    string
	Suggestion string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// IncompleteReviewError rejects completion of a submission that still has
// pending answers.
type IncompleteReviewError struct {
	PendingCount int64
}

func (e *IncompleteReviewError) Error() string {
	return fmt.Sprintf("cannot complete review: %d answers are still pending", e.PendingCount)
}
