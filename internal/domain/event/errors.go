package event

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrEmptyTitle   = errors.New("event title cannot be empty")
	ErrFieldTooLong = errors.New("field too long")
	ErrInvalidID    = errors.New("invalid event id")
	ErrDuplicateID  = errors.New("duplicate event id")
)

// ValidationError reports user input that cannot become an Event.
// Callers are expected to re-prompt.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func invalid(field, reason string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CorruptDataError reports a persisted snapshot that cannot be read back as an
// event list.
type CorruptDataError struct {
	Path string
	Err  error
}

// NewCorruptDataError wraps err with the path of the unreadable snapshot.
func NewCorruptDataError(path string, err error) *CorruptDataError {
	return &CorruptDataError{Path: path, Err: err}
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt event data in %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }
