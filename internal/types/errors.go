package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrUnparsableDate = errors.New("unparsable date")
	ErrUnknownSource  = errors.New("unknown source")
	ErrSourceDisabled = errors.New("source is disabled")
	ErrURLFiltered    = errors.New("url filtered by source patterns")
)

// SelectorError wraps a rule-level selector failure. It is logged and the
// rule treated as a miss; it never aborts resolution of a field.
type SelectorError struct {
	Field      string
	Kind       string
	Expression string
	Err        error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("selector error for field %q (%s %q): %v", e.Field, e.Kind, e.Expression, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// ValidationError marks a record that failed required-field validation.
// This is the only hard rejection before storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Reason)
}

// MissingRequiredField builds the validation error for an empty
// required field.
func MissingRequiredField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "missing required field"}
}

// StorageError wraps a backing-store failure. Duplicates are an expected
// outcome, never a StorageError.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
