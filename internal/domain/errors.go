package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrImageNotFound    = errors.New("image not found")

	// ErrInvalidReference means a write pointed at a row that does not exist
	// or removed a row that is still referenced.
	ErrInvalidReference = errors.New("invalid reference")

	ErrValidation = errors.New("validation failed")

	ErrStorageNotConfigured = errors.New("object storage not configured")

	// ErrInvariantViolation marks a logic bug (misaligned batch results,
	// dangling lookups). It is never a client error.
	ErrInvariantViolation = errors.New("invariant violation")
)

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Invariantf wraps ErrInvariantViolation with detail.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Validationf wraps ErrValidation with a client-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
