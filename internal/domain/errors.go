package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("access denied")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ProcessingError indicates an upload that matched an allowed extension
// but could not be processed (e.g. a .gif that is not actually an image).
// It carries the underlying cause for logging.
type ProcessingError struct {
	Filename string
	Cause    error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("process %s: %v", e.Filename, e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}
