package bank

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("csv has no header row")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrUnknownColumn is returned for a header that maps to no question field.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidText is returned when a cell does not decode cleanly.
	ErrInvalidText = errors.New("invalid text for encoding")
)

// RowError reports a problem with a single CSV record.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
