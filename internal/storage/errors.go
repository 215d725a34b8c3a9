package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument is returned when a stored document does not match the schema.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInconsistentWrite is returned when a transaction failed part way and the
	// compensating write failed as well, leaving documents out of step.
	ErrInconsistentWrite = errors.New("documents left inconsistent after failed write")
)

// DocumentError wraps a failure to read, decode or write one document.
type DocumentError struct {
	// Op is the operation that failed (e.g., "GetBills", "SavePayments").
	Op string

	// Sheet is the document's sheet name.
	Sheet Sheet

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Sheet, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
