package repository

import (
	"errors"
	"fmt"
)

// ErrInvoiceNotFound is returned when an invoice does not exist or belongs to another user
var ErrInvoiceNotFound = errors.New("invoice not found")

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}
