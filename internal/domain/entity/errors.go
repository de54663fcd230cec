package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the repository and usecase layers.
var (
	// ErrNotFound reports a lookup that matched no voter guide,
	// organization, or election.
	ErrNotFound = errors.New("entity not found")

	// ErrMultipleFound reports a query that was expected to identify at
	// most one entity but matched several, such as duplicate guides for
	// one owner and election.
	ErrMultipleFound = errors.New("multiple entities found")

	// ErrInvalidInput reports a request that failed input validation.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries the field that failed validation so handlers can
// report it to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
