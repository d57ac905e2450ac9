package alerts

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrAlreadyResolved is returned when a choice is resolved a second time.
	ErrAlreadyResolved = errors.New("choice already resolved")
	// ErrUnresolved is returned when a choice is applied before being resolved.
	ErrUnresolved = errors.New("choice not resolved")
)

// IndexError is returned when a choice is resolved with an out-of-range option index.
type IndexError struct {
	Category string
	Index    int
	Count    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("choice %q: option %d out of range [0, %d)", e.Category, e.Index, e.Count)
}

// ResolveError wraps a resolution failure with the choice it concerns.
type ResolveError struct {
	Category string
	Cause    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("choice %q: %v", e.Category, e.Cause)
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}
