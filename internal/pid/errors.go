package pid

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrAttemptsExhausted is the cause of every Generate failure.
var ErrAttemptsExhausted = errors.New("pid attempts exhausted")

// Error represents a generation failure
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pid error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pid error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
