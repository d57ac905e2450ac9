package dex

import "fmt"

// LoadError represents a master dex that could not be read or parsed
type LoadError struct {
	Table   string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dex %s: %s: %v", e.Table, e.Message, e.Cause)
	}
	return fmt.Sprintf("dex %s: %s", e.Table, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
