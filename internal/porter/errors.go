package porter

import (
	"fmt"
	"strings"
)

// Error represents a general export error
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ConfigError represents a broken directive list. It is detected once when an
// exporter's schedule is built, never per record.
type ConfigError struct {
	Directive string
	Message   string
}

func (e *ConfigError) Error() string {
	if e.Directive != "" {
		return fmt.Sprintf("directive config error: %s: %s", e.Directive, e.Message)
	}
	return fmt.Sprintf("directive config error: %s", e.Message)
}

// IneligibleError is returned when a record cannot be exported to a format at all.
type IneligibleError struct {
	Format  string
	Species string
	Reason  string
}

func (e *IneligibleError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s cannot be exported to %s: %s", e.Species, e.Format, e.Reason)
	}
	return fmt.Sprintf("%s cannot be exported to %s", e.Species, e.Format)
}

// UnresolvedError is returned by Finalize while choices are pending.
type UnresolvedError struct {
	Categories []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved choices: %s", strings.Join(e.Categories, ", "))
}

// UnknownChoiceError is returned when resolving a category that has no choice.
type UnknownChoiceError struct {
	Category string
}

func (e *UnknownChoiceError) Error() string {
	return fmt.Sprintf("no choice with category %q", e.Category)
}
