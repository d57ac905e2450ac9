package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/schemas"
)

// ErrHistoryDisabled is returned by the run endpoints when no database is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrFormatNotFound indicates the requested target format is not registered
type ErrFormatNotFound struct {
	Name string
}

func (e *ErrFormatNotFound) Error() string {
	return fmt.Sprintf("unknown format: %s", e.Name)
}

// ErrRunNotFound indicates the export run does not exist
type ErrRunNotFound struct {
	ID string
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("export run not found: %s", e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		schema     *schemas.ValidationError
		format     *ErrFormatNotFound
		run        *ErrRunNotFound
		inel       *porter.IneligibleError
		unresolved *porter.UnresolvedError
		unknown    *porter.UnknownChoiceError
		index      *alerts.IndexError
		resolve    *alerts.ResolveError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &schema),
		errors.As(err, &unknown), errors.As(err, &index), errors.As(err, &resolve):
		return http.StatusBadRequest
	case errors.As(err, &format), errors.As(err, &run):
		return http.StatusNotFound
	case errors.As(err, &unresolved):
		return http.StatusConflict
	case errors.As(err, &inel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
