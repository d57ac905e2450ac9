package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Export run status constants
const (
	StatusSucceeded  = "succeeded"
	StatusPending    = "pending"
	StatusIneligible = "ineligible"
	StatusFailed     = "failed"
)

// ExportRun is one export recorded in the history.
type ExportRun struct {
	ID        uuid.UUID       `json:"id"`
	Format    string          `json:"format"`
	Species   string          `json:"species"`
	Status    string          `json:"status"`
	Error     *string         `json:"error,omitempty"`
	Alerts    json.RawMessage `json:"alerts"`
	Choices   json.RawMessage `json:"choices"`
	Output    []byte          `json:"output,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExportRunInput represents input for recording an export run. Alerts and
// Choices are marshaled to JSON.
type ExportRunInput struct {
	Format  string `validate:"required"`
	Species string
	Status  string `validate:"required,oneof=succeeded pending ineligible failed"`
	Error   string
	Alerts  any
	Choices any
	Output  []byte
}

// ListOptions filters ListExportRuns.
type ListOptions struct {
	Format string
	Status string
	Limit  int
	Offset int
}

// DefaultListLimit applies when ListOptions.Limit is not positive.
const DefaultListLimit = 50

// MaxListLimit caps ListOptions.Limit.
const MaxListLimit = 500
