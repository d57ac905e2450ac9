package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var validate = validator.New()

const exportRunColumns = `id, format, species, status, error, alerts, choices, output, created_at`

func scanExportRun(row pgx.Row) (*ExportRun, error) {
	var run ExportRun
	var alertsJSON, choicesJSON []byte
	if err := row.Scan(&run.ID, &run.Format, &run.Species, &run.Status, &run.Error,
		&alertsJSON, &choicesJSON, &run.Output, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Alerts = json.RawMessage(alertsJSON)
	run.Choices = json.RawMessage(choicesJSON)
	return &run, nil
}

func marshalList(v any) ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

// CreateExportRun records an export and returns the stored row.
func (db *DB) CreateExportRun(ctx context.Context, input *ExportRunInput) (*ExportRun, error) {
	if err := validate.Struct(input); err != nil {
		return nil, errors.Wrap(err, "invalid export run")
	}

	alertsJSON, err := marshalList(input.Alerts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal alerts")
	}
	choicesJSON, err := marshalList(input.Choices)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal choices")
	}
	var errMsg *string
	if input.Error != "" {
		errMsg = &input.Error
	}

	run, err := scanExportRun(db.pool.QueryRow(ctx,
		`INSERT INTO export_runs (format, species, status, error, alerts, choices, output)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+exportRunColumns,
		input.Format, input.Species, input.Status, errMsg, alertsJSON, choicesJSON, input.Output,
	))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create export run")
	}
	return run, nil
}

// GetExportRun retrieves an export run by ID. It returns nil when no run
// has that ID.
func (db *DB) GetExportRun(ctx context.Context, id uuid.UUID) (*ExportRun, error) {
	run, err := scanExportRun(db.pool.QueryRow(ctx,
		`SELECT `+exportRunColumns+` FROM export_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get export run")
	}
	return run, nil
}

// ListExportRuns retrieves recent export runs, newest first.
func (db *DB) ListExportRuns(ctx context.Context, opts ListOptions) ([]ExportRun, error) {
	query, args := listQuery(opts)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list export runs")
	}
	defer rows.Close()

	runs := []ExportRun{}
	for rows.Next() {
		run, err := scanExportRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan export run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list export runs")
	}
	return runs, nil
}

// DeleteExportRun removes an export run. Deleting a missing run is not an error.
func (db *DB) DeleteExportRun(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM export_runs WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "failed to delete export run")
	}
	return nil
}

func listQuery(opts ListOptions) (string, []any) {
	var where []string
	var args []any
	if opts.Format != "" {
		args = append(args, opts.Format)
		where = append(where, fmt.Sprintf("format = $%d", len(args)))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + exportRunColumns + ` FROM export_runs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	args = append(args, limit, max(opts.Offset, 0))
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)))
	return sb.String(), args
}
