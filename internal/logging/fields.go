package logging

// Standard field names for structured logging across pku-porter.
// Use these constants instead of raw strings.
const (
	// Records and formats
	FieldFormat  = "format"
	FieldSpecies = "species"
	FieldFile    = "file"

	// Pipeline
	FieldDirective = "directive"
	FieldPhase     = "phase"
	FieldCategory  = "category"
	FieldOption    = "option"
	FieldAlerts    = "alerts"
	FieldPending   = "pending"

	// Runs
	FieldRunID  = "run_id"
	FieldStatus = "status"

	// Timing
	FieldDurationMS = "duration_ms"

	// Counts
	FieldCount   = "count"
	FieldWorkers = "workers"

	// HTTP
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldRemote   = "remote"
	FieldHTTPCode = "http_status"
	FieldAddress  = "address"
)
