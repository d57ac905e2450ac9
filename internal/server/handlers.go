package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/db"
	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/logging"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/schemas"
	"github.com/jonathan/pku-porter/internal/types"
)

// recordTimeout bounds writing one run to the history.
const recordTimeout = 5 * time.Second

// exportRequest is the body of POST /v1/export.
type exportRequest struct {
	Format       string          `json:"format"`
	Record       json.RawMessage `json:"record"`
	Choices      map[string]int  `json:"choices,omitempty"`
	ResolveFirst bool            `json:"resolve_first,omitempty"`
	Options      *exportOptions  `json:"options,omitempty"`
}

// exportOptions overrides the server's feature flags for one export.
type exportOptions struct {
	ShinyThreshold     uint32 `json:"shiny_threshold,omitempty"`
	BattleStatOverride bool   `json:"battle_stat_override,omitempty"`
}

// exportResponse reports the outcome of an export. Output is base64 in
// JSON; Text repeats it for text formats.
type exportResponse struct {
	RunID     string           `json:"run_id,omitempty"`
	Format    string           `json:"format"`
	Species   string           `json:"species,omitempty"`
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Alerts    []*alerts.Alert  `json:"alerts"`
	Choices   []*alerts.Choice `json:"choices"`
	Pending   []string         `json:"pending,omitempty"`
	Extension string           `json:"extension,omitempty"`
	Output    []byte           `json:"output,omitempty"`
	Text      string           `json:"text,omitempty"`
}

// canExportRequest is the body of POST /v1/can-export.
type canExportRequest struct {
	Record json.RawMessage `json:"record"`
}

type canExportResponse struct {
	Species    string                `json:"species"`
	Exportable []string              `json:"exportable"`
	Formats    []formats.Eligibility `json:"formats"`
}

type formatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	Binary      bool   `json:"binary"`
	Importable  bool   `json:"importable"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"history": s.runs != nil,
	})
}

// handleFormats lists the registered target formats.
func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.All()
	out := make([]formatInfo, len(all))
	for i, f := range all {
		_, importable := f.(formats.Importer)
		out[i] = formatInfo{
			Name:        f.Name(),
			Description: f.Description(),
			Extension:   f.Extension(),
			Binary:      f.Binary(),
			Importable:  importable,
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"formats": out})
}

// handleExport exports one record. Choices named in the request are
// resolved; any left pending produce 409 with the pending list.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorFrom(w, err)
		return
	}
	if req.Format == "" {
		s.errorFrom(w, &ErrValidation{Field: "format", Message: "is required"})
		return
	}
	format, ok := s.registry.Lookup(req.Format)
	if !ok {
		s.errorFrom(w, &ErrFormatNotFound{Name: req.Format})
		return
	}
	rec, err := parseRecord(req.Record)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	cfg := s.porter
	if req.Options != nil {
		if req.Options.ShinyThreshold != 0 {
			cfg.ShinyThreshold = req.Options.ShinyThreshold
		}
		cfg.BattleStatOverride = req.Options.BattleStatOverride
	}

	ctx := r.Context()
	sess, err := s.export(ctx, format, rec, cfg)
	if err != nil {
		resp := exportResponse{Format: format.Name(), Species: rec.SpeciesName(), Status: db.StatusFailed, Error: err.Error()}
		var inel *porter.IneligibleError
		if errors.As(err, &inel) {
			resp.Status = db.StatusIneligible
			resp.Error = inel.Reason
		}
		resp.RunID = s.recordRun(ctx, &resp)
		s.jsonResponse(w, HTTPStatus(err), resp)
		return
	}

	if err := sess.ResolveMap(req.Choices); err != nil {
		s.errorFrom(w, err)
		return
	}
	if req.ResolveFirst {
		sess.ResolveFirst()
	}

	resp := exportResponse{
		Format:    sess.Format(),
		Species:   sess.Species(),
		Alerts:    sess.Alerts(),
		Choices:   sess.Choices(),
		Extension: format.Extension(),
	}
	if !sess.Ready() {
		resp.Status = db.StatusPending
		for _, c := range sess.Pending() {
			resp.Pending = append(resp.Pending, c.Category)
		}
		resp.RunID = s.recordRun(ctx, &resp)
		s.jsonResponse(w, http.StatusConflict, resp)
		return
	}

	out, err := sess.Finalize()
	if err != nil {
		resp.Status, resp.Error = db.StatusFailed, err.Error()
		resp.RunID = s.recordRun(ctx, &resp)
		s.jsonResponse(w, HTTPStatus(err), resp)
		return
	}
	resp.Status, resp.Output = db.StatusSucceeded, out
	if !format.Binary() {
		resp.Text = string(out)
	}
	resp.RunID = s.recordRun(ctx, &resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCanExport reports for every format whether the record can be exported.
func (s *Server) handleCanExport(w http.ResponseWriter, r *http.Request) {
	var req canExportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorFrom(w, err)
		return
	}
	rec, err := parseRecord(req.Record)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	resp := canExportResponse{
		Species:    rec.SpeciesName(),
		Exportable: []string{},
		Formats:    s.registry.Check(rec),
	}
	for _, e := range resp.Formats {
		if e.OK {
			resp.Exportable = append(resp.Exportable, e.Format)
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListRuns lists recorded export runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorFrom(w, ErrHistoryDisabled)
		return
	}

	q := r.URL.Query()
	opts := db.ListOptions{Format: q.Get("format"), Status: q.Get("status")}
	var err error
	if opts.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		s.errorFrom(w, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		s.errorFrom(w, err)
		return
	}

	runs, err := s.runs.ListExportRuns(r.Context(), opts)
	if err != nil {
		s.errorFrom(w, errors.Wrap(err, "failed to list export runs"))
		return
	}
	if runs == nil {
		runs = []db.ExportRun{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleGetRun returns one recorded export run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorFrom(w, ErrHistoryDisabled)
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorFrom(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	run, err := s.runs.GetExportRun(r.Context(), id)
	if err != nil {
		s.errorFrom(w, errors.Wrap(err, "failed to get export run"))
		return
	}
	if run == nil {
		s.errorFrom(w, &ErrRunNotFound{ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// decode reads a size-capped JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// export runs the exporter, giving up when ctx expires first. Exports are
// not cancellable, so an abandoned one finishes in the background.
func (s *Server) export(ctx context.Context, f formats.Format, rec *types.PKU, cfg porter.Config) (*porter.Session, error) {
	type result struct {
		sess *porter.Session
		err  error
	}
	done := make(chan result, 1)
	go func() {
		sess, err := f.Export(rec, cfg)
		done <- result{sess, err}
	}()

	select {
	case res := <-done:
		return res.sess, res.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "export timed out")
	}
}

// recordRun writes resp to the run history and returns the run ID. History
// failures are logged and never fail the request.
func (s *Server) recordRun(ctx context.Context, resp *exportResponse) string {
	if s.runs == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	run, err := s.runs.CreateExportRun(ctx, &db.ExportRunInput{
		Format:  resp.Format,
		Species: resp.Species,
		Status:  resp.Status,
		Error:   resp.Error,
		Alerts:  resp.Alerts,
		Choices: resp.Choices,
		Output:  resp.Output,
	})
	if err != nil {
		s.log.Warn("failed to record export run",
			zap.String(logging.FieldFormat, resp.Format),
			zap.String(logging.FieldStatus, resp.Status),
			zap.Error(err))
		return ""
	}
	s.log.Debug("export run recorded",
		zap.String(logging.FieldRunID, run.ID.String()),
		zap.String(logging.FieldStatus, resp.Status))
	return run.ID.String()
}

// parseRecord checks raw against the record schema and decodes it.
func parseRecord(raw json.RawMessage) (*types.PKU, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &ErrValidation{Field: "record", Message: "is required"}
	}
	if err := schemas.ValidateRecord(raw); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &ErrValidation{Field: "record", Message: err.Error()}
	}
	var rec types.PKU
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &ErrValidation{Field: "record", Message: err.Error()}
	}
	return &rec, nil
}

// intParam parses an optional non-negative query parameter.
func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
