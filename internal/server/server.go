// Package server provides the HTTP API for exporting canonical records.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/db"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/logging"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/schemas"
	"github.com/jonathan/pku-porter/internal/server/ratelimit"
)

// DefaultRequestTimeout bounds the handling of one request.
const DefaultRequestTimeout = 30 * time.Second

// maxBodyBytes caps request bodies; a record is a few kilobytes.
const maxBodyBytes = 1 << 20

// RunStore records export runs. *db.DB implements it.
type RunStore interface {
	CreateExportRun(ctx context.Context, input *db.ExportRunInput) (*db.ExportRun, error)
	GetExportRun(ctx context.Context, id uuid.UUID) (*db.ExportRun, error)
	ListExportRuns(ctx context.Context, opts db.ListOptions) ([]db.ExportRun, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	registry       *formats.Registry
	porter         porter.Config
	runs           RunStore
	closeRuns      func()
	rateLimiter    *ratelimit.Limiter
	log            *zap.Logger
	requestTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port int
	// DatabaseURL enables run history when set.
	DatabaseURL string
	Porter      porter.Config
	Logger      *zap.Logger
	// RateLimit defaults to ratelimit.LoadConfig when nil.
	RateLimit      *ratelimit.Config
	RequestTimeout time.Duration
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Porter.Dex == nil {
		cfg.Porter.Dex = dex.MustLoad()
	}
	if cfg.RateLimit == nil {
		rl, err := ratelimit.LoadConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load rate limit config")
		}
		cfg.RateLimit = rl
	}

	var runs RunStore
	var closeRuns func()
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to database")
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, errors.Wrap(err, "failed to migrate database")
		}
		runs, closeRuns = database, database.Close
	}

	s := newServer(cfg, formats.New(cfg.Porter.Dex), runs)
	s.closeRuns = closeRuns
	return s, nil
}

// newServer wires a server around an existing registry and run store. A nil
// store disables run history.
func newServer(cfg Config, registry *formats.Registry, runs RunStore) *Server {
	log := logging.OrNop(cfg.Logger)
	if cfg.Porter.Logger == nil {
		cfg.Porter.Logger = log
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	s := &Server{
		registry:       registry,
		porter:         cfg.Porter,
		runs:           runs,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		log:            log,
		requestTimeout: timeout,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/formats", s.handleFormats)
	mux.HandleFunc("POST /v1/export", s.handleExport)
	mux.HandleFunc("POST /v1/can-export", s.handleCanExport)
	mux.HandleFunc("GET /v1/runs", s.handleListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", s.handleGetRun)

	return s.withRateLimit(s.withLogging(s.withTimeout(s.withCORS(mux))))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String(logging.FieldAddress, s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return errors.Wrap(err, "server error")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return errors.Wrap(err, "server shutdown failed")
	}
	s.log.Info("server stopped")
	return nil
}

// Close releases the rate limiter and the database pool.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeRuns != nil {
		s.closeRuns()
		s.closeRuns = nil
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withTimeout bounds the request context.
func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request completed",
			zap.String(logging.FieldMethod, r.Method),
			zap.String(logging.FieldPath, r.URL.Path),
			zap.String(logging.FieldRemote, r.RemoteAddr),
			zap.Int(logging.FieldHTTPCode, rec.status),
			zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFrom writes err with the status HTTPStatus assigns it. Schema
// failures carry their field errors.
func (s *Server) errorFrom(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.log.Error("request failed", zap.Error(err))
	}
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		s.jsonResponse(w, status, map[string]any{
			"error":   "record failed schema validation",
			"details": ve.Errors,
		})
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request, the IP
// address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Duration("retry_after", info.RetryAfter))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
