package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"weekly-sales-report/internal/observability"
	"weekly-sales-report/internal/pipeline"
)

// reportJob is one report run; *pipeline.Job in production.
type reportJob interface {
	Run(ctx context.Context) (*pipeline.Outcome, error)
}

// Server runs the weekly report on a schedule and serves its status.
type Server struct {
	job        reportJob
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger

	// State
	mu          sync.Mutex
	started     time.Time
	running     bool
	lastRun     time.Time
	lastSuccess time.Time
	lastRunID   string
	lastError   string
	lastZip     string
	warnings    int
	runs        int
	failures    int
}

// NewServer creates a scheduler for job.
func NewServer(job reportJob, interval time.Duration, runOnStart bool, logger *zap.Logger) *Server {
	return &Server{
		job:        job,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger,
		started:    time.Now(),
	}
}

// Run runs the report every interval until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting report scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_start", s.runOnStart),
	)

	if s.runOnStart {
		s.runReport(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			go s.runReport(ctx)
		}
	}
}

// runReport executes one job unless another is in flight.
// Returns false when the run was skipped.
func (s *Server) runReport(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("report already running, skipping")
		return false
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	out, err := s.job.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.lastRun = start
	s.runs++

	if err != nil {
		s.failures++
		s.lastError = err.Error()
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("scheduled report failed", zap.Error(err))
		}
		return true
	}

	s.lastSuccess = start
	s.lastError = ""
	s.lastRunID = out.Result.RunID
	s.warnings = len(out.Result.Warnings)
	s.lastZip = out.Published.Zip
	s.logger.Info("scheduled report completed",
		zap.String("run_id", s.lastRunID),
		zap.Duration("duration", time.Since(start)),
	)
	return true
}

// Handler returns the HTTP routes for health, metrics and status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status       string    `json:"status"`
	Uptime       string    `json:"uptime"`
	Interval     string    `json:"interval"`
	Running      bool      `json:"running"`
	Runs         int       `json:"runs"`
	Failures     int       `json:"failures"`
	LastRun      time.Time `json:"last_run,omitempty"`
	LastSuccess  time.Time `json:"last_success,omitempty"`
	LastRunID    string    `json:"last_run_id,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	LastArchive  string    `json:"last_archive,omitempty"`
	LastWarnings int       `json:"last_warnings"`
}

// Status returns a snapshot of the scheduler state.
func (s *Server) Status() StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "ok"
	if s.lastError != "" {
		status = "degraded"
	}
	return StatusResponse{
		Status:       status,
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		Interval:     s.interval.String(),
		Running:      s.running,
		Runs:         s.runs,
		Failures:     s.failures,
		LastRun:      s.lastRun,
		LastSuccess:  s.lastSuccess,
		LastRunID:    s.lastRunID,
		LastError:    s.lastError,
		LastArchive:  s.lastZip,
		LastWarnings: s.warnings,
	}
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Status())
}
