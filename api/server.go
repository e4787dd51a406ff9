// Package api provides the HTTP surface the admin panel calls to review
// mapping decisions and pull quality reports. The panel itself lives
// elsewhere; this server only touches the ledger.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"partsync/ledger"
)

// Server is the review HTTP server.
type Server struct {
	httpServer *http.Server
	repo       ledger.Repository
	config     *Config
	log        zerolog.Logger
}

// Config holds server configuration.
type Config struct {
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	MaxRequestSize      int64
	LowConfidenceCutoff float64
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:                8080,
		ReadTimeout:         15 * time.Second,
		WriteTimeout:        30 * time.Second,
		MaxRequestSize:      1 << 20, // 1MB, review payloads are tiny
		LowConfidenceCutoff: 0.7,
	}
}

// NewServer creates a review server over a ledger repository.
func NewServer(repo ledger.Repository, config *Config, log zerolog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{repo: repo, config: config, log: log}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/mappings/", s.handleMapping)
	mux.HandleFunc("/api/v1/reports/quality", s.handleQualityReport)
	mux.HandleFunc("/api/v1/reports/review-queue", s.handleReviewQueue)
	mux.HandleFunc("/api/v1/reports/unmapped", s.handleUnmappedReport)

	return s.loggingMiddleware(mux)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info().Int("port", s.config.Port).Msg("review API listening")
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts the server and drains it on SIGINT or
// SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.log.Info().Msg("shutting down review API")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReviewRequest is the body of POST /api/v1/mappings/{id}/review.
type ReviewRequest struct {
	Reviewer string `json:"reviewer"`
	Approved bool   `json:"approved"`
}

// handleMapping routes /api/v1/mappings/{id}/review.
func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/mappings/")
	idStr, action, found := strings.Cut(rest, "/")
	if !found || action != "review" {
		s.jsonError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	mappingID, err := uuid.Parse(idStr)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid mapping id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Reviewer == "" {
		s.jsonError(w, http.StatusBadRequest, "reviewer is required")
		return
	}

	record, err := s.repo.ReviewMapping(r.Context(), mappingID, req.Reviewer, req.Approved)
	if err != nil {
		s.jsonError(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleQualityReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	report, err := s.repo.QualityReport(r.Context(), s.config.LowConfidenceCutoff)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	queue, err := s.repo.QueryLowConfidence(r.Context(), s.config.LowConfidenceCutoff)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, queue)
}

func (s *Server) handleUnmappedReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	unmapped, err := s.repo.QueryUnmapped(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, unmapped)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
