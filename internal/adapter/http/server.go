// Package http exposes the REST API, health probes, and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/climate-risk-engine/internal/analysis"
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Caller-facing defaults applied when the analyze request omits a field.
const (
	defaultAssetValue    = 100000.0
	defaultLoanTermYears = 30
	maxLoanTermYears     = 100

	listLimit = 100
)

// Analyzer runs one climate risk analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (domain.Assessment, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the analysis API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	geocoder   analysis.Geocoder
	store      analysis.Store     // nil disables persistence routes
	publisher  analysis.Publisher // nil disables downstream publishing
	ready      ReadinessChecker
	logger     *slog.Logger
}

// NewServer creates the API server. Store and publisher may be nil.
func NewServer(addr string, analyzer Analyzer, geocoder analysis.Geocoder, store analysis.Store, publisher analysis.Publisher, ready ReadinessChecker, logger *slog.Logger) *Server {
	s := &Server{
		analyzer:  analyzer,
		geocoder:  geocoder,
		store:     store,
		publisher: publisher,
		ready:     ready,
		logger:    logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/assessments", s.handleListAssessments).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/assessments/{id}", s.handleGetAssessment).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/geocode", s.handleGeocode).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // analyses fan out to slow providers
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// analyzeRequest is the POST /api/v1/analyze body. Omitted asset value and
// loan term take documented defaults.
type analyzeRequest struct {
	Address       string  `json:"address"`
	AssetValue    float64 `json:"asset_value"`
	LoanTermYears int     `json:"loan_term"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	if req.AssetValue == 0 {
		req.AssetValue = defaultAssetValue
	}
	if req.LoanTermYears == 0 {
		req.LoanTermYears = defaultLoanTermYears
	}
	if req.LoanTermYears < 0 || req.LoanTermYears > maxLoanTermYears {
		writeError(w, http.StatusBadRequest, "loan_term must be between 1 and 100 years")
		return
	}
	if req.AssetValue < 0 {
		writeError(w, http.StatusBadRequest, "asset_value must be positive")
		return
	}

	assessment, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		Address:       req.Address,
		AssetValue:    req.AssetValue,
		LoanTermYears: req.LoanTermYears,
	})
	switch {
	case errors.Is(err, analysis.ErrLocationNotFound):
		writeError(w, http.StatusNotFound, "could not geocode address")
		return
	case errors.Is(err, domain.ErrInvalidLoanTerm), errors.Is(err, domain.ErrInvalidAssetValue):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("analysis failed", "address", req.Address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusOK
	if s.store != nil {
		if err := s.store.SaveAssessment(r.Context(), assessment); err != nil {
			// Persistence is best-effort: the caller still gets the result.
			s.logger.Error("save assessment failed", "id", assessment.ID, "error", err)
		} else {
			status = http.StatusCreated
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishAssessment(r.Context(), assessment); err != nil {
			s.logger.Warn("publish assessment failed", "id", assessment.ID, "error", err)
		}
	}

	writeJSON(w, status, assessment)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "persistence is not enabled")
		return
	}

	id := mux.Vars(r)["id"]
	assessment, err := s.store.GetAssessment(r.Context(), id)
	if errors.Is(err, analysis.ErrAssessmentNotFound) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		s.logger.Error("get assessment failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "persistence is not enabled")
		return
	}

	assessments, err := s.store.ListAssessments(r.Context(), listLimit)
	if err != nil {
		s.logger.Error("list assessments failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if assessments == nil {
		assessments = []domain.Assessment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assessments": assessments,
		"total":       len(assessments),
	})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	coords, err := s.geocoder.Geocode(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusNotFound, "location not found")
		return
	}
	writeJSON(w, http.StatusOK, coords)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// StaticReadiness is a ReadinessChecker that is always ready, used when no
// stateful dependency is configured.
type StaticReadiness struct{}

func (StaticReadiness) CheckReadiness(_ context.Context) error { return nil }
