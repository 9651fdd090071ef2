package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-threat-service/internal/aggregator"
)

// Assessor runs one threat assessment for a validated query.
type Assessor interface {
	Assess(ctx context.Context, q aggregator.Query) (aggregator.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Publisher forwards a completed assessment to a downstream sink.
// A nil publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, result aggregator.Result) error
}

// Server exposes the assessment endpoint plus health, readiness, and
// metrics routes.
type Server struct {
	httpServer *http.Server
	assessor   Assessor
	publisher  Publisher
	defaultRad float64
	logger     *slog.Logger
}

// NewServer creates the HTTP server. publisher may be nil.
func NewServer(addr string, assessor Assessor, publisher Publisher, defaultRadiusMiles float64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		assessor:   assessor,
		publisher:  publisher,
		defaultRad: defaultRadiusMiles,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/assessment", s.handleAssessment)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.assessor.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleAssessment serves GET /v1/assessment?lat=&lon=&radius=.
// Invalid input is the one rejected path; everything downstream
// degrades instead.
func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid latitude"})
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid longitude"})
		return
	}

	radius := s.defaultRad
	if v := query.Get("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid radius"})
			return
		}
	}

	result, err := s.assessor.Assess(r.Context(), aggregator.Query{
		Lat: lat, Lon: lon, RadiusMiles: radius,
	})
	if err != nil {
		if errors.Is(r.Context().Err(), context.Canceled) {
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.publish(r.Context(), result)
	writeJSON(w, http.StatusOK, result)
}

// publish forwards the result to the sink, best-effort: a publish
// failure is logged and never affects the response.
func (s *Server) publish(ctx context.Context, result aggregator.Result) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, result); err != nil {
		s.logger.Warn("assessment publish failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
