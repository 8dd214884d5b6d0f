package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minzi-dev/floodwatch/internal/config"
	"github.com/minzi-dev/floodwatch/internal/domain"
	"github.com/minzi-dev/floodwatch/internal/report"
	"github.com/minzi-dev/floodwatch/internal/snapshot"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SnapshotProvider hands out the current station snapshot.
type SnapshotProvider interface {
	ReadinessChecker
	Current() *snapshot.Snapshot
}

// RiverSource fetches river geometry for the map page.
type RiverSource interface {
	FetchRivers(ctx context.Context) ([]domain.RiverPath, error)
}

// Server exposes the JSON API, the HTML pages, and the operational endpoints.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotProvider
	assessor   *snapshot.CachedAssessor
	logger     *slog.Logger

	defaultRadiusKm float64

	// River geometry is static; fetch it once on first map request.
	riverSource RiverSource
	riversMu    sync.Mutex
	rivers      []domain.RiverPath
	riversSet   bool
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *config.Config, snapshots SnapshotProvider, rivers RiverSource, assessor *snapshot.CachedAssessor, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots:       snapshots,
		assessor:        assessor,
		logger:          logger,
		defaultRadiusKm: cfg.RiskRadiusKm,
		riverSource:     rivers,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/stations", s.handleStations)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/risk", s.handleRisk)
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /map", s.handleMap)

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

	if err := s.snapshots.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshots.Current()
	if snap == nil {
		writeNoSnapshot(w)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshots.Current()
	if snap == nil {
		writeNoSnapshot(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": snap.GeneratedAt,
		"summary":      snap.Summary(),
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshots.Current()
	if snap == nil {
		writeNoSnapshot(w)
		return
	}

	lat, err := parseFloatParam(r, "lat", -90, 90)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lon, err := parseFloatParam(r, "lon", -180, 180)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	radius := s.defaultRadiusKm
	if v := r.URL.Query().Get("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "radius must be a positive number"})
			return
		}
	}

	assessment := s.assessor.Assess(snap, domain.Coordinate{Lat: lat, Lon: lon}, radius)
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshots.Current()
	if snap == nil {
		http.Error(w, "snapshot not ready yet, try again shortly", http.StatusServiceUnavailable)
		return
	}

	page, err := report.RenderDashboard(snap.Stations, snap.GeneratedAt)
	if err != nil {
		s.logger.Error("dashboard render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshots.Current()
	if snap == nil {
		http.Error(w, "snapshot not ready yet, try again shortly", http.StatusServiceUnavailable)
		return
	}

	rivers, err := s.riversFor(r.Context())
	if err != nil {
		s.logger.Error("river fetch failed", "error", err)
		http.Error(w, "river geometry unavailable", http.StatusBadGateway)
		return
	}

	page, err := report.RenderMap(snap.Stations, rivers)
	if err != nil {
		s.logger.Error("map render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

func (s *Server) riversFor(ctx context.Context) ([]domain.RiverPath, error) {
	s.riversMu.Lock()
	defer s.riversMu.Unlock()

	if s.riversSet {
		return s.rivers, nil
	}

	rivers, err := s.riverSource.FetchRivers(ctx)
	if err != nil {
		return nil, err
	}
	s.rivers = rivers
	s.riversSet = true
	return rivers, nil
}

func parseFloatParam(r *http.Request, name string, min, max float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < min || v > max {
		return 0, fmt.Errorf("%s must be a number between %g and %g", name, min, max)
	}
	return v, nil
}

func writeNoSnapshot(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot built yet"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page) //nolint:errcheck // best-effort response
}
