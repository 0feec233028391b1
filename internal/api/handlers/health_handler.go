package handlers

import (
	"context"
	"net/http"

	"github.com/plantio/backend/pkg/config"
)

// Pinger reports liveness of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendReporter names the active inference backend.
type BackendReporter interface {
	Backend() string
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	cfg      *config.Config
	db       Pinger
	reporter BackendReporter
}

// NewHealthHandler creates a new health handler. db may be nil when the
// database is not wired (degraded dev mode).
func NewHealthHandler(cfg *config.Config, db Pinger, reporter BackendReporter) *HealthHandler {
	return &HealthHandler{
		cfg:      cfg,
		db:       db,
		reporter: reporter,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthDB handles GET /health/db
func (h *HealthHandler) HealthDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"db": "not configured"})
		return
	}
	if err := h.db.Ping(r.Context()); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"db": "unreachable"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"db": "ok"})
}

// HealthModel handles GET /health/model
func (h *HealthHandler) HealthModel(w http.ResponseWriter, r *http.Request) {
	backend := "unknown"
	if h.reporter != nil {
		backend = h.reporter.Backend()
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"backend": backend})
}

// HealthApp handles GET /health/app
func (h *HealthHandler) HealthApp(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"app":     h.cfg.App.Name,
		"version": h.cfg.App.Version,
		"env":     h.cfg.App.Env,
	})
}
