package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pollagents/pollagents/internal/server"
	"github.com/pollagents/pollagents/internal/store"
)

// StatsHandler exposes read-only operational introspection.
type StatsHandler struct {
	repo     store.Repository
	registry *server.Registry
}

// NewStatsHandler creates the introspection handler.
func NewStatsHandler(repo store.Repository, registry *server.Registry) *StatsHandler {
	return &StatsHandler{repo: repo, registry: registry}
}

// RegisterRoutes registers the introspection routes.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/stats", h.GetStats)
}

// GetStats reports the active-session count and storage reachability.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	storageStatus := "ok"
	if err := h.repo.Ping(r.Context()); err != nil {
		storageStatus = "unreachable"
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"active_sessions": h.registry.Count(),
		"storage":         storageStatus,
	})
}
