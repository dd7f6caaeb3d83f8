package api

import (
	"encoding/json"
	"net/http"

	"psi-arena/internal/game"
)

// EngineInterface is the slice of the engine the HTTP surface needs.
// Keeping it minimal lets router tests run against a stub instead of a
// live actor loop.
type EngineInterface interface {
	Snapshot() (game.Roster, game.Stats)
}

type handlers struct {
	engine EngineInterface
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleGetState returns the full roster snapshot.
func (h *handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	roster, _ := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, roster)
}

// handleGetStats returns engine counters.
func (h *handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	_, stats := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, stats)
}
