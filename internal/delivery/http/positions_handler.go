package http

import (
	"encoding/json"
	"net/http"

	"signal-gateway/internal/domain"
	"signal-gateway/internal/repository"
)

// PositionsHandler exposes the tracked positions
type PositionsHandler struct {
	tracker *repository.PositionTracker
}

func NewPositionsHandler(tracker *repository.PositionTracker) *PositionsHandler {
	return &PositionsHandler{tracker: tracker}
}

// HandlePositions handles GET /api/positions
func (h *PositionsHandler) HandlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	positions := h.tracker.Snapshot()
	if positions == nil {
		positions = make([]domain.TrackedPosition, 0)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(positions)
}
