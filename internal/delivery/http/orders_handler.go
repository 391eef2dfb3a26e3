package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"signal-gateway/internal/domain"
)

const defaultRecentLimit = 50

// OrdersHandler exposes the order journal
type OrdersHandler struct {
	journal domain.OrderJournal
}

func NewOrdersHandler(journal domain.OrderJournal) *OrdersHandler {
	return &OrdersHandler{journal: journal}
}

// HandleRecent handles GET /api/orders/recent?limit={n}
func (h *OrdersHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = make([]*domain.JournalEntry, 0)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
