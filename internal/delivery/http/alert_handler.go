package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"signal-gateway/internal/domain"
	"signal-gateway/internal/usecase"
)

// AlertHandler handles the inbound alert endpoints
type AlertHandler struct {
	pipeline *usecase.Pipeline
}

func NewAlertHandler(pipeline *usecase.Pipeline) *AlertHandler {
	return &AlertHandler{pipeline: pipeline}
}

// AlertResponse is the body returned for a processed alert
type AlertResponse struct {
	Signal  *domain.NormalizedSignal `json:"signal"`
	Results []domain.OrderResult     `json:"results"`
}

// HandleTradingViewWebhook handles POST /webhook/tradingview
func (h *AlertHandler) HandleTradingViewWebhook(w http.ResponseWriter, r *http.Request) {
	h.handleAlert(w, r, domain.SourceChartWebhook)
}

// HandleSignal handles POST /signals, the direct ingest endpoint for
// pre-built signal payloads
func (h *AlertHandler) HandleSignal(w http.ResponseWriter, r *http.Request) {
	h.handleAlert(w, r, domain.SourceSignalAPI)
}

func (h *AlertHandler) handleAlert(w http.ResponseWriter, r *http.Request, source domain.SignalSource) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	signal, results, err := h.pipeline.ProcessRaw(r.Context(), body, source)
	if err != nil {
		writeAlertError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AlertResponse{Signal: signal, Results: results})
}

// writeAlertError maps pipeline errors to HTTP statuses: payload and routing
// problems are the caller's fault, everything else is ours.
func writeAlertError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		profileErr    *domain.UnknownProfileError
	)
	status := http.StatusInternalServerError
	if errors.As(err, &validationErr) || errors.As(err, &profileErr) {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// HandleExamplePayload handles GET /debug/example-tradingview-payload,
// a copy-paste template for configuring chart alerts
func (h *AlertHandler) HandleExamplePayload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	example := map[string]interface{}{
		"command":         "ENTER_LONG",
		"symbol":          "{{ticker}}",
		"order_type":      "market",
		"quantity":        0.01,
		"leverage":        5,
		"stop_loss":       0,
		"routing_profile": "default",
		"strategy_name":   "my-strategy",
		"timestamp":       "{{timenow}}",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(example)
}
