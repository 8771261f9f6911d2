package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/retailbridge/stylesync/internal/core/domain"
	"github.com/retailbridge/stylesync/internal/core/service"
)

// WebhookHandler exposes the storefront-facing HTTP surface: the
// order-created webhook, a manual sync trigger and a health probe.
type WebhookHandler struct {
	ingestor *service.OrderIngestor
	engine   *service.SyncEngine
	log      *zap.Logger
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewWebhookHandler(ingestor *service.OrderIngestor, engine *service.SyncEngine, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{ingestor: ingestor, engine: engine, log: log}
}

// Routes registers the handler on mux.
func (h *WebhookHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/webhooks/orders", h.OrderCreated)
	mux.HandleFunc("/api/sync", h.TriggerSync)
}

// OrderCreated ingests a storefront order-created event. Once the line
// items have been iterated the storefront always gets a success response,
// even if individual decrements failed underneath; only an undecodable
// body is rejected.
func (h *WebhookHandler) OrderCreated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var order domain.WebOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, webhookResponse{
			Success: false,
			Message: "invalid payload",
		})
		return
	}

	h.ingestor.HandleOrderCreated(r.Context(), order)

	writeJSON(w, http.StatusOK, webhookResponse{
		Success: true,
		Message: "order received",
	})
}

// TriggerSync kicks off a poll cycle outside the regular schedule. The
// cycle runs in the background; if one is already in flight the engine's
// run-lock turns this into a no-op.
func (h *WebhookHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Detached from the request context: the cycle outlives the response.
	go h.engine.RunCycle(context.Background())

	writeJSON(w, http.StatusAccepted, webhookResponse{
		Success: true,
		Message: "sync triggered",
	})
}

func (h *WebhookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
