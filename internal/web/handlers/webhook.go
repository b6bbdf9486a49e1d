package handlers

import (
	"net/http"

	"github.com/kozaktomas/facegate/internal/constants"
	"github.com/kozaktomas/facegate/internal/envelope"
	"github.com/kozaktomas/facegate/internal/telemetry"
	"github.com/kozaktomas/facegate/internal/web/middleware"
)

// WebhookHandler handles vehicle telemetry ingestion. It must be mounted
// behind middleware.RequireBearer.
type WebhookHandler struct {
	service  *telemetry.Service
	envelope *envelope.Builder
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(svc *telemetry.Service, b *envelope.Builder) *WebhookHandler {
	return &WebhookHandler{service: svc, envelope: b}
}

// Receive handles POST /webhook.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var reading telemetry.Reading
	if err := decodeJSON(w, r, &reading); err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	event, err := h.service.Ingest(r.Context(), middleware.AccountFromContext(r.Context()), reading)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}

	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageWebhookOK, map[string]any{
		"status":     "OK",
		"lat":        event.Lat,
		"lng":        event.Lng,
		"plate":      event.Plate,
		"account_id": event.AccountID,
		"ts":         event.Timestamp,
	}))
}
