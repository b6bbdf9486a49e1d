package handlers

import (
	"net/http"

	"github.com/kozaktomas/facegate/internal/constants"
	"github.com/kozaktomas/facegate/internal/envelope"
	"github.com/kozaktomas/facegate/internal/neighborhoods"
)

// NeighborhoodsHandler handles the cached neighborhoods CRUD endpoints.
type NeighborhoodsHandler struct {
	service  *neighborhoods.Service
	envelope *envelope.Builder
}

// NewNeighborhoodsHandler creates a new neighborhoods handler.
func NewNeighborhoodsHandler(svc *neighborhoods.Service, b *envelope.Builder) *NeighborhoodsHandler {
	return &NeighborhoodsHandler{service: svc, envelope: b}
}

type neighborhoodRequest struct {
	Name string `json:"name"`
}

// List handles GET /records.
func (h *NeighborhoodsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageListOK, nil).With("records", records))
}

// Get handles GET /records/{id}.
func (h *NeighborhoodsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageGetOK, map[string]any{"id": id}).With("record", record))
}

// Create handles POST /records.
func (h *NeighborhoodsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req neighborhoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	record, err := h.service.Insert(r.Context(), req.Name)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageInsertOK, map[string]any{"id": record.ID}).With("record", record))
}

// Update handles PUT /records/{id}.
func (h *NeighborhoodsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	var req neighborhoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	record, err := h.service.Update(r.Context(), id, req.Name)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageUpdateOK, map[string]any{"id": id}).With("record", record))
}

// Delete handles DELETE /records/{id}.
func (h *NeighborhoodsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondFailure(w, r, h.envelope, err)
		return
	}
	respondJSON(w, http.StatusOK, h.envelope.Success(constants.MessageDeleteOK, map[string]any{"id": id}))
}
