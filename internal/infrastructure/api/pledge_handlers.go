package api

import (
	"context"
	"encoding/json"
	"net/http"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PledgeHandlers serves pledge CRUD.
type PledgeHandlers struct {
	pledges  ports.PledgeStore
	sync     SyncAPI
	autoSync bool
	logger   zerolog.Logger
}

// NewPledgeHandlers creates the pledge handler set.
func NewPledgeHandlers(pledges ports.PledgeStore, sync SyncAPI, autoSync bool, logger zerolog.Logger) *PledgeHandlers {
	return &PledgeHandlers{
		pledges:  pledges,
		sync:     sync,
		autoSync: autoSync,
		logger:   logger,
	}
}

// List handles GET /api/pledges
func (h *PledgeHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	pledges, err := h.pledges.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Pledge listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list pledges")
		return
	}
	respond(w, http.StatusOK, pledges)
}

// ListByContact handles GET /api/contacts/{id}/pledges
func (h *PledgeHandlers) ListByContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	limit, _ := pagination(r)

	pledges, err := h.pledges.ListByContact(r.Context(), contactID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Pledge listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list pledges")
		return
	}
	respond(w, http.StatusOK, pledges)
}

// Get handles GET /api/pledges/{id}
func (h *PledgeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pledge, err := h.pledges.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Pledge lookup failed")
		respondError(w, http.StatusInternalServerError, "failed to get pledge")
		return
	}
	if pledge == nil {
		respondError(w, http.StatusNotFound, "pledge not found")
		return
	}
	respond(w, http.StatusOK, pledge)
}

// Create handles POST /api/pledges
func (h *PledgeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var pledge domain.Pledge
	if err := json.NewDecoder(r.Body).Decode(&pledge); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if pledge.ContactID == "" || pledge.Type == "" {
		respondError(w, http.StatusBadRequest, "contact_id and type are required")
		return
	}
	if pledge.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if pledge.Status == "" {
		pledge.Status = domain.PledgeStatusPending
	}
	pledge.ID = ""
	pledge.Sync = nil

	if err := h.pledges.Create(r.Context(), &pledge); err != nil {
		h.logger.Error().Err(err).Msg("Pledge creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create pledge")
		return
	}

	h.maybeSync(r, pledge.ID)
	respond(w, http.StatusCreated, pledge)
}

// Update handles PUT /api/pledges/{id}
func (h *PledgeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pledge, err := h.pledges.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Pledge update failed")
		respondError(w, http.StatusInternalServerError, "failed to update pledge")
		return
	}
	if pledge == nil {
		respondError(w, http.StatusNotFound, "pledge not found")
		return
	}
	respond(w, http.StatusOK, pledge)
}

// Delete handles DELETE /api/pledges/{id}
func (h *PledgeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.pledges.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "pledge not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Pledge deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete pledge")
		return
	}
	respondMessage(w, http.StatusOK, nil, "pledge deleted")
}

func (h *PledgeHandlers) maybeSync(r *http.Request, id string) {
	if !h.autoSync || h.sync == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.sync.SyncPledge(ctx, id); err != nil {
			h.logger.Error().Err(err).Str("pledge_id", id).Msg("Auto sync after create failed")
		}
	}()
}
