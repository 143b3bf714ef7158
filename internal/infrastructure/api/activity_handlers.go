package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ActivityHandlers serves activity CRUD.
type ActivityHandlers struct {
	activities ports.ActivityStore
	sync       SyncAPI
	autoSync   bool
	logger     zerolog.Logger
}

// NewActivityHandlers creates the activity handler set.
func NewActivityHandlers(activities ports.ActivityStore, sync SyncAPI, autoSync bool, logger zerolog.Logger) *ActivityHandlers {
	return &ActivityHandlers{
		activities: activities,
		sync:       sync,
		autoSync:   autoSync,
		logger:     logger,
	}
}

// ListByContact handles GET /api/contacts/{id}/activities
func (h *ActivityHandlers) ListByContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	limit, _ := pagination(r)

	activities, err := h.activities.ListByContact(r.Context(), contactID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Activity listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	respond(w, http.StatusOK, activities)
}

// Get handles GET /api/activities/{id}
func (h *ActivityHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	activity, err := h.activities.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Activity lookup failed")
		respondError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if activity == nil {
		respondError(w, http.StatusNotFound, "activity not found")
		return
	}
	respond(w, http.StatusOK, activity)
}

// Create handles POST /api/activities
func (h *ActivityHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var activity domain.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if activity.ContactID == "" || activity.Type == "" || activity.Title == "" {
		respondError(w, http.StatusBadRequest, "contact_id, type and title are required")
		return
	}
	if activity.Date.IsZero() {
		activity.Date = time.Now().UTC()
	}
	activity.ID = ""
	activity.Sync = nil

	if err := h.activities.Create(r.Context(), &activity); err != nil {
		h.logger.Error().Err(err).Msg("Activity creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	h.maybeSync(r, activity.ID)
	respond(w, http.StatusCreated, activity)
}

// Update handles PUT /api/activities/{id}
func (h *ActivityHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	activity, err := h.activities.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Activity update failed")
		respondError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}
	if activity == nil {
		respondError(w, http.StatusNotFound, "activity not found")
		return
	}
	respond(w, http.StatusOK, activity)
}

// Delete handles DELETE /api/activities/{id}
func (h *ActivityHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.activities.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "activity not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Activity deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	respondMessage(w, http.StatusOK, nil, "activity deleted")
}

func (h *ActivityHandlers) maybeSync(r *http.Request, id string) {
	if !h.autoSync || h.sync == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.sync.SyncActivity(ctx, id); err != nil {
			h.logger.Error().Err(err).Str("activity_id", id).Msg("Auto sync after create failed")
		}
	}()
}
