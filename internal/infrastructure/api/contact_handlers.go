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

// ContactHandlers serves contact CRUD and search.
type ContactHandlers struct {
	contacts ports.ContactStore
	sync     SyncAPI
	autoSync bool
	logger   zerolog.Logger
}

// NewContactHandlers creates the contact handler set. When autoSync is true a
// freshly created contact is pushed to the integrations in the background.
func NewContactHandlers(contacts ports.ContactStore, sync SyncAPI, autoSync bool, logger zerolog.Logger) *ContactHandlers {
	return &ContactHandlers{
		contacts: contacts,
		sync:     sync,
		autoSync: autoSync,
		logger:   logger,
	}
}

// List handles GET /api/contacts. A search query parameter switches to a
// name/email search instead of a paged listing.
func (h *ContactHandlers) List(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("search"); query != "" {
		contacts, err := h.contacts.Search(r.Context(), query)
		if err != nil {
			h.logger.Error().Err(err).Msg("Contact search failed")
			respondError(w, http.StatusInternalServerError, "failed to search contacts")
			return
		}
		respond(w, http.StatusOK, contacts)
		return
	}

	limit, offset := pagination(r)
	contacts, err := h.contacts.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Contact listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	respond(w, http.StatusOK, contacts)
}

// Get handles GET /api/contacts/{id}
func (h *ContactHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Contact lookup failed")
		respondError(w, http.StatusInternalServerError, "failed to get contact")
		return
	}
	if contact == nil {
		respondError(w, http.StatusNotFound, "contact not found")
		return
	}
	respond(w, http.StatusOK, contact)
}

// Create handles POST /api/contacts
func (h *ContactHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if contact.FirstName == "" || contact.LastName == "" {
		respondError(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}
	if contact.LeadStatus == "" {
		contact.LeadStatus = domain.LeadStatusLead
	}
	contact.ID = ""
	contact.Sync = nil

	if err := h.contacts.Create(r.Context(), &contact); err != nil {
		h.logger.Error().Err(err).Msg("Contact creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	h.maybeSync(r, contact.ID)
	respond(w, http.StatusCreated, contact)
}

// Update handles PUT /api/contacts/{id}
func (h *ContactHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := h.contacts.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Contact update failed")
		respondError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}
	if contact == nil {
		respondError(w, http.StatusNotFound, "contact not found")
		return
	}
	respond(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/{id}
func (h *ContactHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Contact deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}
	respondMessage(w, http.StatusOK, nil, "contact deleted")
}

// maybeSync triggers an auto sync after a create. The request may complete
// before the sync does; outcomes land on the contact's sync projection.
func (h *ContactHandlers) maybeSync(r *http.Request, id string) {
	if !h.autoSync || h.sync == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.sync.SyncContact(ctx, id); err != nil {
			h.logger.Error().Err(err).Str("contact_id", id).Msg("Auto sync after create failed")
		}
	}()
}
