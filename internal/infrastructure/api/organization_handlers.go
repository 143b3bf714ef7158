package api

import (
	"encoding/json"
	"net/http"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrganizationHandlers serves organization CRUD.
type OrganizationHandlers struct {
	organizations ports.OrganizationStore
	logger        zerolog.Logger
}

// NewOrganizationHandlers creates the organization handler set.
func NewOrganizationHandlers(organizations ports.OrganizationStore, logger zerolog.Logger) *OrganizationHandlers {
	return &OrganizationHandlers{organizations: organizations, logger: logger}
}

// List handles GET /api/organizations
func (h *OrganizationHandlers) List(w http.ResponseWriter, r *http.Request) {
	organizations, err := h.organizations.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Organization listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list organizations")
		return
	}
	respond(w, http.StatusOK, organizations)
}

// Get handles GET /api/organizations/{id}
func (h *OrganizationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	org, err := h.organizations.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Organization lookup failed")
		respondError(w, http.StatusInternalServerError, "failed to get organization")
		return
	}
	if org == nil {
		respondError(w, http.StatusNotFound, "organization not found")
		return
	}
	respond(w, http.StatusOK, org)
}

// Create handles POST /api/organizations
func (h *OrganizationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var org domain.Organization
	if err := json.NewDecoder(r.Body).Decode(&org); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if org.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	org.ID = ""

	if err := h.organizations.Create(r.Context(), &org); err != nil {
		h.logger.Error().Err(err).Msg("Organization creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create organization")
		return
	}
	respond(w, http.StatusCreated, org)
}

// Update handles PUT /api/organizations/{id}
func (h *OrganizationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.organizations.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Organization update failed")
		respondError(w, http.StatusInternalServerError, "failed to update organization")
		return
	}
	if org == nil {
		respondError(w, http.StatusNotFound, "organization not found")
		return
	}
	respond(w, http.StatusOK, org)
}

// Delete handles DELETE /api/organizations/{id}
func (h *OrganizationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.organizations.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Organization deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete organization")
		return
	}
	respondMessage(w, http.StatusOK, nil, "organization deleted")
}
