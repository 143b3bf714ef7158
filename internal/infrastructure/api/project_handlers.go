package api

import (
	"encoding/json"
	"net/http"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProjectHandlers serves project CRUD plus the per-project pipeline stages
// and deals.
type ProjectHandlers struct {
	projects ports.ProjectStore
	logger   zerolog.Logger
}

// NewProjectHandlers creates the project handler set.
func NewProjectHandlers(projects ports.ProjectStore, logger zerolog.Logger) *ProjectHandlers {
	return &ProjectHandlers{projects: projects, logger: logger}
}

// List handles GET /api/projects
func (h *ProjectHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	projects, err := h.projects.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Project listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	respond(w, http.StatusOK, projects)
}

// Get handles GET /api/projects/{id}
func (h *ProjectHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Project lookup failed")
		respondError(w, http.StatusInternalServerError, "failed to get project")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	respond(w, http.StatusOK, project)
}

// Create handles POST /api/projects
func (h *ProjectHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var project domain.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if project.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if project.Status == "" {
		project.Status = "active"
	}
	project.ID = ""

	if err := h.projects.Create(r.Context(), &project); err != nil {
		h.logger.Error().Err(err).Msg("Project creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	respond(w, http.StatusCreated, project)
}

// Update handles PUT /api/projects/{id}
func (h *ProjectHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Project update failed")
		respondError(w, http.StatusInternalServerError, "failed to update project")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	respond(w, http.StatusOK, project)
}

// Delete handles DELETE /api/projects/{id}
func (h *ProjectHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Project deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	respondMessage(w, http.StatusOK, nil, "project deleted")
}

// ListStages handles GET /api/projects/{id}/stages
func (h *ProjectHandlers) ListStages(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	stages, err := h.projects.ListStages(r.Context(), projectID)
	if err != nil {
		h.logger.Error().Err(err).Str("project_id", projectID).Msg("Stage listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list stages")
		return
	}
	respond(w, http.StatusOK, stages)
}

// CreateStage handles POST /api/projects/{id}/stages
func (h *ProjectHandlers) CreateStage(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var stage domain.PipelineStage
	if err := json.NewDecoder(r.Body).Decode(&stage); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if stage.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	stage.ID = ""
	stage.ProjectID = projectID

	if err := h.projects.CreateStage(r.Context(), &stage); err != nil {
		h.logger.Error().Err(err).Str("project_id", projectID).Msg("Stage creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create stage")
		return
	}
	respond(w, http.StatusCreated, stage)
}

// ListDeals handles GET /api/projects/{id}/deals
func (h *ProjectHandlers) ListDeals(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	deals, err := h.projects.ListDeals(r.Context(), projectID)
	if err != nil {
		h.logger.Error().Err(err).Str("project_id", projectID).Msg("Deal listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list deals")
		return
	}
	respond(w, http.StatusOK, deals)
}

// CreateDeal handles POST /api/projects/{id}/deals
func (h *ProjectHandlers) CreateDeal(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var deal domain.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if deal.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if deal.Status == "" {
		deal.Status = "open"
	}
	deal.ID = ""
	deal.ProjectID = projectID

	if err := h.projects.CreateDeal(r.Context(), &deal); err != nil {
		h.logger.Error().Err(err).Str("project_id", projectID).Msg("Deal creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create deal")
		return
	}
	respond(w, http.StatusCreated, deal)
}

// UpdateDeal handles PUT /api/deals/{id}
func (h *ProjectHandlers) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deal, err := h.projects.UpdateDeal(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Deal update failed")
		respondError(w, http.StatusInternalServerError, "failed to update deal")
		return
	}
	if deal == nil {
		respondError(w, http.StatusNotFound, "deal not found")
		return
	}
	respond(w, http.StatusOK, deal)
}

// DeleteDeal handles DELETE /api/deals/{id}
func (h *ProjectHandlers) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.projects.DeleteDeal(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "deal not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Deal deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete deal")
		return
	}
	respondMessage(w, http.StatusOK, nil, "deal deleted")
}
