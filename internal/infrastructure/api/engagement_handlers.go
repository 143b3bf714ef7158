package api

import (
	"encoding/json"
	"net/http"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// EngagementHandlers serves the lighter engagement records around a contact:
// call logs, schedules and comments.
type EngagementHandlers struct {
	calls     ports.CallLogStore
	schedules ports.ScheduleStore
	comments  ports.CommentStore
	logger    zerolog.Logger
}

// NewEngagementHandlers creates the engagement handler set.
func NewEngagementHandlers(
	calls ports.CallLogStore,
	schedules ports.ScheduleStore,
	comments ports.CommentStore,
	logger zerolog.Logger,
) *EngagementHandlers {
	return &EngagementHandlers{
		calls:     calls,
		schedules: schedules,
		comments:  comments,
		logger:    logger,
	}
}

// ListCallLogs handles GET /api/contacts/{id}/calls
func (h *EngagementHandlers) ListCallLogs(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	limit, _ := pagination(r)

	logs, err := h.calls.ListByContact(r.Context(), contactID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Call log listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list call logs")
		return
	}
	respond(w, http.StatusOK, logs)
}

// CreateCallLog handles POST /api/call-logs
func (h *EngagementHandlers) CreateCallLog(w http.ResponseWriter, r *http.Request) {
	var log domain.CallLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if log.ContactID == "" {
		respondError(w, http.StatusBadRequest, "contact_id is required")
		return
	}
	if log.CallDate.IsZero() {
		log.CallDate = time.Now().UTC()
	}
	if user := UserFromContext(r.Context()); user != nil && log.LoggedBy == "" {
		log.LoggedBy = user.ID
	}
	log.ID = ""

	if err := h.calls.Create(r.Context(), &log); err != nil {
		h.logger.Error().Err(err).Msg("Call log creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create call log")
		return
	}
	respond(w, http.StatusCreated, log)
}

// DeleteCallLog handles DELETE /api/call-logs/{id}
func (h *EngagementHandlers) DeleteCallLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.calls.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "call log not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Call log deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete call log")
		return
	}
	respondMessage(w, http.StatusOK, nil, "call log deleted")
}

// ListSchedules handles GET /api/contacts/{id}/schedules
func (h *EngagementHandlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")

	schedules, err := h.schedules.ListByContact(r.Context(), contactID)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Schedule listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list schedules")
		return
	}
	respond(w, http.StatusOK, schedules)
}

// ListUpcomingSchedules handles GET /api/schedules/upcoming
func (h *EngagementHandlers) ListUpcomingSchedules(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)

	schedules, err := h.schedules.ListUpcoming(r.Context(), time.Now().UTC(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Upcoming schedule listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list upcoming schedules")
		return
	}
	respond(w, http.StatusOK, schedules)
}

// CreateSchedule handles POST /api/schedules
func (h *EngagementHandlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var schedule domain.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if schedule.ContactID == "" || schedule.Title == "" {
		respondError(w, http.StatusBadRequest, "contact_id and title are required")
		return
	}
	if schedule.StartTime.IsZero() {
		respondError(w, http.StatusBadRequest, "start_time is required")
		return
	}
	if user := UserFromContext(r.Context()); user != nil && schedule.CreatedBy == "" {
		schedule.CreatedBy = user.ID
	}
	schedule.ID = ""

	if err := h.schedules.Create(r.Context(), &schedule); err != nil {
		h.logger.Error().Err(err).Msg("Schedule creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create schedule")
		return
	}
	respond(w, http.StatusCreated, schedule)
}

// UpdateSchedule handles PUT /api/schedules/{id}
func (h *EngagementHandlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule, err := h.schedules.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Schedule update failed")
		respondError(w, http.StatusInternalServerError, "failed to update schedule")
		return
	}
	if schedule == nil {
		respondError(w, http.StatusNotFound, "schedule not found")
		return
	}
	respond(w, http.StatusOK, schedule)
}

// DeleteSchedule handles DELETE /api/schedules/{id}
func (h *EngagementHandlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.schedules.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "schedule not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Schedule deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete schedule")
		return
	}
	respondMessage(w, http.StatusOK, nil, "schedule deleted")
}

// ListComments handles GET /api/contacts/{id}/comments
func (h *EngagementHandlers) ListComments(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	limit, offset := pagination(r)

	comments, err := h.comments.ListByContact(r.Context(), contactID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Comment listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	respond(w, http.StatusOK, comments)
}

// CreateComment handles POST /api/comments
func (h *EngagementHandlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if comment.ContactID == "" || comment.Content == "" {
		respondError(w, http.StatusBadRequest, "contact_id and content are required")
		return
	}
	if user := UserFromContext(r.Context()); user != nil {
		comment.AuthorID = user.ID
	}
	comment.ID = ""

	if err := h.comments.Create(r.Context(), &comment); err != nil {
		h.logger.Error().Err(err).Msg("Comment creation failed")
		respondError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	respond(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/comments/{id}
func (h *EngagementHandlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.comments.Delete(r.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			respondError(w, http.StatusNotFound, "comment not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Comment deletion failed")
		respondError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	respondMessage(w, http.StatusOK, nil, "comment deleted")
}
