package api

import (
	"encoding/json"
	"net/http"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// EmailHandlers serves the email log endpoints. Delivery is handled by an
// external email service; these endpoints record and report the logs.
type EmailHandlers struct {
	emails ports.EmailStore
	logger zerolog.Logger
}

// NewEmailHandlers creates the email handler set.
func NewEmailHandlers(emails ports.EmailStore, logger zerolog.Logger) *EmailHandlers {
	return &EmailHandlers{
		emails: emails,
		logger: logger,
	}
}

// ListByContact handles GET /api/emails/contact/{id}
func (h *EmailHandlers) ListByContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	limit, _ := pagination(r)

	logs, err := h.emails.ListByContact(r.Context(), contactID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Email log listing failed")
		respondError(w, http.StatusInternalServerError, "failed to list email logs")
		return
	}
	respond(w, http.StatusOK, logs)
}

// Send handles POST /api/emails/send/{id}
//
// TODO: hand the message to the email provider once one is wired up. Until
// then the email is only logged.
func (h *EmailHandlers) Send(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	if contactID == "" {
		respondError(w, http.StatusBadRequest, "contact id is required")
		return
	}

	var log domain.EmailLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if log.ToEmail == "" || log.FromEmail == "" || log.Subject == "" || log.Body == "" {
		respondError(w, http.StatusBadRequest, "to_email, from_email, subject and body are required")
		return
	}
	if user := UserFromContext(r.Context()); user != nil && log.SentBy == "" {
		log.SentBy = user.ID
	}
	log.ID = ""
	log.ContactID = contactID
	log.Status = domain.EmailStatusSent
	log.Opened = false
	log.OpenedAt = nil

	if err := h.emails.Create(r.Context(), &log); err != nil {
		h.logger.Error().Err(err).Str("contact_id", contactID).Msg("Email log creation failed")
		respondError(w, http.StatusInternalServerError, "failed to log email")
		return
	}
	respondMessage(w, http.StatusCreated, log, "email logged and queued for the email service")
}

// Stats handles GET /api/emails/stats
func (h *EmailHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.emails.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Email stats failed")
		respondError(w, http.StatusInternalServerError, "failed to get email stats")
		return
	}
	respond(w, http.StatusOK, stats)
}

// MarkOpened handles PUT /api/emails/{id}/opened
func (h *EmailHandlers) MarkOpened(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	log, err := h.emails.MarkOpened(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Email open tracking failed")
		respondError(w, http.StatusInternalServerError, "failed to mark email as opened")
		return
	}
	if log == nil {
		respondError(w, http.StatusNotFound, "email log not found")
		return
	}
	respond(w, http.StatusOK, log)
}
