package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/infrastructure/metrics"
	"dawah-crm/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SyncAPI is the slice of the sync orchestrator the HTTP layer needs.
type SyncAPI interface {
	SyncContact(ctx context.Context, id string) ([]domain.SyncResult, error)
	SyncPledge(ctx context.Context, id string) ([]domain.SyncResult, error)
	SyncActivity(ctx context.Context, id string) ([]domain.SyncResult, error)
	IntegrationStatuses(ctx context.Context) []domain.IntegrationStatusEntry
	TestIntegration(ctx context.Context, name string) (*domain.ConnectionTest, error)
	Integration(name string) ports.CRMIntegration
}

// Deduper suppresses replayed webhook events. Forget releases a claim so a
// failed event can be redelivered.
type Deduper interface {
	Seen(ctx context.Context, integration, eventID string) bool
	Forget(ctx context.Context, integration, eventID string)
}

// IntegrationHandlers serves the integration status, connection test, manual
// sync and inbound webhook endpoints.
type IntegrationHandlers struct {
	sync    SyncAPI
	deduper Deduper
	metrics *metrics.SyncMetrics
	logger  zerolog.Logger
}

// NewIntegrationHandlers creates the integration handler set.
func NewIntegrationHandlers(sync SyncAPI, deduper Deduper, syncMetrics *metrics.SyncMetrics, logger zerolog.Logger) *IntegrationHandlers {
	return &IntegrationHandlers{
		sync:    sync,
		deduper: deduper,
		metrics: syncMetrics,
		logger:  logger,
	}
}

// Status handles GET /api/integrations/status
func (h *IntegrationHandlers) Status(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.sync.IntegrationStatuses(r.Context()))
}

// Test handles POST /api/integrations/{name}/test
func (h *IntegrationHandlers) Test(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	test, err := h.sync.TestIntegration(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "integration not found: "+name)
			return
		}
		h.logger.Error().Err(err).Str("integration", name).Msg("Connection test failed")
		respondError(w, http.StatusInternalServerError, "connection test failed")
		return
	}

	// The envelope's success mirrors the connection outcome.
	writeJSON(w, http.StatusOK, envelope{Success: test.Connected, Data: test})
}

// SyncContact handles POST /api/integrations/sync/contact/{id}
func (h *IntegrationHandlers) SyncContact(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, "contact", h.sync.SyncContact)
}

// SyncPledge handles POST /api/integrations/sync/pledge/{id}
func (h *IntegrationHandlers) SyncPledge(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, "pledge", h.sync.SyncPledge)
}

// SyncActivity handles POST /api/integrations/sync/activity/{id}
func (h *IntegrationHandlers) SyncActivity(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, "activity", h.sync.SyncActivity)
}

// runSync executes a fan-out sync and maps the outcome onto the response
// status: 200 when every integration succeeded, 207 on a partial failure.
func (h *IntegrationHandlers) runSync(
	w http.ResponseWriter,
	r *http.Request,
	entity string,
	sync func(ctx context.Context, id string) ([]domain.SyncResult, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, entity+" id is required")
		return
	}

	results, err := sync(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, entity+" not found: "+id)
			return
		}
		h.logger.Error().Err(err).Str("entity", entity).Str("id", id).Msg("Sync failed")
		respondError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	for _, result := range results {
		if !result.Success {
			// Partial failure: success=false, every per-integration result
			// still returned so the caller can see which ones failed.
			writeJSON(w, http.StatusMultiStatus, envelope{
				Success: false,
				Data:    results,
				Message: "one or more integrations failed",
			})
			return
		}
	}
	respond(w, http.StatusOK, results)
}

// inboundEvent is the wire shape HubSpot posts to webhook subscriptions.
// Deliveries arrive either as a single object or a batch array.
type inboundEvent struct {
	EventID          int64  `json:"eventId"`
	ObjectID         int64  `json:"objectId"`
	SubscriptionType string `json:"subscriptionType"`
	Timestamp        int64  `json:"timestamp"`
}

// Webhook handles POST /api/webhooks/{name}
func (h *IntegrationHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	integration := h.sync.Integration(name)
	if integration == nil {
		respondError(w, http.StatusNotFound, "integration not found: "+name)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	events, err := decodeInboundEvents(payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	processed, failed := 0, 0
	for _, inbound := range events {
		event := inbound.toDomain()
		h.metrics.WebhookReceived(name, event.Type)

		if h.deduper != nil && h.deduper.Seen(r.Context(), name, event.ID) {
			h.logger.Debug().
				Str("integration", name).
				Str("event_id", event.ID).
				Msg("Dropping duplicate webhook event")
			continue
		}

		if err := integration.HandleWebhook(r.Context(), event); err != nil {
			h.logger.Error().
				Err(err).
				Str("integration", name).
				Str("event_id", event.ID).
				Msg("Webhook event handling failed")
			// Release the dedupe claim so the vendor's retry gets through.
			if h.deduper != nil {
				h.deduper.Forget(r.Context(), name, event.ID)
			}
			failed++
			continue
		}
		processed++
	}

	if failed > 0 {
		respondError(w, http.StatusInternalServerError, "failed to process webhook events")
		return
	}
	respond(w, http.StatusOK, map[string]int{
		"received":  len(events),
		"processed": processed,
	})
}

func decodeInboundEvents(payload []byte) ([]inboundEvent, error) {
	var batch []inboundEvent
	if err := json.Unmarshal(payload, &batch); err == nil {
		return batch, nil
	}

	var single inboundEvent
	if err := json.Unmarshal(payload, &single); err != nil {
		return nil, err
	}
	return []inboundEvent{single}, nil
}

func (e inboundEvent) toDomain() domain.IntegrationEvent {
	id := e.EventID
	if id == 0 {
		id = e.ObjectID
	}

	timestamp := time.Now().UTC()
	if e.Timestamp > 0 {
		timestamp = time.UnixMilli(e.Timestamp).UTC()
	}

	return domain.IntegrationEvent{
		ID:        fmt.Sprintf("%d", id),
		Type:      e.SubscriptionType,
		Timestamp: timestamp,
		Data: map[string]any{
			"objectId": e.ObjectID,
		},
	}
}
