// Package hubspot implements the CRM integration adapter for HubSpot.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dawah-crm/internal/domain"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.hubapi.com"

// Integration talks to the HubSpot CRM v3 object API. It is stateless aside
// from the shared HTTP client, which is read-only after construction, so a
// single instance is safe for concurrent use.
type Integration struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures an Integration.
type Option func(*Integration)

// WithBaseURL overrides the HubSpot API base URL.
func WithBaseURL(baseURL string) Option {
	return func(i *Integration) { i.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(i *Integration) { i.httpClient = client }
}

// New creates a HubSpot integration. It fails when the API key is absent;
// missing credentials are a configuration error and must surface at startup.
func New(apiKey string, logger zerolog.Logger, opts ...Option) (*Integration, error) {
	if apiKey == "" {
		return nil, errors.New("hubspot API key is required")
	}

	integration := &Integration{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(integration)
	}
	return integration, nil
}

// TestConnection performs a cheap read against the contacts endpoint.
func (i *Integration) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.baseURL+"/crm/v3/objects/contacts?limit=1", nil)
	if err != nil {
		return false
	}
	i.setHeaders(req)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		i.logger.Warn().Err(err).Msg("HubSpot connection test failed")
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// SyncContact creates the contact as a HubSpot contact object.
func (i *Integration) SyncContact(ctx context.Context, contact *domain.Contact) domain.SyncResult {
	id, err := i.createObject(ctx, "/crm/v3/objects/contacts", objectRequest{
		Properties: contactProperties(contact),
	})
	if err != nil {
		return failedResult(err)
	}
	return domain.SyncResult{
		Success:     true,
		ExternalID:  id,
		ExternalURL: fmt.Sprintf("https://app.hubspot.com/contacts/default/contact/%s", id),
		Timestamp:   time.Now().UTC(),
	}
}

// SyncPledge creates the pledge as a HubSpot deal, associated to the
// external contact when the pledge carries a contact linkage.
func (i *Integration) SyncPledge(ctx context.Context, pledge *domain.Pledge) domain.SyncResult {
	request := objectRequest{Properties: pledgeProperties(pledge)}
	if pledge.ContactID != "" {
		request.Associations = []association{{Type: "deal_to_contact", ID: pledge.ContactID}}
	}

	id, err := i.createObject(ctx, "/crm/v3/objects/deals", request)
	if err != nil {
		return failedResult(err)
	}
	return domain.SyncResult{
		Success:     true,
		ExternalID:  id,
		ExternalURL: fmt.Sprintf("https://app.hubspot.com/deals/default/deal/%s", id),
		Timestamp:   time.Now().UTC(),
	}
}

// SyncActivity creates the activity as a HubSpot task associated to the
// contact.
func (i *Integration) SyncActivity(ctx context.Context, activity *domain.Activity) domain.SyncResult {
	request := objectRequest{
		Properties:   activityProperties(activity),
		Associations: []association{{Type: "task_to_contact", ID: activity.ContactID}},
	}

	id, err := i.createObject(ctx, "/crm/v3/objects/tasks", request)
	if err != nil {
		return failedResult(err)
	}
	return domain.SyncResult{
		Success:    true,
		ExternalID: id,
		Timestamp:  time.Now().UTC(),
	}
}

// GetContact fetches a HubSpot contact by external id. Returns nil when the
// contact is absent or the transport fails.
func (i *Integration) GetContact(ctx context.Context, externalID string) map[string]any {
	return i.getObject(ctx, "/crm/v3/objects/contacts/"+externalID)
}

// GetPledge fetches a HubSpot deal by external id.
func (i *Integration) GetPledge(ctx context.Context, externalID string) map[string]any {
	return i.getObject(ctx, "/crm/v3/objects/deals/"+externalID)
}

// HandleWebhook dispatches an inbound HubSpot event by type. The individual
// branches are extension points for pulling external changes back into the
// local store; unrecognized types are logged and dropped.
func (i *Integration) HandleWebhook(ctx context.Context, event domain.IntegrationEvent) error {
	logger := i.logger.With().
		Str("event_id", event.ID).
		Str("type", event.Type).
		Time("timestamp", event.Timestamp).
		Logger()

	switch event.Type {
	case "contact.creation", "contact.created", "contact.updated", "contact.propertyChange":
		logger.Info().Msg("Received HubSpot contact event")
	case "deal.creation", "deal.created", "deal.updated", "deal.propertyChange":
		logger.Info().Msg("Received HubSpot deal event")
	case "task.created":
		logger.Info().Msg("Received HubSpot task event")
	default:
		logger.Info().Msg("Dropping unknown HubSpot webhook type")
	}
	return nil
}

// GetStatus composes TestConnection into a status snapshot.
func (i *Integration) GetStatus(ctx context.Context) domain.IntegrationStatus {
	now := time.Now().UTC()
	return domain.IntegrationStatus{
		Connected: i.TestConnection(ctx),
		LastSync:  &now,
	}
}

// objectRequest is the envelope for HubSpot object creation.
type objectRequest struct {
	Properties   map[string]any `json:"properties"`
	Associations []association  `json:"associations,omitempty"`
}

type association struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type objectResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (i *Integration) createObject(ctx context.Context, path string, request objectRequest) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	i.setHeaders(req)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.New(vendorError(resp))
	}

	var object objectResponse
	if err := json.NewDecoder(resp.Body).Decode(&object); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return object.ID, nil
}

func (i *Integration) getObject(ctx context.Context, path string) map[string]any {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.baseURL+path, nil)
	if err != nil {
		i.logger.Warn().Err(err).Str("path", path).Msg("Failed to build HubSpot request")
		return nil
	}
	i.setHeaders(req)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		i.logger.Warn().Err(err).Str("path", path).Msg("Failed to fetch HubSpot object")
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		i.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("HubSpot object fetch returned non-OK status")
		return nil
	}

	var object map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&object); err != nil {
		i.logger.Warn().Err(err).Str("path", path).Msg("Failed to decode HubSpot object")
		return nil
	}
	return object
}

func (i *Integration) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+i.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// vendorError extracts HubSpot's error message from a non-2xx response,
// falling back to the raw body.
func vendorError(resp *http.Response) string {
	body, _ := io.ReadAll(resp.Body)

	var vendor errorResponse
	if err := json.Unmarshal(body, &vendor); err == nil && vendor.Message != "" {
		return vendor.Message
	}
	return fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body))
}

func failedResult(err error) domain.SyncResult {
	return domain.SyncResult{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
