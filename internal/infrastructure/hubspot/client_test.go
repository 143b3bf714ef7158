package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dawah-crm/internal/domain"
)

// capturedRequest records what the fake HubSpot server received.
type capturedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// newFakeHubSpot starts an httptest server that responds with the given
// status and body, capturing each request.
func newFakeHubSpot(t *testing.T, status int, response any) (*Integration, *[]capturedRequest) {
	t.Helper()

	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	integration, err := New("test-key", zerolog.Nop(), WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return integration, &captured
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New("", zerolog.Nop())
	require.Error(t, err)
}

func TestSyncContact(t *testing.T) {
	t.Parallel()

	integration, captured := newFakeHubSpot(t, http.StatusCreated, objectResponse{ID: "ext-123"})

	result := integration.SyncContact(context.Background(), &domain.Contact{
		ID:         "c1",
		FirstName:  "Amina",
		LastName:   "Yusuf",
		Email:      "amina@example.org",
		Phone:      "+441234567890",
		Company:    "Al-Falah Trust",
		LeadStatus: domain.LeadStatusProspect,
	})

	require.True(t, result.Success)
	require.Equal(t, "ext-123", result.ExternalID)
	require.Equal(t, "https://app.hubspot.com/contacts/default/contact/ext-123", result.ExternalURL)
	require.Empty(t, result.Error)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/crm/v3/objects/contacts", req.path)
	require.Equal(t, "Bearer test-key", req.auth)

	properties := req.body["properties"].(map[string]any)
	require.Equal(t, "Amina", properties["firstname"])
	require.Equal(t, "Yusuf", properties["lastname"])
	require.Equal(t, "amina@example.org", properties["email"])
	require.Equal(t, "+441234567890", properties["phone"])
	require.Equal(t, "Al-Falah Trust", properties["company"])
	require.Equal(t, "salesqualifiedlead", properties["lifecyclestage"])
}

func TestSyncContactVendorFailure(t *testing.T) {
	t.Parallel()

	integration, _ := newFakeHubSpot(t, http.StatusTooManyRequests, errorResponse{Message: "rate limited"})

	result := integration.SyncContact(context.Background(), &domain.Contact{
		ID:        "c1",
		FirstName: "Amina",
		LastName:  "Yusuf",
	})

	require.False(t, result.Success)
	require.Equal(t, "rate limited", result.Error)
	require.Empty(t, result.ExternalID)
}

func TestSyncPledge(t *testing.T) {
	t.Parallel()

	integration, captured := newFakeHubSpot(t, http.StatusCreated, objectResponse{ID: "deal-9"})

	expected := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	result := integration.SyncPledge(context.Background(), &domain.Pledge{
		ID:           "p1",
		ContactID:    "c1",
		Amount:       50,
		Type:         domain.PledgeTypeDonation,
		Status:       domain.PledgeStatusReceived,
		ExpectedDate: &expected,
		Notes:        "Ramadan appeal",
	})

	require.True(t, result.Success)
	require.Equal(t, "deal-9", result.ExternalID)
	require.Equal(t, "https://app.hubspot.com/deals/default/deal/deal-9", result.ExternalURL)

	req := (*captured)[0]
	require.Equal(t, "/crm/v3/objects/deals", req.path)

	properties := req.body["properties"].(map[string]any)
	// HubSpot expects the amount in integer cents.
	require.Equal(t, float64(5000), properties["amount"])
	require.Equal(t, "closedwon", properties["dealstage"])
	require.Equal(t, "donation", properties["dealtype"])
	require.Equal(t, "Donation - $50", properties["dealname"])
	require.Equal(t, "2026-09-15", properties["closedate"])
	require.Equal(t, "donation", properties["custom_pledge_type"])
	require.Equal(t, "received", properties["custom_pledge_status"])

	associations := req.body["associations"].([]any)
	require.Len(t, associations, 1)
	assoc := associations[0].(map[string]any)
	require.Equal(t, "deal_to_contact", assoc["type"])
	require.Equal(t, "c1", assoc["id"])
}

func TestSyncPledgeWithoutContactOmitsAssociation(t *testing.T) {
	t.Parallel()

	integration, captured := newFakeHubSpot(t, http.StatusCreated, objectResponse{ID: "deal-10"})

	result := integration.SyncPledge(context.Background(), &domain.Pledge{
		ID:     "p2",
		Amount: 25,
		Type:   domain.PledgeTypeZakat,
		Status: domain.PledgeStatusPending,
	})

	require.True(t, result.Success)
	require.NotContains(t, (*captured)[0].body, "associations")

	properties := (*captured)[0].body["properties"].(map[string]any)
	require.Equal(t, "qualifiedtobuy", properties["dealstage"])
	require.Equal(t, float64(2500), properties["amount"])
}

func TestSyncActivity(t *testing.T) {
	t.Parallel()

	integration, captured := newFakeHubSpot(t, http.StatusCreated, objectResponse{ID: "task-3"})

	date := time.Date(2026, 8, 1, 14, 30, 0, 0, time.UTC)
	result := integration.SyncActivity(context.Background(), &domain.Activity{
		ID:          "a1",
		ContactID:   "c1",
		Type:        domain.ActivityTypeMeeting,
		Title:       "Site visit",
		Description: "Walkthrough of the new community centre",
		Date:        date,
	})

	require.True(t, result.Success)
	require.Equal(t, "task-3", result.ExternalID)

	req := (*captured)[0]
	require.Equal(t, "/crm/v3/objects/tasks", req.path)

	properties := req.body["properties"].(map[string]any)
	require.Equal(t, "MEETING", properties["hs_task_type"])
	require.Equal(t, "Site visit", properties["hs_task_subject"])
	require.Equal(t, "CONTACT", properties["hs_task_for_object_type"])
	require.Equal(t, "2026-08-01T14:30:00Z", properties["hs_timestamp"])
}

func TestTestConnection(t *testing.T) {
	t.Parallel()

	up, _ := newFakeHubSpot(t, http.StatusOK, map[string]any{"results": []any{}})
	require.True(t, up.TestConnection(context.Background()))

	down, _ := newFakeHubSpot(t, http.StatusUnauthorized, errorResponse{Message: "bad token"})
	require.False(t, down.TestConnection(context.Background()))
}

func TestGetContact(t *testing.T) {
	t.Parallel()

	found, _ := newFakeHubSpot(t, http.StatusOK, map[string]any{
		"id":         "ext-123",
		"properties": map[string]any{"firstname": "Amina"},
	})
	object := found.GetContact(context.Background(), "ext-123")
	require.NotNil(t, object)
	require.Equal(t, "ext-123", object["id"])

	missing, _ := newFakeHubSpot(t, http.StatusNotFound, errorResponse{Message: "not found"})
	require.Nil(t, missing.GetContact(context.Background(), "nope"))
	require.Nil(t, missing.GetPledge(context.Background(), "nope"))
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	integration, _ := newFakeHubSpot(t, http.StatusOK, map[string]any{"results": []any{}})

	status := integration.GetStatus(context.Background())
	require.True(t, status.Connected)
	require.NotNil(t, status.LastSync)
}

func TestHandleWebhookUnknownTypeIsDropped(t *testing.T) {
	t.Parallel()

	integration, _ := newFakeHubSpot(t, http.StatusOK, nil)

	err := integration.HandleWebhook(context.Background(), domain.IntegrationEvent{
		ID:        "evt-1",
		Type:      "company.merged",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
}

func TestVocabularyMaps(t *testing.T) {
	t.Parallel()

	require.Equal(t, "lead", mapLeadStatus("lead"))
	require.Equal(t, "salesqualifiedlead", mapLeadStatus("prospect"))
	require.Equal(t, "customer", mapLeadStatus("customer"))
	require.Equal(t, "customer", mapLeadStatus("past_customer"))
	require.Equal(t, "lead", mapLeadStatus("vip"))
	require.Equal(t, "lead", mapLeadStatus(""))

	require.Equal(t, "qualifiedtobuy", mapPledgeStatus("pending"))
	require.Equal(t, "closedwon", mapPledgeStatus("received"))
	require.Equal(t, "closedlost", mapPledgeStatus("failed"))
	require.Equal(t, "qualifiedtobuy", mapPledgeStatus("maybe"))

	require.Equal(t, "CALL", mapActivityType("call"))
	require.Equal(t, "EMAIL", mapActivityType("email"))
	require.Equal(t, "MEETING", mapActivityType("meeting"))
	require.Equal(t, "NOTE", mapActivityType("note"))
	require.Equal(t, "NOTE", mapActivityType("fax"))
}
