package ports

import (
	"context"

	"dawah-crm/internal/domain"
)

// CRMIntegration is the capability set every external CRM adapter implements.
// The sync orchestrator is polymorphic over this interface and never branches
// on vendor identity except to select an adapter instance by name.
//
// Sync methods report failure through the SyncResult's Error field and must
// not fail any other way; the orchestrator still guards each call against
// panics. Read-through fetches return nil when the record is absent or the
// transport fails, logging the cause instead of surfacing it.
type CRMIntegration interface {
	// TestConnection performs a cheap read-only call against the external
	// system. Network and auth failures degrade to false.
	TestConnection(ctx context.Context) bool

	SyncContact(ctx context.Context, contact *domain.Contact) domain.SyncResult
	SyncPledge(ctx context.Context, pledge *domain.Pledge) domain.SyncResult
	SyncActivity(ctx context.Context, activity *domain.Activity) domain.SyncResult

	GetContact(ctx context.Context, externalID string) map[string]any
	GetPledge(ctx context.Context, externalID string) map[string]any

	// HandleWebhook dispatches an inbound event by type. Unrecognized types
	// are logged and dropped; this is an open extension point.
	HandleWebhook(ctx context.Context, event domain.IntegrationEvent) error

	// GetStatus composes TestConnection into a status snapshot.
	GetStatus(ctx context.Context) domain.IntegrationStatus
}
