package domain

import "time"

// Sync status values for a single (entity, integration) pair. A later attempt
// overwrites the previous status; the history is not kept.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusFailed  = "failed"
)

// SyncState is the per-integration sync bookkeeping stored on a syncable
// entity, keyed by integration name under the entity's "sync" field.
type SyncState struct {
	Status       string     `json:"status" bson:"status"`
	ExternalID   string     `json:"external_id,omitempty" bson:"external_id,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty" bson:"last_synced_at,omitempty"`
	LastError    string     `json:"last_error,omitempty" bson:"last_error,omitempty"`
}

// SyncResult is the outcome of one integration's attempt to sync one entity.
// It is produced once per attempt and never persisted as its own record; only
// its projection is written back onto the entity as a SyncState.
type SyncResult struct {
	Integration string    `json:"integration"`
	Success     bool      `json:"success"`
	ExternalID  string    `json:"externalId"`
	ExternalURL string    `json:"externalUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Error       string    `json:"error,omitempty"`
}

// IntegrationEvent is the internal shape of an inbound webhook event from an
// external CRM.
type IntegrationEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// IntegrationStatus is a point-in-time connection snapshot for one integration.
type IntegrationStatus struct {
	Connected bool       `json:"connected"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// IntegrationStatusEntry pairs an integration name with its status snapshot.
type IntegrationStatusEntry struct {
	Integration string     `json:"integration"`
	Connected   bool       `json:"connected"`
	LastSync    *time.Time `json:"lastSync,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// ConnectionTest is the result of testing a single named integration.
type ConnectionTest struct {
	Integration string    `json:"integration"`
	Connected   bool      `json:"connected"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
