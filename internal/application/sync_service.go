package application

import (
	"context"
	"fmt"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/infrastructure/metrics"
	"dawah-crm/internal/ports"

	"github.com/rs/zerolog"
)

// SyncService owns the set of enabled CRM integrations and fans local
// entities out to every one of them. Adapters are registered once at startup
// and never added or removed at runtime; fan-out is sequential in
// registration order and each adapter call is isolated so one failing
// integration cannot abort the others.
type SyncService struct {
	names        []string
	integrations map[string]ports.CRMIntegration
	contacts     ports.ContactStore
	pledges      ports.PledgeStore
	activities   ports.ActivityStore
	metrics      *metrics.SyncMetrics
	logger       zerolog.Logger
}

// NewSyncService creates the sync orchestrator. Integrations are added
// afterwards via Register, one per enabled configuration entry.
func NewSyncService(
	contacts ports.ContactStore,
	pledges ports.PledgeStore,
	activities ports.ActivityStore,
	syncMetrics *metrics.SyncMetrics,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		integrations: make(map[string]ports.CRMIntegration),
		contacts:     contacts,
		pledges:      pledges,
		activities:   activities,
		metrics:      syncMetrics,
		logger:       logger,
	}
}

// Register adds an integration under its name. Re-registering a name
// replaces the adapter but keeps its original position in the fan-out order.
func (s *SyncService) Register(name string, integration ports.CRMIntegration) {
	if _, exists := s.integrations[name]; !exists {
		s.names = append(s.names, name)
	}
	s.integrations[name] = integration
	s.logger.Info().Str("integration", name).Msg("Integration registered")
}

// Integration returns the named adapter, or nil when it is not registered.
func (s *SyncService) Integration(name string) ports.CRMIntegration {
	return s.integrations[name]
}

// IsAvailable reports whether the named integration is registered.
func (s *SyncService) IsAvailable(name string) bool {
	_, ok := s.integrations[name]
	return ok
}

// Names returns the registered integration names in fan-out order.
func (s *SyncService) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// SyncContact pushes a contact to every registered integration and records
// the per-integration outcome on the contact. The returned slice holds one
// result per integration, in registration order.
func (s *SyncService) SyncContact(ctx context.Context, contactID string) ([]domain.SyncResult, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("loading contact %s: %w", contactID, err)
	}
	if contact == nil {
		return nil, fmt.Errorf("contact %s: %w", contactID, domain.ErrNotFound)
	}

	results := make([]domain.SyncResult, 0, len(s.names))
	for _, name := range s.names {
		integration := s.integrations[name]
		result := s.invoke(ctx, name, "contact", func(ctx context.Context) domain.SyncResult {
			return integration.SyncContact(ctx, contact)
		})
		s.persistSyncState(ctx, "contact", contactID, name, result, s.contacts.SetSyncState)
		results = append(results, result)
	}
	return results, nil
}

// SyncPledge pushes a pledge to every registered integration.
func (s *SyncService) SyncPledge(ctx context.Context, pledgeID string) ([]domain.SyncResult, error) {
	pledge, err := s.pledges.GetByID(ctx, pledgeID)
	if err != nil {
		return nil, fmt.Errorf("loading pledge %s: %w", pledgeID, err)
	}
	if pledge == nil {
		return nil, fmt.Errorf("pledge %s: %w", pledgeID, domain.ErrNotFound)
	}

	results := make([]domain.SyncResult, 0, len(s.names))
	for _, name := range s.names {
		integration := s.integrations[name]
		result := s.invoke(ctx, name, "pledge", func(ctx context.Context) domain.SyncResult {
			return integration.SyncPledge(ctx, pledge)
		})
		s.persistSyncState(ctx, "pledge", pledgeID, name, result, s.pledges.SetSyncState)
		results = append(results, result)
	}
	return results, nil
}

// SyncActivity pushes an activity to every registered integration.
func (s *SyncService) SyncActivity(ctx context.Context, activityID string) ([]domain.SyncResult, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("loading activity %s: %w", activityID, err)
	}
	if activity == nil {
		return nil, fmt.Errorf("activity %s: %w", activityID, domain.ErrNotFound)
	}

	results := make([]domain.SyncResult, 0, len(s.names))
	for _, name := range s.names {
		integration := s.integrations[name]
		result := s.invoke(ctx, name, "activity", func(ctx context.Context) domain.SyncResult {
			return integration.SyncActivity(ctx, activity)
		})
		s.persistSyncState(ctx, "activity", activityID, name, result, s.activities.SetSyncState)
		results = append(results, result)
	}
	return results, nil
}

// IntegrationStatuses returns a status snapshot for every registered
// integration. A misbehaving adapter yields a disconnected entry instead of
// aborting the whole call.
func (s *SyncService) IntegrationStatuses(ctx context.Context) []domain.IntegrationStatusEntry {
	entries := make([]domain.IntegrationStatusEntry, 0, len(s.names))
	for _, name := range s.names {
		status := s.safeStatus(ctx, name, s.integrations[name])
		entries = append(entries, domain.IntegrationStatusEntry{
			Integration: name,
			Connected:   status.Connected,
			LastSync:    status.LastSync,
			Error:       status.Error,
		})
	}
	return entries
}

// TestIntegration tests the named integration's connection. Returns
// domain.ErrNotFound when the integration is unknown or disabled.
func (s *SyncService) TestIntegration(ctx context.Context, name string) (*domain.ConnectionTest, error) {
	integration, ok := s.integrations[name]
	if !ok {
		return nil, fmt.Errorf("integration %s: %w", name, domain.ErrNotFound)
	}

	test := &domain.ConnectionTest{Integration: name, Timestamp: time.Now().UTC()}
	func() {
		defer func() {
			if r := recover(); r != nil {
				test.Connected = false
				test.Error = fmt.Sprintf("%v", r)
			}
		}()
		test.Connected = integration.TestConnection(ctx)
	}()
	return test, nil
}

// invoke runs one adapter sync call, stamping the result with the
// integration name, converting panics into failed results and recording
// metrics for the attempt.
func (s *SyncService) invoke(
	ctx context.Context,
	name, entity string,
	call func(context.Context) domain.SyncResult,
) (result domain.SyncResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("integration", name).
				Str("entity", entity).
				Interface("panic", r).
				Msg("Integration panicked during sync")
			result = domain.SyncResult{
				Integration: name,
				Success:     false,
				Error:       fmt.Sprintf("%v", r),
				Timestamp:   time.Now().UTC(),
			}
		}
		s.metrics.ObserveSync(name, entity, result.Success, time.Since(start))
	}()

	result = call(ctx)
	result.Integration = name
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now().UTC()
	}
	return result
}

// persistSyncState writes the result projection back onto the entity. The
// write is best-effort: a failure is logged and does not change the result
// already computed.
func (s *SyncService) persistSyncState(
	ctx context.Context,
	entity, id, name string,
	result domain.SyncResult,
	write func(ctx context.Context, id, integration string, state domain.SyncState) error,
) {
	state := domain.SyncState{
		Status:       domain.SyncStatusSynced,
		ExternalID:   result.ExternalID,
		LastSyncedAt: &result.Timestamp,
	}
	if !result.Success {
		state = domain.SyncState{
			Status:    domain.SyncStatusFailed,
			LastError: result.Error,
		}
	}

	if err := write(ctx, id, name, state); err != nil {
		s.logger.Error().
			Err(err).
			Str("integration", name).
			Str("entity", entity).
			Str("id", id).
			Msg("Failed to persist sync state")
	}
}

// safeStatus calls GetStatus with panic isolation.
func (s *SyncService) safeStatus(ctx context.Context, name string, integration ports.CRMIntegration) (status domain.IntegrationStatus) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("integration", name).
				Interface("panic", r).
				Msg("Integration panicked during status check")
			status = domain.IntegrationStatus{Connected: false, Error: fmt.Sprintf("%v", r)}
		}
	}()
	return integration.GetStatus(ctx)
}
