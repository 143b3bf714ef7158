package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/infrastructure/metrics"
)

// mockContactStore implements ports.ContactStore over an in-memory map.
type mockContactStore struct {
	contacts     map[string]*domain.Contact
	syncStates   map[string]map[string]domain.SyncState
	syncStateErr error
}

func newMockContactStore(contacts ...*domain.Contact) *mockContactStore {
	store := &mockContactStore{
		contacts:   make(map[string]*domain.Contact),
		syncStates: make(map[string]map[string]domain.SyncState),
	}
	for _, c := range contacts {
		store.contacts[c.ID] = c
	}
	return store
}

func (m *mockContactStore) List(_ context.Context, _, _ int64) ([]*domain.Contact, error) {
	return nil, nil
}

func (m *mockContactStore) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	return m.contacts[id], nil
}

func (m *mockContactStore) Create(_ context.Context, c *domain.Contact) error {
	m.contacts[c.ID] = c
	return nil
}

func (m *mockContactStore) Update(_ context.Context, id string, _ map[string]any) (*domain.Contact, error) {
	return m.contacts[id], nil
}

func (m *mockContactStore) Delete(_ context.Context, _ string) error { return nil }

func (m *mockContactStore) Search(_ context.Context, _ string) ([]*domain.Contact, error) {
	return nil, nil
}

func (m *mockContactStore) SetSyncState(_ context.Context, id, integration string, state domain.SyncState) error {
	if m.syncStateErr != nil {
		return m.syncStateErr
	}
	if m.syncStates[id] == nil {
		m.syncStates[id] = make(map[string]domain.SyncState)
	}
	m.syncStates[id][integration] = state
	return nil
}

// mockPledgeStore implements ports.PledgeStore.
type mockPledgeStore struct {
	pledges    map[string]*domain.Pledge
	syncStates map[string]map[string]domain.SyncState
}

func newMockPledgeStore(pledges ...*domain.Pledge) *mockPledgeStore {
	store := &mockPledgeStore{
		pledges:    make(map[string]*domain.Pledge),
		syncStates: make(map[string]map[string]domain.SyncState),
	}
	for _, p := range pledges {
		store.pledges[p.ID] = p
	}
	return store
}

func (m *mockPledgeStore) List(_ context.Context, _, _ int64) ([]*domain.Pledge, error) {
	return nil, nil
}

func (m *mockPledgeStore) ListByContact(_ context.Context, _ string, _ int64) ([]*domain.Pledge, error) {
	return nil, nil
}

func (m *mockPledgeStore) GetByID(_ context.Context, id string) (*domain.Pledge, error) {
	return m.pledges[id], nil
}

func (m *mockPledgeStore) Create(_ context.Context, p *domain.Pledge) error {
	m.pledges[p.ID] = p
	return nil
}

func (m *mockPledgeStore) Update(_ context.Context, id string, _ map[string]any) (*domain.Pledge, error) {
	return m.pledges[id], nil
}

func (m *mockPledgeStore) Delete(_ context.Context, _ string) error { return nil }

func (m *mockPledgeStore) SetSyncState(_ context.Context, id, integration string, state domain.SyncState) error {
	if m.syncStates[id] == nil {
		m.syncStates[id] = make(map[string]domain.SyncState)
	}
	m.syncStates[id][integration] = state
	return nil
}

// mockActivityStore implements ports.ActivityStore.
type mockActivityStore struct {
	activities map[string]*domain.Activity
	syncStates map[string]map[string]domain.SyncState
}

func newMockActivityStore(activities ...*domain.Activity) *mockActivityStore {
	store := &mockActivityStore{
		activities: make(map[string]*domain.Activity),
		syncStates: make(map[string]map[string]domain.SyncState),
	}
	for _, a := range activities {
		store.activities[a.ID] = a
	}
	return store
}

func (m *mockActivityStore) ListByContact(_ context.Context, _ string, _ int64) ([]*domain.Activity, error) {
	return nil, nil
}

func (m *mockActivityStore) GetByID(_ context.Context, id string) (*domain.Activity, error) {
	return m.activities[id], nil
}

func (m *mockActivityStore) Create(_ context.Context, a *domain.Activity) error {
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityStore) Update(_ context.Context, id string, _ map[string]any) (*domain.Activity, error) {
	return m.activities[id], nil
}

func (m *mockActivityStore) Delete(_ context.Context, _ string) error { return nil }

func (m *mockActivityStore) SetSyncState(_ context.Context, id, integration string, state domain.SyncState) error {
	if m.syncStates[id] == nil {
		m.syncStates[id] = make(map[string]domain.SyncState)
	}
	m.syncStates[id][integration] = state
	return nil
}

// mockIntegration implements ports.CRMIntegration with scripted outcomes.
type mockIntegration struct {
	result      domain.SyncResult
	panicWith   string
	statusPanic bool
	connected   bool
	calls       int
}

func (m *mockIntegration) TestConnection(_ context.Context) bool { return m.connected }

func (m *mockIntegration) SyncContact(_ context.Context, _ *domain.Contact) domain.SyncResult {
	return m.sync()
}

func (m *mockIntegration) SyncPledge(_ context.Context, _ *domain.Pledge) domain.SyncResult {
	return m.sync()
}

func (m *mockIntegration) SyncActivity(_ context.Context, _ *domain.Activity) domain.SyncResult {
	return m.sync()
}

func (m *mockIntegration) sync() domain.SyncResult {
	m.calls++
	if m.panicWith != "" {
		panic(m.panicWith)
	}
	return m.result
}

func (m *mockIntegration) GetContact(_ context.Context, _ string) map[string]any { return nil }

func (m *mockIntegration) GetPledge(_ context.Context, _ string) map[string]any { return nil }

func (m *mockIntegration) HandleWebhook(_ context.Context, _ domain.IntegrationEvent) error {
	return nil
}

func (m *mockIntegration) GetStatus(_ context.Context) domain.IntegrationStatus {
	if m.statusPanic {
		panic("status blew up")
	}
	return domain.IntegrationStatus{Connected: m.connected}
}

func newTestSyncService(
	contacts *mockContactStore,
	pledges *mockPledgeStore,
	activities *mockActivityStore,
) *SyncService {
	return NewSyncService(contacts, pledges, activities, metrics.New(), zerolog.Nop())
}

func testContact() *domain.Contact {
	return &domain.Contact{
		ID:         "c1",
		FirstName:  "Amina",
		LastName:   "Yusuf",
		LeadStatus: domain.LeadStatusProspect,
	}
}

func TestSyncContactSuccess(t *testing.T) {
	t.Parallel()

	contacts := newMockContactStore(testContact())
	svc := newTestSyncService(contacts, newMockPledgeStore(), newMockActivityStore())
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{
		Success:    true,
		ExternalID: "ext-123",
	}})

	results, err := svc.SyncContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "mock", results[0].Integration)
	require.True(t, results[0].Success)
	require.Equal(t, "ext-123", results[0].ExternalID)
	require.False(t, results[0].Timestamp.IsZero())

	state := contacts.syncStates["c1"]["mock"]
	require.Equal(t, domain.SyncStatusSynced, state.Status)
	require.Equal(t, "ext-123", state.ExternalID)
	require.NotNil(t, state.LastSyncedAt)
	require.Empty(t, state.LastError)
}

func TestSyncContactFailure(t *testing.T) {
	t.Parallel()

	contacts := newMockContactStore(testContact())
	svc := newTestSyncService(contacts, newMockPledgeStore(), newMockActivityStore())
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{
		Success: false,
		Error:   "rate limited",
	}})

	results, err := svc.SyncContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Success)
	require.Equal(t, "rate limited", results[0].Error)
	require.Empty(t, results[0].ExternalID)

	state := contacts.syncStates["c1"]["mock"]
	require.Equal(t, domain.SyncStatusFailed, state.Status)
	require.Equal(t, "rate limited", state.LastError)
	require.Empty(t, state.ExternalID)
}

func TestSyncContactNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestSyncService(newMockContactStore(), newMockPledgeStore(), newMockActivityStore())
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{Success: true}})

	results, err := svc.SyncContact(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Nil(t, results)
}

func TestSyncContactPanicIsolation(t *testing.T) {
	t.Parallel()

	contacts := newMockContactStore(testContact())
	svc := newTestSyncService(contacts, newMockPledgeStore(), newMockActivityStore())

	healthy := &mockIntegration{result: domain.SyncResult{Success: true, ExternalID: "ok-1"}}
	broken := &mockIntegration{panicWith: "connection reset"}
	svc.Register("broken", broken)
	svc.Register("healthy", healthy)

	results, err := svc.SyncContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "broken", results[0].Integration)
	require.False(t, results[0].Success)
	require.Equal(t, "connection reset", results[0].Error)

	require.Equal(t, "healthy", results[1].Integration)
	require.True(t, results[1].Success)
	require.Equal(t, 1, healthy.calls)

	require.Equal(t, domain.SyncStatusFailed, contacts.syncStates["c1"]["broken"].Status)
	require.Equal(t, domain.SyncStatusSynced, contacts.syncStates["c1"]["healthy"].Status)
}

func TestSyncContactResultsFollowRegistrationOrder(t *testing.T) {
	t.Parallel()

	contacts := newMockContactStore(testContact())
	svc := newTestSyncService(contacts, newMockPledgeStore(), newMockActivityStore())

	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		svc.Register(name, &mockIntegration{result: domain.SyncResult{Success: true, ExternalID: name}})
	}

	results, err := svc.SyncContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, results, len(names))
	for i, name := range names {
		require.Equal(t, name, results[i].Integration)
	}
}

func TestSyncContactStateWriteFailureKeepsResult(t *testing.T) {
	t.Parallel()

	contacts := newMockContactStore(testContact())
	contacts.syncStateErr = errors.New("write timeout")
	svc := newTestSyncService(contacts, newMockPledgeStore(), newMockActivityStore())
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{Success: true, ExternalID: "ext-9"}})

	results, err := svc.SyncContact(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	require.Equal(t, "ext-9", results[0].ExternalID)
}

func TestSyncPledge(t *testing.T) {
	t.Parallel()

	pledges := newMockPledgeStore(&domain.Pledge{
		ID:        "p1",
		ContactID: "c1",
		Amount:    50,
		Type:      domain.PledgeTypeDonation,
		Status:    domain.PledgeStatusReceived,
	})
	svc := newTestSyncService(newMockContactStore(), pledges, newMockActivityStore())
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{Success: true, ExternalID: "deal-1"}})

	results, err := svc.SyncPledge(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	require.Equal(t, "deal-1", pledges.syncStates["p1"]["mock"].ExternalID)
}

func TestSyncPledgeIdempotentOutcome(t *testing.T) {
	t.Parallel()

	pledges := newMockPledgeStore(&domain.Pledge{ID: "p1", Amount: 10, Status: domain.PledgeStatusPending})
	svc := newTestSyncService(newMockContactStore(), pledges, newMockActivityStore())
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{Success: true, ExternalID: "deal-7"}})

	first, err := svc.SyncPledge(context.Background(), "p1")
	require.NoError(t, err)
	second, err := svc.SyncPledge(context.Background(), "p1")
	require.NoError(t, err)

	require.Equal(t, first[0].Success, second[0].Success)
}

func TestSyncActivity(t *testing.T) {
	t.Parallel()

	activities := newMockActivityStore(&domain.Activity{
		ID:        "a1",
		ContactID: "c1",
		Type:      domain.ActivityTypeCall,
		Title:     "Intro call",
		Date:      time.Now(),
	})
	svc := newTestSyncService(newMockContactStore(), newMockPledgeStore(), activities)
	svc.Register("mock", &mockIntegration{result: domain.SyncResult{Success: true, ExternalID: "task-1"}})

	results, err := svc.SyncActivity(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, domain.SyncStatusSynced, activities.syncStates["a1"]["mock"].Status)
}

func TestIntegrationStatuses(t *testing.T) {
	t.Parallel()

	svc := newTestSyncService(newMockContactStore(), newMockPledgeStore(), newMockActivityStore())
	svc.Register("up", &mockIntegration{connected: true})
	svc.Register("angry", &mockIntegration{statusPanic: true})
	svc.Register("down", &mockIntegration{connected: false})

	entries := svc.IntegrationStatuses(context.Background())
	require.Len(t, entries, 3)

	require.Equal(t, "up", entries[0].Integration)
	require.True(t, entries[0].Connected)

	require.Equal(t, "angry", entries[1].Integration)
	require.False(t, entries[1].Connected)
	require.Equal(t, "status blew up", entries[1].Error)

	require.Equal(t, "down", entries[2].Integration)
	require.False(t, entries[2].Connected)
}

func TestTestIntegration(t *testing.T) {
	t.Parallel()

	svc := newTestSyncService(newMockContactStore(), newMockPledgeStore(), newMockActivityStore())
	svc.Register("mock", &mockIntegration{connected: true})

	test, err := svc.TestIntegration(context.Background(), "mock")
	require.NoError(t, err)
	require.True(t, test.Connected)
	require.Equal(t, "mock", test.Integration)
	require.False(t, test.Timestamp.IsZero())

	_, err = svc.TestIntegration(context.Background(), "salesforce")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsAvailable(t *testing.T) {
	t.Parallel()

	svc := newTestSyncService(newMockContactStore(), newMockPledgeStore(), newMockActivityStore())
	require.False(t, svc.IsAvailable("mock"))

	svc.Register("mock", &mockIntegration{})
	require.True(t, svc.IsAvailable("mock"))
	require.NotNil(t, svc.Integration("mock"))
	require.Nil(t, svc.Integration("other"))
}
