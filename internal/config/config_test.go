package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MONGODB_URI", "MONGODB_DATABASE", "REDIS_ADDR", "CLIENT_URL",
		"AUTH_TOKEN_TTL", "HUBSPOT_ENABLED", "HUBSPOT_API_KEY", "HUBSPOT_SYNC_MODE",
		"HUBSPOT_AUTO_SYNC_CONTACTS", "HUBSPOT_AUTO_SYNC_PLEDGES", "HUBSPOT_AUTO_SYNC_ACTIVITIES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	require.Equal(t, "dawah_crm", cfg.MongoDatabase)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 7*24*time.Hour, cfg.AuthTokenTTL)
	require.False(t, cfg.HubSpot.Enabled)
	require.Equal(t, SyncModeManual, cfg.HubSpot.SyncMode)
}

func TestLoadHubSpot(t *testing.T) {
	t.Setenv("HUBSPOT_ENABLED", "true")
	t.Setenv("HUBSPOT_API_KEY", "pat-na1-test")
	t.Setenv("HUBSPOT_SYNC_MODE", "real-time")
	t.Setenv("HUBSPOT_AUTO_SYNC_CONTACTS", "true")
	t.Setenv("HUBSPOT_AUTO_SYNC_PLEDGES", "false")
	t.Setenv("HUBSPOT_AUTO_SYNC_ACTIVITIES", "true")

	cfg := Load()

	require.True(t, cfg.HubSpot.Enabled)
	require.Equal(t, "pat-na1-test", cfg.HubSpot.APIKey)
	require.Equal(t, SyncModeRealTime, cfg.HubSpot.SyncMode)
	require.True(t, cfg.HubSpot.AutoSync.Contacts)
	require.False(t, cfg.HubSpot.AutoSync.Pledges)
	require.True(t, cfg.HubSpot.AutoSync.Activities)

	integrations := cfg.Integrations()
	require.Contains(t, integrations, "hubspot")
	require.True(t, integrations["hubspot"].Enabled)
}

func TestSyncOnCreate(t *testing.T) {
	t.Setenv("HUBSPOT_ENABLED", "true")
	t.Setenv("HUBSPOT_SYNC_MODE", "real-time")
	t.Setenv("HUBSPOT_AUTO_SYNC_CONTACTS", "true")
	t.Setenv("HUBSPOT_AUTO_SYNC_PLEDGES", "false")
	t.Setenv("HUBSPOT_AUTO_SYNC_ACTIVITIES", "")

	agg := Load().SyncOnCreate()
	require.True(t, agg.Contacts)
	require.False(t, agg.Pledges)
	require.False(t, agg.Activities)

	// Manual mode suppresses auto sync regardless of the per-entity flags.
	t.Setenv("HUBSPOT_SYNC_MODE", "manual")
	agg = Load().SyncOnCreate()
	require.False(t, agg.Contacts)
}

func TestSyncModeFallsBackToManual(t *testing.T) {
	t.Setenv("HUBSPOT_SYNC_MODE", "continuous")

	cfg := Load()

	require.Equal(t, SyncModeManual, cfg.HubSpot.SyncMode)
}

func TestAuthTokenTTL(t *testing.T) {
	tests := map[string]struct {
		value string
		want  time.Duration
	}{
		"duration string": {value: "24h", want: 24 * time.Hour},
		"plain hours":     {value: "48", want: 48 * time.Hour},
		"garbage":         {value: "soon", want: 7 * 24 * time.Hour},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("AUTH_TOKEN_TTL", tc.value)
			require.Equal(t, tc.want, Load().AuthTokenTTL)
		})
	}
}
