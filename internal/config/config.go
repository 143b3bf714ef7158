// Package config reads process configuration from the environment once at
// startup. Integration descriptors are read-only for the lifetime of the
// process; there is no hot-reload.
package config

import (
	"os"
	"strconv"
	"time"
)

// Sync modes declared per integration. These are policy hooks consulted by
// entity-creation handlers, never by the sync orchestrator itself.
const (
	SyncModeRealTime = "real-time"
	SyncModeBatch    = "batch"
	SyncModeManual   = "manual"
)

// AutoSync holds the per-entity-type sync-on-create flags for an integration.
type AutoSync struct {
	Contacts   bool
	Pledges    bool
	Activities bool
}

// Integration describes one external CRM integration.
type Integration struct {
	Enabled  bool
	APIKey   string
	SyncMode string
	AutoSync AutoSync
}

// Config is the full process configuration.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	ClientURL     string
	AuthTokenTTL  time.Duration

	HubSpot Integration
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Port:          envOr("PORT", "8080"),
		MongoURI:      envOr("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: envOr("MONGODB_DATABASE", "dawah_crm"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		ClientURL:     envOr("CLIENT_URL", "http://localhost:5173"),
		AuthTokenTTL:  envDuration("AUTH_TOKEN_TTL", 7*24*time.Hour),
		HubSpot: Integration{
			Enabled:  envBool("HUBSPOT_ENABLED"),
			APIKey:   os.Getenv("HUBSPOT_API_KEY"),
			SyncMode: syncMode(os.Getenv("HUBSPOT_SYNC_MODE")),
			AutoSync: AutoSync{
				Contacts:   envBool("HUBSPOT_AUTO_SYNC_CONTACTS"),
				Pledges:    envBool("HUBSPOT_AUTO_SYNC_PLEDGES"),
				Activities: envBool("HUBSPOT_AUTO_SYNC_ACTIVITIES"),
			},
		},
	}
}

// Integrations returns all configured integration descriptors keyed by name.
func (c *Config) Integrations() map[string]Integration {
	return map[string]Integration{
		"hubspot": c.HubSpot,
	}
}

// SyncOnCreate aggregates the auto-sync flags of every enabled real-time
// integration. Entity-creation handlers consult this to decide whether to
// trigger a sync immediately after a create.
func (c *Config) SyncOnCreate() AutoSync {
	var agg AutoSync
	for _, integration := range c.Integrations() {
		if !integration.Enabled || integration.SyncMode != SyncModeRealTime {
			continue
		}
		agg.Contacts = agg.Contacts || integration.AutoSync.Contacts
		agg.Pledges = agg.Pledges || integration.AutoSync.Pledges
		agg.Activities = agg.Activities || integration.AutoSync.Activities
	}
	return agg
}

func syncMode(v string) string {
	switch v {
	case SyncModeRealTime, SyncModeBatch, SyncModeManual:
		return v
	default:
		return SyncModeManual
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	return os.Getenv(key) == "true"
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(v); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return fallback
}
