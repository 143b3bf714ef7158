// Package cache holds Redis-backed helpers for short-lived coordination state.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventDeduper suppresses replayed webhook deliveries. Vendors redeliver
// events on slow acknowledgements, so each event id is claimed with a TTL
// and duplicates inside the window are dropped.
type EventDeduper struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewEventDeduper creates a deduper with the given claim window.
func NewEventDeduper(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *EventDeduper {
	return &EventDeduper{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Seen claims the event id for this integration. It returns true when the id
// was already claimed inside the TTL window. When Redis is unreachable the
// event is treated as unseen; processing an event twice beats losing it.
func (d *EventDeduper) Seen(ctx context.Context, integration, eventID string) bool {
	if eventID == "" {
		return false
	}

	key := dedupeKey(integration, eventID)
	claimed, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn().Err(err).Str("key", key).Msg("Webhook dedupe check failed, processing event")
		return false
	}
	return !claimed
}

// Forget releases a claim so the vendor's retry of a failed event is not
// dropped as a duplicate.
func (d *EventDeduper) Forget(ctx context.Context, integration, eventID string) {
	if eventID == "" {
		return
	}
	if err := d.client.Del(ctx, dedupeKey(integration, eventID)).Err(); err != nil {
		d.logger.Warn().Err(err).Str("event_id", eventID).Msg("Failed to release webhook dedupe claim")
	}
}

func dedupeKey(integration, eventID string) string {
	return fmt.Sprintf("webhook:%s:%s", integration, eventID)
}
