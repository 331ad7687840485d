package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"parkshare/internal/db"
	"parkshare/internal/logger"
	"parkshare/internal/metrics"
)

const keyPrefix = "availability:"

// AvailabilityCache keeps a space's slots in Redis. A nil client turns every
// method into a no-op so the store works without Redis.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func Key(spaceID uuid.UUID) string {
	return keyPrefix + spaceID.String()
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached slots and whether there was a usable entry.
func (c *AvailabilityCache) Get(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, Key(spaceID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithError(err).Warn("availability cache read failed", "space_id", spaceID.String())
		}
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	var slots []db.AvailabilitySlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		logger.WithError(err).Warn("availability cache entry corrupt", "space_id", spaceID.String())
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	metrics.RecordCacheLookup(true)
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, spaceID uuid.UUID, slots []db.AvailabilitySlot) {
	if !c.enabled() {
		return
	}
	payload, err := json.Marshal(slots)
	if err != nil {
		logger.WithError(err).Warn("availability cache encode failed", "space_id", spaceID.String())
		return
	}
	if err := c.client.Set(ctx, Key(spaceID), string(payload), c.ttl).Err(); err != nil {
		logger.WithError(err).Warn("availability cache write failed", "space_id", spaceID.String())
	}
}

// Invalidate drops the entry after a replace has committed.
func (c *AvailabilityCache) Invalidate(ctx context.Context, spaceID uuid.UUID) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, Key(spaceID)).Err(); err != nil {
		logger.WithError(err).Warn("availability cache invalidate failed", "space_id", spaceID.String())
	}
}
