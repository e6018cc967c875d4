package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// SnapshotCache implements domain.SnapshotCache using one Redis hash per
// venue, holding the JSON-serialized market list and the fetch timestamp.
//
// Key schema:
//
//	snapshot:{venue} - hash with fields "data" (JSON array) and "fetched_at"
//	                   (RFC3339Nano)
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotCache creates a SnapshotCache backed by the given Client. The
// TTL bounds how stale a served snapshot can get when polling stops.
func NewSnapshotCache(c *Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: c.Underlying(), ttl: ttl}
}

func snapshotKey(venue domain.Venue) string { return "snapshot:" + string(venue) }

// SetSnapshot replaces the cached market list for a venue.
func (sc *SnapshotCache) SetSnapshot(ctx context.Context, venue domain.Venue, markets []domain.Market) error {
	data, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot %s: %w", venue, err)
	}

	key := snapshotKey(venue)

	pipe := sc.rdb.TxPipeline()
	pipe.HSet(ctx, key, "data", data, "fetched_at", time.Now().UTC().Format(time.RFC3339Nano))
	pipe.Expire(ctx, key, sc.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set snapshot %s: %w", venue, err)
	}
	return nil
}

// GetSnapshot returns the cached market list for a venue and the time it was
// fetched. It returns domain.ErrNotFound when no snapshot exists.
func (sc *SnapshotCache) GetSnapshot(ctx context.Context, venue domain.Venue) ([]domain.Market, time.Time, error) {
	fields, err := sc.rdb.HMGet(ctx, snapshotKey(venue), "data", "fetched_at").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, domain.ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("redis: get snapshot %s: %w", venue, err)
	}

	data, ok := fields[0].(string)
	if !ok || data == "" {
		return nil, time.Time{}, domain.ErrNotFound
	}

	var markets []domain.Market
	if err := json.Unmarshal([]byte(data), &markets); err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: unmarshal snapshot %s: %w", venue, err)
	}

	var fetched time.Time
	if s, ok := fields[1].(string); ok {
		fetched, _ = time.Parse(time.RFC3339Nano, s)
	}

	return markets, fetched, nil
}

// Compile-time interface check.
var _ domain.SnapshotCache = (*SnapshotCache)(nil)
