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

// resultTTL keeps a stale result servable across a few missed scan cycles
// but not indefinitely.
const resultTTL = time.Hour

// ResultCache implements domain.ResultCache: the latest full scan result as
// one JSON value under a fixed key, so API handlers never wait on a scan.
type ResultCache struct {
	rdb *redis.Client
}

// NewResultCache creates a ResultCache backed by the given Client.
func NewResultCache(c *Client) *ResultCache {
	return &ResultCache{rdb: c.Underlying()}
}

const resultKey = "scan:latest"

// SetResult replaces the cached latest scan result.
func (rc *ResultCache) SetResult(ctx context.Context, result domain.ScanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis: marshal scan result %s: %w", result.ID, err)
	}
	if err := rc.rdb.Set(ctx, resultKey, data, resultTTL).Err(); err != nil {
		return fmt.Errorf("redis: set scan result %s: %w", result.ID, err)
	}
	return nil
}

// GetResult returns the latest cached scan result, or domain.ErrNotFound when
// no scan has completed recently.
func (rc *ResultCache) GetResult(ctx context.Context) (domain.ScanResult, error) {
	data, err := rc.rdb.Get(ctx, resultKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ScanResult{}, domain.ErrNotFound
		}
		return domain.ScanResult{}, fmt.Errorf("redis: get scan result: %w", err)
	}

	var result domain.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.ScanResult{}, fmt.Errorf("redis: unmarshal scan result: %w", err)
	}
	return result, nil
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)
