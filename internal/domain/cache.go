package domain

import (
	"context"
	"time"
)

// SnapshotCache holds the latest market-list snapshot per venue so the API
// server can answer without waiting on a poll cycle.
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, venue Venue, markets []Market) error
	GetSnapshot(ctx context.Context, venue Venue) ([]Market, time.Time, error)
}

// ResultCache holds the most recent scan result for request serving.
type ResultCache interface {
	SetResult(ctx context.Context, result ScanResult) error
	GetResult(ctx context.Context) (ScanResult, error)
}

// LockManager provides distributed locking so only one replica runs a poll
// cycle at a time.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// RateLimiter bounds request rates per key, shared across replicas.
type RateLimiter interface {
	// Allow reports whether one more request under key fits in the window,
	// counting it when it does.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// StreamMessage represents a single entry from a durable stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// SignalBus provides pub/sub fan-out plus durable, ordered streams.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}
