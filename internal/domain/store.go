package domain

import (
	"context"
	"time"
)

// PairStore persists matched-pair history.
type PairStore interface {
	InsertBatch(ctx context.Context, scanID string, pairs []MatchedPair) error
	ListByScan(ctx context.Context, scanID string) ([]MatchedPair, error)
	ListRecent(ctx context.Context, limit int) ([]MatchedPair, error)
	ListBefore(ctx context.Context, before time.Time) ([]MatchedPair, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// OpportunityStore persists arbitrage opportunity history.
type OpportunityStore interface {
	InsertBatch(ctx context.Context, scanID string, opps []Opportunity) error
	ListRecent(ctx context.Context, kind OpportunityKind, limit int) ([]Opportunity, error)
	ListBefore(ctx context.Context, before time.Time) ([]Opportunity, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ScanStore persists per-scan metadata.
type ScanStore interface {
	Insert(ctx context.Context, result ScanResult) error
	GetLatestID(ctx context.Context) (string, error)
	ListSummaries(ctx context.Context, limit int) ([]ScanSummary, error)
}
