package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// ScanStore implements domain.ScanStore using PostgreSQL. Only per-scan
// metadata lives here; pairs and opportunities have their own tables keyed
// by scan id.
type ScanStore struct {
	pool *pgxpool.Pool
}

// NewScanStore creates a new ScanStore backed by the given pool.
func NewScanStore(pool *pgxpool.Pool) *ScanStore {
	return &ScanStore{pool: pool}
}

// Insert records the metadata of a completed scan.
func (s *ScanStore) Insert(ctx context.Context, result domain.ScanResult) error {
	sum := result.Summary()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO scans (
			id, strategy, polymarket_count, kalshi_count,
			pair_count, cross_count, intra_count,
			best_roi, started_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sum.ID, sum.Strategy, sum.PolymarketCount, sum.KalshiCount,
		sum.PairCount, sum.CrossVenueCount, sum.IntraVenueCount,
		sum.BestROI, sum.StartedAt, result.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("postgres: insert scan %s: %w", sum.ID, err)
	}
	return nil
}

// GetLatestID returns the id of the most recently started scan.
func (s *ScanStore) GetLatestID(ctx context.Context) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM scans ORDER BY started_at DESC LIMIT 1").Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: get latest scan id: %w", err)
	}
	return id, nil
}

// ListSummaries returns the most recent scans, newest first.
func (s *ScanStore) ListSummaries(ctx context.Context, limit int) ([]domain.ScanSummary, error) {
	query := `
		SELECT id, strategy, polymarket_count, kalshi_count,
			pair_count, cross_count, intra_count,
			best_roi, started_at
		FROM scans
		ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list scan summaries: %w", err)
	}
	defer rows.Close()

	var sums []domain.ScanSummary
	for rows.Next() {
		var sum domain.ScanSummary
		if err := rows.Scan(
			&sum.ID, &sum.Strategy, &sum.PolymarketCount, &sum.KalshiCount,
			&sum.PairCount, &sum.CrossVenueCount, &sum.IntraVenueCount,
			&sum.BestROI, &sum.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan summary row: %w", err)
		}
		sums = append(sums, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate scan summaries: %w", err)
	}
	return sums, nil
}

// Compile-time interface check.
var _ domain.ScanStore = (*ScanStore)(nil)
