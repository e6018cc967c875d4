package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// PairStore implements domain.PairStore using PostgreSQL.
type PairStore struct {
	pool *pgxpool.Pool
}

// NewPairStore creates a new PairStore backed by the given connection pool.
func NewPairStore(pool *pgxpool.Pool) *PairStore {
	return &PairStore{pool: pool}
}

const pairSelectCols = `pair_key,
	poly_market_id, poly_question, poly_yes_price, poly_no_price,
	kalshi_ticker, kalshi_question, kalshi_yes_price, kalshi_no_price,
	score, reason, strategy, subjects, action, timeframe`

// InsertBatch stores every matched pair of one scan in a single batch.
func (s *PairStore) InsertBatch(ctx context.Context, scanID string, pairs []domain.MatchedPair) error {
	if len(pairs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO matched_pairs (
			scan_id, pair_key,
			poly_market_id, poly_question, poly_yes_price, poly_no_price,
			kalshi_ticker, kalshi_question, kalshi_yes_price, kalshi_no_price,
			score, reason, strategy, subjects, action, timeframe
		) VALUES (
			$1, $2,
			$3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16
		) ON CONFLICT (scan_id, pair_key) DO NOTHING`

	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(query,
			scanID, p.Key,
			p.Polymarket.ID, p.Polymarket.Question, p.Polymarket.YesPrice, p.Polymarket.NoPrice,
			p.Kalshi.ID, p.Kalshi.Question, p.Kalshi.YesPrice, p.Kalshi.NoPrice,
			p.Score, p.Reason, p.Strategy, p.Subjects, p.Action, p.Timeframe,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range pairs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: insert pairs for scan %s: %w", scanID, err)
		}
	}
	return nil
}

// ListByScan returns every pair recorded for the given scan, best score first.
func (s *PairStore) ListByScan(ctx context.Context, scanID string) ([]domain.MatchedPair, error) {
	query := `SELECT ` + pairSelectCols + `
		FROM matched_pairs
		WHERE scan_id = $1
		ORDER BY score DESC`

	rows, err := s.pool.Query(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list pairs for scan %s: %w", scanID, err)
	}
	defer rows.Close()

	return scanPairs(rows)
}

// ListRecent returns the most recently recorded pairs across scans.
func (s *PairStore) ListRecent(ctx context.Context, limit int) ([]domain.MatchedPair, error) {
	query := `SELECT ` + pairSelectCols + `
		FROM matched_pairs
		ORDER BY created_at DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent pairs: %w", err)
	}
	defer rows.Close()

	return scanPairs(rows)
}

// ListBefore returns every pair recorded before the cutoff, oldest first,
// for archiving.
func (s *PairStore) ListBefore(ctx context.Context, before time.Time) ([]domain.MatchedPair, error) {
	query := `SELECT ` + pairSelectCols + `
		FROM matched_pairs
		WHERE created_at < $1
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list pairs before %s: %w", before, err)
	}
	defer rows.Close()

	return scanPairs(rows)
}

// DeleteBefore removes pairs recorded before the cutoff and reports how many
// rows were deleted.
func (s *PairStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM matched_pairs WHERE created_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete pairs before %s: %w", before, err)
	}
	return tag.RowsAffected(), nil
}

func scanPairs(rows pgx.Rows) ([]domain.MatchedPair, error) {
	var pairs []domain.MatchedPair
	for rows.Next() {
		var p domain.MatchedPair
		if err := rows.Scan(
			&p.Key,
			&p.Polymarket.ID, &p.Polymarket.Question, &p.Polymarket.YesPrice, &p.Polymarket.NoPrice,
			&p.Kalshi.ID, &p.Kalshi.Question, &p.Kalshi.YesPrice, &p.Kalshi.NoPrice,
			&p.Score, &p.Reason, &p.Strategy, &p.Subjects, &p.Action, &p.Timeframe,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan pair: %w", err)
		}
		p.Polymarket.Venue = domain.VenuePolymarket
		p.Kalshi.Venue = domain.VenueKalshi
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate pairs: %w", err)
	}
	return pairs, nil
}

// Compile-time interface check.
var _ domain.PairStore = (*PairStore)(nil)
