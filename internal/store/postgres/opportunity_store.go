package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL. Legs
// are stored as a JSONB document; their shape only matters to the engine.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates a new OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const oppSelectCols = `id, kind, strategy, pair_key, questions, legs,
	total_cost, roi, profit, budget, detected_at`

// InsertBatch stores every opportunity of one scan in a single batch.
func (s *OpportunityStore) InsertBatch(ctx context.Context, scanID string, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	const query = `
		INSERT INTO opportunities (
			id, scan_id, kind, strategy, pair_key, questions, legs,
			total_cost, roi, profit, budget, detected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		) ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, o := range opps {
		legs, err := json.Marshal(o.Legs)
		if err != nil {
			return fmt.Errorf("postgres: marshal legs for opportunity %s: %w", o.ID, err)
		}
		batch.Queue(query,
			o.ID, scanID, string(o.Kind), o.Strategy, o.PairKey, o.Questions, legs,
			o.TotalCost, o.ROI, o.Profit, o.Budget, o.DetectedAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range opps {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: insert opportunities for scan %s: %w", scanID, err)
		}
	}
	return nil
}

// ListRecent returns the most recent opportunities of the given kind, best
// ROI first. An empty kind lists both kinds.
func (s *OpportunityStore) ListRecent(ctx context.Context, kind domain.OpportunityKind, limit int) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM opportunities`
	args := []any{}

	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, string(kind))
	}
	query += ` ORDER BY detected_at DESC, roi DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities: %w", err)
	}
	defer rows.Close()

	return scanOpportunities(rows)
}

// ListBefore returns every opportunity detected before the cutoff, oldest
// first, for archiving.
func (s *OpportunityStore) ListBefore(ctx context.Context, before time.Time) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + `
		FROM opportunities
		WHERE detected_at < $1
		ORDER BY detected_at ASC`

	rows, err := s.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list opportunities before %s: %w", before, err)
	}
	defer rows.Close()

	return scanOpportunities(rows)
}

// DeleteBefore removes opportunities detected before the cutoff and reports
// how many rows were deleted.
func (s *OpportunityStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM opportunities WHERE detected_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete opportunities before %s: %w", before, err)
	}
	return tag.RowsAffected(), nil
}

func scanOpportunities(rows pgx.Rows) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	for rows.Next() {
		var o domain.Opportunity
		var kind string
		var legs []byte

		if err := rows.Scan(
			&o.ID, &kind, &o.Strategy, &o.PairKey, &o.Questions, &legs,
			&o.TotalCost, &o.ROI, &o.Profit, &o.Budget, &o.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan opportunity: %w", err)
		}
		o.Kind = domain.OpportunityKind(kind)
		if err := json.Unmarshal(legs, &o.Legs); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal legs for %s: %w", o.ID, err)
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate opportunities: %w", err)
	}
	return opps, nil
}

// Compile-time interface check.
var _ domain.OpportunityStore = (*OpportunityStore)(nil)
