package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Config holds the tunable knobs of a scan. Zero thresholds fall back
// to the strategy defaults; fees and budget must be set explicitly (use
// DefaultConfig for sane starting values).
type Config struct {
	Strategy          string
	PolymarketFee     float64
	KalshiFee         float64
	Budget            float64
	MinROI            float64
	ScoreCutoff       float64
	JaccardThreshold  float64
	SequenceThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Strategy:          StrategyStrict,
		PolymarketFee:     0.01,
		KalshiFee:         0.01,
		Budget:            100,
		MinROI:            0,
		ScoreCutoff:       defaultCutoff,
		JaccardThreshold:  defaultJaccardThreshold,
		SequenceThreshold: defaultSequenceThreshold,
	}
}

func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyStrict, StrategyScored, StrategySimilarity:
	default:
		return fmt.Errorf("engine: unknown strategy %q: %w", c.Strategy, domain.ErrInvalidConfig)
	}
	if c.PolymarketFee < 0 || c.KalshiFee < 0 {
		return fmt.Errorf("engine: fees must be non-negative: %w", domain.ErrInvalidConfig)
	}
	if c.Budget <= 0 {
		return fmt.Errorf("engine: budget must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.JaccardThreshold < 0 || c.JaccardThreshold > 1 {
		return fmt.Errorf("engine: jaccard threshold out of range: %w", domain.ErrInvalidConfig)
	}
	if c.SequenceThreshold < 0 || c.SequenceThreshold > 1 {
		return fmt.Errorf("engine: sequence threshold out of range: %w", domain.ErrInvalidConfig)
	}
	return nil
}

// Engine ties the matching pipeline together: normalize, extract,
// match, price, rank. It holds no I/O and no mutable state, so a single
// instance is safe for concurrent Scan calls.
type Engine struct {
	cfg     Config
	matcher *PairMatcher
	calc    *Calculator
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}

	dict := DefaultDictionaries()
	extractor := NewExtractor(NewNormalizer(dict), dict)

	return &Engine{
		cfg:     cfg,
		matcher: NewPairMatcher(extractor, strategy, logger),
		calc:    NewCalculator(cfg.PolymarketFee, cfg.KalshiFee, cfg.Budget),
		logger:  logger.With("component", "engine"),
	}, nil
}

// Scan runs one full pass over the two venue snapshots and returns the
// ranked result. Pairs are sorted by score, opportunities by ROI, and
// opportunities below the configured MinROI are dropped.
func (e *Engine) Scan(poly, kalshi []domain.Market) domain.ScanResult {
	started := time.Now().UTC()

	pairs := e.matcher.Match(poly, kalshi)
	SortPairs(pairs)

	cross := FilterOpportunities(e.calc.CrossVenue(pairs), e.cfg.MinROI, "")
	SortOpportunities(cross)

	intra := FilterOpportunities(e.calc.IntraVenue(append(append([]domain.Market{}, poly...), kalshi...)), e.cfg.MinROI, "")
	SortOpportunities(intra)

	result := domain.ScanResult{
		ID:              uuid.NewString(),
		Strategy:        e.cfg.Strategy,
		PolymarketCount: len(poly),
		KalshiCount:     len(kalshi),
		Pairs:           pairs,
		CrossVenue:      cross,
		IntraVenue:      intra,
		StartedAt:       started,
		Duration:        time.Since(started),
	}

	e.logger.Info("scan complete",
		"scan_id", result.ID,
		"strategy", result.Strategy,
		"pairs", len(pairs),
		"cross_venue", len(cross),
		"intra_venue", len(intra),
		"duration", result.Duration)

	return result
}
