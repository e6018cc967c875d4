package engine

import (
	"log/slog"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// PairMatcher runs one match strategy over the cross product of two
// venue snapshots. Features are extracted once per market up front, so
// the O(n*m) comparison loop never touches raw question text.
type PairMatcher struct {
	extractor *Extractor
	strategy  Strategy
	logger    *slog.Logger
}

func NewPairMatcher(extractor *Extractor, strategy Strategy, logger *slog.Logger) *PairMatcher {
	return &PairMatcher{
		extractor: extractor,
		strategy:  strategy,
		logger:    logger.With("component", "matcher"),
	}
}

type featured struct {
	market   domain.Market
	features domain.Features
}

// Match compares every priced Polymarket market against every priced
// Kalshi market and returns the pairs the strategy accepts. Duplicate
// pairs (same two market IDs in either order) keep the first verdict
// encountered.
func (m *PairMatcher) Match(poly, kalshi []domain.Market) []domain.MatchedPair {
	polyFeats := m.extractAll(poly)
	kalshiFeats := m.extractAll(kalshi)

	seen := make(map[string]bool)
	pairs := make([]domain.MatchedPair, 0)

	for _, p := range polyFeats {
		for _, k := range kalshiFeats {
			verdict := m.strategy.Evaluate(p.features, k.features)
			if !verdict.Match {
				continue
			}
			key := domain.PairKey(p.market.ID, k.market.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, domain.MatchedPair{
				Key:        key,
				Polymarket: p.market,
				Kalshi:     k.market,
				Score:      verdict.Score,
				Reason:     verdict.Reason,
				Strategy:   m.strategy.Name(),
				Subjects:   sharedSubjects(p.features.Subjects, k.features.Subjects),
				Action:     firstNonEmpty(p.features.Action, k.features.Action),
				Timeframe:  firstNonEmpty(p.features.Timeframe, k.features.Timeframe),
			})
		}
	}

	m.logger.Debug("matching complete",
		"strategy", m.strategy.Name(),
		"polymarket", len(polyFeats),
		"kalshi", len(kalshiFeats),
		"pairs", len(pairs))

	return pairs
}

func (m *PairMatcher) extractAll(markets []domain.Market) []featured {
	out := make([]featured, 0, len(markets))
	for _, mk := range markets {
		if !mk.Priced() {
			continue
		}
		out = append(out, featured{market: mk, features: m.extractor.Extract(mk.Question)})
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
