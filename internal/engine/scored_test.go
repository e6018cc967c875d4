package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

func TestScoredMatchAccumulates(t *testing.T) {
	e := newTestExtractor()
	s := &ScoredEntityEventMatch{}

	a := e.Extract("Will Trump win the election in 2028?")
	b := e.Extract("Trump wins in 2028?")

	v := s.Evaluate(a, b)
	assert.True(t, v.Match)
	// One shared entity, same event type, same year, plus keyword overlap.
	assert.GreaterOrEqual(t, v.Score, 90.0)
}

func TestScoredYearPenaltyOverridesStrongSignals(t *testing.T) {
	e := newTestExtractor()
	s := &ScoredEntityEventMatch{}

	a := e.Extract("Will Trump win in 2024?")
	b := e.Extract("Will Trump win in 2028?")

	v := s.Evaluate(a, b)
	assert.False(t, v.Match, "entity+event score minus the year penalty must land under the cutoff")
	// 40 (entity) + 30 (event) - 50 (year) + 15 (jaccard 0.5 * 30).
	assert.InDelta(t, 35.0, v.Score, 1e-9)
}

func TestScoredRequiresHardSignal(t *testing.T) {
	s := &ScoredEntityEventMatch{}

	// Identical keywords but no shared entity and no event type: keyword
	// overlap alone must never clear the bar, whatever the score.
	a := domain.Features{Keywords: []string{"market", "rally", "september"}, Words: []string{"market", "rally", "september"}}
	b := domain.Features{Keywords: []string{"market", "rally", "september"}, Words: []string{"market", "rally", "september"}}

	v := s.Evaluate(a, b)
	assert.False(t, v.Match)
}

func TestScoredCutoffBoundary(t *testing.T) {
	s := &ScoredEntityEventMatch{cutoff: 40}

	// Exactly one shared entity and nothing else scores 40; the cutoff is
	// inclusive.
	a := domain.Features{Subjects: []string{"trump"}, Keywords: []string{"trump"}}
	b := domain.Features{Subjects: []string{"trump"}, Keywords: []string{"impeached"}}

	v := s.Evaluate(a, b)
	assert.True(t, v.Match)
	assert.InDelta(t, 40.0, v.Score, 1e-9)
}

func TestScoredJaccardFloor(t *testing.T) {
	s := &ScoredEntityEventMatch{cutoff: 1000} // never matches; score only

	// Overlap below 0.3 contributes nothing.
	a := domain.Features{Subjects: []string{"fed"}, Keywords: []string{"alpha", "beta", "gamma", "delta"}}
	b := domain.Features{Subjects: []string{"fed"}, Keywords: []string{"alpha", "epsilon", "zeta", "eta"}}

	v := s.Evaluate(a, b) // jaccard = 1/7 < 0.3
	assert.InDelta(t, 40.0, v.Score, 1e-9)
}

func TestScoredNoEvidence(t *testing.T) {
	s := &ScoredEntityEventMatch{}

	v := s.Evaluate(domain.Features{}, domain.Features{Subjects: []string{"trump"}, Keywords: []string{"trump"}})
	assert.False(t, v.Match)
	assert.Equal(t, "no_evidence", v.Reason)
}
