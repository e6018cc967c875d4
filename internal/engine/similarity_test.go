package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

func TestSimilarityMatchesNearIdenticalQuestions(t *testing.T) {
	e := newTestExtractor()
	s := &SimilarityThresholdMatch{}

	a := e.Extract("Will Bitcoin reach $100,000 in 2025?")
	b := e.Extract("Bitcoin to reach $100,000 in 2025?")

	v := s.Evaluate(a, b)
	assert.True(t, v.Match)
	assert.Greater(t, v.Score, 0.9)
}

func TestSimilarityThresholdsAreInclusive(t *testing.T) {
	s := &SimilarityThresholdMatch{jaccardMin: 0.75, sequenceMin: 0.75}

	// Three of four words shared, in order: jaccard and sequence both land
	// exactly on 0.75 and must pass.
	a := domain.Features{
		Keywords: []string{"bitcoin", "november", "reach"},
		Words:    []string{"bitcoin", "reach", "november"},
	}
	b := domain.Features{
		Keywords: []string{"bitcoin", "close", "november", "reach"},
		Words:    []string{"bitcoin", "reach", "close", "november"},
	}

	v := s.Evaluate(a, b)
	assert.True(t, v.Match)
	assert.InDelta(t, 0.75, v.Score, 1e-9)
}

func TestSimilarityBelowEitherThresholdFails(t *testing.T) {
	highSeq := &SimilarityThresholdMatch{jaccardMin: 0.5, sequenceMin: 0.9}

	a := domain.Features{
		Keywords: []string{"bitcoin", "november", "reach"},
		Words:    []string{"bitcoin", "reach", "november"},
	}
	b := domain.Features{
		Keywords: []string{"bitcoin", "close", "november", "reach"},
		Words:    []string{"bitcoin", "reach", "close", "november"},
	}

	assert.False(t, highSeq.Evaluate(a, b).Match, "both thresholds must clear, not just one")
}

func TestSimilarityRejectsNegationMismatch(t *testing.T) {
	e := newTestExtractor()
	s := &SimilarityThresholdMatch{}

	a := e.Extract("Will the Fed cut rates in March?")
	b := e.Extract("Will the Fed not cut rates in March?")

	v := s.Evaluate(a, b)
	assert.False(t, v.Match)
	assert.Equal(t, "negation_mismatch", v.Reason)
}

func TestSimilarityNoEvidence(t *testing.T) {
	s := &SimilarityThresholdMatch{}

	v := s.Evaluate(domain.Features{}, domain.Features{Keywords: []string{"bitcoin"}, Words: []string{"bitcoin"}})
	assert.Equal(t, "no_evidence", v.Reason)
	assert.False(t, v.Match)
}
