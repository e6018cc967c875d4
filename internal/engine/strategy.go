package engine

import (
	"fmt"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Strategy names selectable via configuration.
const (
	StrategyStrict     = "strict"
	StrategyScored     = "scored"
	StrategySimilarity = "similarity"
)

// Verdict is the outcome of evaluating one cross-venue question pair.
// Scores are strategy-specific and not comparable across strategies.
type Verdict struct {
	Match  bool
	Score  float64
	Reason string
}

// Strategy decides whether two questions refer to the same real-world
// event. Implementations are pure and symmetric in their verdict, never
// fail (an unextractable question is an ordinary non-match), and must
// refuse to match when either side carries no evidence at all.
type Strategy interface {
	Name() string
	Evaluate(a, b domain.Features) Verdict
}

// newStrategy builds the configured variant. Exactly one variant is active
// per engine; the variants are substitutes, never combined.
func newStrategy(cfg Config) (Strategy, error) {
	switch cfg.Strategy {
	case StrategyStrict:
		return &StrictFieldMatch{}, nil
	case StrategyScored:
		return &ScoredEntityEventMatch{cutoff: cfg.ScoreCutoff}, nil
	case StrategySimilarity:
		return &SimilarityThresholdMatch{
			jaccardMin:  cfg.JaccardThreshold,
			sequenceMin: cfg.SequenceThreshold,
		}, nil
	default:
		return nil, fmt.Errorf("engine: unknown match strategy %q", cfg.Strategy)
	}
}

// lacksEvidence is the shared guard: a side with neither subjects nor
// keywords can never support a match.
func lacksEvidence(f domain.Features) bool {
	return !f.HasEvidence()
}

// sharedSubjects returns the intersection of two sorted subject sets,
// preserving sorted order.
func sharedSubjects(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// jaccard is intersection over union of two keyword sets. Empty input on
// either side scores zero.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	inter := 0
	union := len(set)
	for _, w := range b {
		if set[w] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// sequenceSimilarity walks the words of a in order, greedily locating each
// in b at a strictly increasing index, and divides the match count by the
// longer list's length. It rewards shared phrasing order, which plain set
// overlap cannot see.
func sequenceSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matches, next := 0, 0
	for _, w := range a {
		for k := next; k < len(b); k++ {
			if b[k] == w {
				matches++
				next = k + 1
				break
			}
		}
	}
	den := len(a)
	if len(b) > den {
		den = len(b)
	}
	return float64(matches) / float64(den)
}
