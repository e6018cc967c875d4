package engine

import (
	"fmt"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Default thresholds. Both are strict on purpose: this variant has no
// entity knowledge, so loose cutoffs would pair unrelated questions that
// happen to share vocabulary.
const (
	defaultJaccardThreshold  = 0.75
	defaultSequenceThreshold = 0.55
)

// SimilarityThresholdMatch is the dictionary-free variant: it rejects on
// negation mismatch, then requires keyword Jaccard similarity and greedy
// order-preserving sequence similarity to each clear their own threshold.
// The combined score, the mean of the two, is used for ranking only; the
// pass/fail decision uses the individual thresholds.
type SimilarityThresholdMatch struct {
	jaccardMin  float64
	sequenceMin float64
}

func (s *SimilarityThresholdMatch) Name() string { return StrategySimilarity }

func (s *SimilarityThresholdMatch) Evaluate(a, b domain.Features) Verdict {
	if lacksEvidence(a) || lacksEvidence(b) {
		return Verdict{Reason: "no_evidence"}
	}
	if a.Negated != b.Negated {
		return Verdict{Reason: "negation_mismatch"}
	}

	jaccardMin := s.jaccardMin
	if jaccardMin <= 0 {
		jaccardMin = defaultJaccardThreshold
	}
	sequenceMin := s.sequenceMin
	if sequenceMin <= 0 {
		sequenceMin = defaultSequenceThreshold
	}

	kw := jaccard(a.Keywords, b.Keywords)
	seq := sequenceSimilarity(a.Words, b.Words)

	return Verdict{
		Match:  kw >= jaccardMin && seq >= sequenceMin,
		Score:  (kw + seq) / 2,
		Reason: fmt.Sprintf("jaccard=%.3f sequence=%.3f", kw, seq),
	}
}
