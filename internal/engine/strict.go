package engine

import "github.com/dhkim-labs/arbscan/internal/domain"

// StrictFieldMatch is the highest-precision variant: a pure conjunction of
// exact-equality checks over extracted fields. Subject sets must be
// identical; action, timeframe, and target must agree whenever both sides
// carry them; negation must agree always. A field absent on either side is
// non-constraining. False negatives are the accepted cost of never pairing
// two markets that merely look alike.
type StrictFieldMatch struct{}

func (s *StrictFieldMatch) Name() string { return StrategyStrict }

// Evaluate is symmetric: swapping the arguments never changes the verdict.
func (s *StrictFieldMatch) Evaluate(a, b domain.Features) Verdict {
	if lacksEvidence(a) || lacksEvidence(b) {
		return Verdict{Reason: "no_evidence"}
	}
	if len(a.Subjects) == 0 || len(b.Subjects) == 0 {
		return Verdict{Reason: "no_subject"}
	}
	if !equalStrings(a.Subjects, b.Subjects) {
		return Verdict{Reason: "subject_mismatch"}
	}
	if a.Action != "" && b.Action != "" && a.Action != b.Action {
		return Verdict{Reason: "action_mismatch"}
	}
	if a.Negated != b.Negated {
		return Verdict{Reason: "negation_mismatch"}
	}
	if a.Timeframe != "" && b.Timeframe != "" && a.Timeframe != b.Timeframe {
		return Verdict{Reason: "time_mismatch"}
	}
	if a.Target != "" && b.Target != "" && a.Target != b.Target {
		return Verdict{Reason: "target_mismatch"}
	}

	// More shared entities means a more specific claim, so rank by set size.
	return Verdict{Match: true, Score: float64(len(a.Subjects)), Reason: "exact_fields"}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
