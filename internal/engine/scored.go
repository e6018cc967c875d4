package engine

import (
	"fmt"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Scoring weights. The year-mismatch penalty applies unconditionally
// whenever both sides carry differing years, even against otherwise strong
// entity/event evidence; a wrong-year pair is a different event.
const (
	scorePerEntity    = 40.0
	scoreEventMatch   = 30.0
	scoreYearMatch    = 20.0
	scoreYearMismatch = -50.0
	scoreJaccardMax   = 30.0
	jaccardFloor      = 0.3
	defaultCutoff     = 50.0
)

// ScoredEntityEventMatch is the recall-oriented variant: it accumulates a
// weighted score from shared entities, matching event types, year
// agreement, and keyword overlap, and declares a match above a cutoff
// provided at least one hard signal (shared entity or equal event type)
// backs it. Rule order matters so the year penalty can offset the bonuses.
type ScoredEntityEventMatch struct {
	cutoff float64
}

func (s *ScoredEntityEventMatch) Name() string { return StrategyScored }

func (s *ScoredEntityEventMatch) Evaluate(a, b domain.Features) Verdict {
	if lacksEvidence(a) || lacksEvidence(b) {
		return Verdict{Reason: "no_evidence"}
	}

	cutoff := s.cutoff
	if cutoff <= 0 {
		cutoff = defaultCutoff
	}

	shared := sharedSubjects(a.Subjects, b.Subjects)
	score := scorePerEntity * float64(len(shared))

	eventsEqual := a.Action != "" && b.Action != "" && a.Action == b.Action
	if eventsEqual {
		score += scoreEventMatch
	}

	yearA, yearB := a.Year(), b.Year()
	if yearA != "" && yearB != "" {
		if yearA == yearB {
			score += scoreYearMatch
		} else {
			score += scoreYearMismatch
		}
	}

	kw := jaccard(a.Keywords, b.Keywords)
	if kw >= jaccardFloor {
		score += scoreJaccardMax * kw
	}

	match := score >= cutoff && (len(shared) > 0 || eventsEqual)
	return Verdict{
		Match: match,
		Score: score,
		Reason: fmt.Sprintf("entities=%d event=%t years=%s/%s jaccard=%.2f",
			len(shared), eventsEqual, orDash(yearA), orDash(yearB), kw),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
