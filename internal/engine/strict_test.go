package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrictMatch(t *testing.T) {
	e := newTestExtractor()
	s := &StrictFieldMatch{}

	a := e.Extract("Will Kevin Warsh become Fed Chair in 2026?")
	b := e.Extract("Kevin Warsh named as Fed Chair in 2026?")

	v := s.Evaluate(a, b)
	assert.True(t, v.Match)
	assert.Equal(t, "exact_fields", v.Reason)
	assert.Equal(t, 2.0, v.Score, "score is the shared subject-set size")
}

func TestStrictReasonCodes(t *testing.T) {
	e := newTestExtractor()
	s := &StrictFieldMatch{}

	tests := []struct {
		name   string
		qa, qb string
		reason string
	}{
		{"subject sets differ", "Will Trump fire Powell?", "Will Biden fire Powell?", "subject_mismatch"},
		{"actions differ", "Will Trump fire Powell?", "Will Trump pardon Powell?", "action_mismatch"},
		{"negation differs", "Will Trump fire Powell?", "Will Trump not fire Powell?", "negation_mismatch"},
		{"years differ", "Will Trump fire Powell in 2025?", "Will Trump fire Powell in 2026?", "time_mismatch"},
		{"no subject on one side", "Will Trump fire Powell?", "Coach fired after playoff exit?", "no_subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.Evaluate(e.Extract(tt.qa), e.Extract(tt.qb))
			assert.False(t, v.Match)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestStrictSymmetric(t *testing.T) {
	e := newTestExtractor()
	s := &StrictFieldMatch{}

	questions := [][2]string{
		{"Will Kevin Warsh become Fed Chair in 2026?", "Kevin Warsh named as Fed Chair in 2026?"},
		{"Will Trump fire Powell?", "Will Trump pardon Powell?"},
		{"Will Trump fire Powell in 2025?", "Will Trump fire Powell in 2026?"},
	}

	for _, q := range questions {
		a, b := e.Extract(q[0]), e.Extract(q[1])
		assert.Equal(t, s.Evaluate(a, b).Match, s.Evaluate(b, a).Match, "%q vs %q", q[0], q[1])
	}
}

func TestStrictAbsentFieldsDoNotConstrain(t *testing.T) {
	e := newTestExtractor()
	s := &StrictFieldMatch{}

	// One side carries a year, the other none: the timeframe check is
	// skipped rather than failed.
	a := e.Extract("Will Trump pardon Snowden in 2026?")
	b := e.Extract("Will Trump pardon Snowden?")
	assert.True(t, s.Evaluate(a, b).Match)
}

func TestStrictNoEvidence(t *testing.T) {
	s := &StrictFieldMatch{}

	empty := newTestExtractor().Extract("it?")
	full := newTestExtractor().Extract("Will Trump fire Powell?")

	assert.Equal(t, "no_evidence", s.Evaluate(empty, full).Reason)
	assert.Equal(t, "no_evidence", s.Evaluate(full, empty).Reason)
	assert.Equal(t, "no_evidence", s.Evaluate(empty, empty).Reason)
}
