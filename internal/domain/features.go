package domain

// Features holds the structured signals extracted from one normalized
// question. Extraction is a pure function of the text: the same question
// always yields the same Features, and absent signals are zero values, not
// errors.
type Features struct {
	// Subjects are the canonical entity tokens (people, orgs, countries)
	// found in the question, alias-folded and sorted.
	Subjects []string

	// Action is the canonical event-type tag ("nominate", "resign", "win",
	// ...) of the first matching pattern, or "" when none matched.
	Action string

	// Timeframe is a bare year ("2026") or a relative-date token
	// ("before_march 1"), or "" when the question carries neither.
	Timeframe string

	// Target is the role/award token ("fed_chair", "super_bowl",
	// "price_target", ...), or "".
	Target string

	// Negated is true when the question contains a negation marker.
	Negated bool

	// Keywords are the unique content words after stopword removal, sorted.
	Keywords []string

	// Words are the content words in order of occurrence, duplicates kept.
	// Sequence-alignment scoring needs word order, which Keywords discards.
	Words []string
}

// HasEvidence reports whether the question produced any matchable signal.
// Strategies must never declare a match when either side has no evidence:
// two short questions with nothing extractable would otherwise cross-match
// by accident.
func (f Features) HasEvidence() bool {
	return len(f.Subjects) > 0 || len(f.Keywords) > 0
}

// Year returns the timeframe as a bare year, or "" when the timeframe is
// absent or relative.
func (f Features) Year() string {
	if len(f.Timeframe) == 4 && f.Timeframe[0] == '2' && f.Timeframe[1] == '0' {
		return f.Timeframe
	}
	return ""
}
