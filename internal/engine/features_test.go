package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestExtractor() *Extractor {
	dict := DefaultDictionaries()
	return NewExtractor(NewNormalizer(dict), dict)
}

func TestExtractFullQuestion(t *testing.T) {
	e := newTestExtractor()

	f := e.Extract("Will Trump nominate Kevin Warsh as Fed Chair in 2026?")

	assert.Equal(t, []string{"fed", "trump", "warsh"}, f.Subjects)
	assert.Equal(t, "nominate", f.Action)
	assert.Equal(t, "2026", f.Timeframe)
	assert.Equal(t, "fed_chair", f.Target)
	assert.False(t, f.Negated)
	assert.Equal(t, []string{"trump", "nominate", "kevin", "warsh", "fed", "chair", "2026"}, f.Words)
	assert.Equal(t, []string{"2026", "chair", "fed", "kevin", "nominate", "trump", "warsh"}, f.Keywords)
}

func TestExtractAliasFoldsToCanonical(t *testing.T) {
	e := newTestExtractor()

	// "elon" and "musk" collapse to one canonical subject.
	f := e.Extract("Will Elon Musk acquire TikTok?")
	assert.Equal(t, []string{"musk", "tiktok"}, f.Subjects)

	f = e.Extract("Will the United States enter a recession in 2025?")
	assert.Equal(t, []string{"usa"}, f.Subjects)
	assert.Equal(t, "recession", f.Action)
}

func TestExtractNegation(t *testing.T) {
	e := newTestExtractor()

	assert.True(t, e.Extract("Will Trump NOT fire Powell?").Negated)
	assert.True(t, e.Extract("Powell won’t resign in 2025").Negated)
	assert.False(t, e.Extract("Will Trump nominate Powell?").Negated,
		"word boundary must keep 'no' from matching inside 'nominate'")
}

func TestExtractTimeframe(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, "2027", e.Extract("Recession by end of 2027?").Timeframe)
	assert.Equal(t, "before_march 1", e.Extract("Ceasefire before March 1?").Timeframe)
	assert.Equal(t, "", e.Extract("Will Powell resign?").Timeframe)
}

func TestExtractActionFirstMatchWins(t *testing.T) {
	e := newTestExtractor()

	// "announce ... as" is a nomination even though "announce" alone would
	// tag as launch further down the table.
	assert.Equal(t, "nominate", e.Extract("Trump to announce Warsh as Fed pick").Action)
	assert.Equal(t, "launch", e.Extract("OpenAI to announce a new model").Action)
}

func TestExtractPriceTarget(t *testing.T) {
	e := newTestExtractor()

	f := e.Extract("Will Bitcoin reach $100,000 in 2025?")
	assert.Equal(t, []string{"bitcoin"}, f.Subjects)
	assert.Equal(t, "reach_price", f.Action)
	assert.Equal(t, "price_target", f.Target)
}

func TestExtractNoEvidence(t *testing.T) {
	e := newTestExtractor()

	f := e.Extract("It is on?")
	assert.False(t, f.HasEvidence())
	assert.Empty(t, f.Subjects)
	assert.Empty(t, f.Keywords)
}

func TestExtractDeterministic(t *testing.T) {
	e := newTestExtractor()

	q := "Will the Chiefs win the Super Bowl in 2026?"
	assert.Equal(t, e.Extract(q), e.Extract(q))
}
