package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBasic(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and trim", "  Will Trump WIN?  ", "will trump win"},
		{"curly apostrophe folds", "Trump’s pick", "trump s pick"},
		{"punctuation becomes space", "Bitcoin: $100,000 by 2026?!", "bitcoin $100 000 by 2026"},
		{"dollar and percent survive", "CPI above 3% and BTC at $90k", "cpi above 3% and btc at $90k"},
		{"whitespace collapses", "rate\t cut \n soon", "rate cut soon"},
		{"team alias folds to city", "Will the Chiefs win the Super Bowl?", "will the kansas city win the super bowl"},
		{"league long name folds", "National Football League MVP", "nfl mvp"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultDictionaries())

	inputs := []string{
		"Will Trump nominate Kevin Warsh as Fed Chair in 2026?",
		"Chiefs to win Super Bowl LX?",
		"Won’t the Fed cut rates?",
		"BTC above $100,000???",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "re-normalizing must be a no-op: %q", in)
	}
}
