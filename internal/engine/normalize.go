// Package engine implements the matching and arbitrage core: question
// normalization, feature extraction, the pluggable cross-venue match
// strategies, the all-pairs matcher, and the fee-aware arbitrage arithmetic.
//
// Everything in this package is pure and synchronous. A scan takes two
// immutable market-list snapshots plus a configuration and deterministically
// produces matched pairs and opportunities; there is no I/O, no shared
// mutable state, and no cancellation point because nothing ever blocks.
package engine

import (
	"regexp"
	"strings"
)

var (
	quoteFolder = strings.NewReplacer(
		"‘", "'", "’", "'",
		"“", `"`, "”", `"`,
	)
	rePunct      = regexp.MustCompile(`[^a-z0-9\s$%]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalizer canonicalizes raw question text into the token stream every
// strategy consumes. Normalize is total and idempotent: it never fails, and
// re-normalizing normalized text is a no-op.
type Normalizer struct {
	aliases []Alias
}

// NewNormalizer creates a Normalizer using the given alias table.
func NewNormalizer(dict *Dictionaries) *Normalizer {
	return &Normalizer{aliases: dict.Aliases}
}

// Normalize lowercases, folds curly quotes, strips punctuation outside the
// letter/digit/$/% allow-list, applies the alias table on word boundaries,
// and collapses whitespace.
func (n *Normalizer) Normalize(text string) string {
	s := strings.ToLower(text)
	s = quoteFolder.Replace(s)
	s = rePunct.ReplaceAllString(s, " ")
	for _, a := range n.aliases {
		s = a.re.ReplaceAllString(s, a.repl)
	}
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
