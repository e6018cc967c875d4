package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

var (
	reYear   = regexp.MustCompile(`\b(202[4-9]|203[0-9])\b`)
	reBefore = regexp.MustCompile(`\b(?:before|by)\s+(\w+\s+\d+)`)
)

// Extractor derives structured Features from question text. Extraction is a
// pure function: the same question always produces the same Features, and a
// signal the dictionaries don't know simply stays absent.
type Extractor struct {
	norm *Normalizer
	dict *Dictionaries
}

// NewExtractor creates an Extractor over the given normalizer and tables.
func NewExtractor(norm *Normalizer, dict *Dictionaries) *Extractor {
	return &Extractor{norm: norm, dict: dict}
}

// Extract normalizes the question and runs every sub-extraction. The
// sub-extractions are independent; none of them mutates the input.
func (e *Extractor) Extract(question string) domain.Features {
	text := e.norm.Normalize(question)

	f := domain.Features{
		Subjects:  e.subjects(text),
		Action:    e.action(text),
		Timeframe: e.timeframe(text),
		Target:    e.target(text),
		Negated:   e.negated(text),
		Words:     e.contentWords(text),
	}
	f.Keywords = uniqueSorted(f.Words)
	return f
}

// subjects returns the sorted set of canonical entity tokens found in the
// text. Aliases collapse to one canonical form, so "elon" and "musk" never
// both appear.
func (e *Extractor) subjects(text string) []string {
	found := make(map[string]bool)
	for _, rule := range e.dict.Entities {
		if rule.re.MatchString(text) {
			found[rule.Canonical] = true
		}
	}
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// action returns the tag of the first rule whose any pattern matches.
func (e *Extractor) action(text string) string {
	for _, rule := range e.dict.Actions {
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				return rule.Tag
			}
		}
	}
	return ""
}

// timeframe prefers a bare year; a "before/by <date>" phrase is tagged
// distinctly so a deadline never equals a year.
func (e *Extractor) timeframe(text string) string {
	if m := reYear.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := reBefore.FindStringSubmatch(text); m != nil {
		return "before_" + m[1]
	}
	return ""
}

func (e *Extractor) target(text string) string {
	for _, rule := range e.dict.Targets {
		if rule.pattern.MatchString(text) {
			return rule.Tag
		}
	}
	return ""
}

func (e *Extractor) negated(text string) bool {
	for _, re := range e.dict.Negations {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// contentWords splits the normalized text into words, dropping stopwords
// and anything of length <= 2, keeping occurrence order and duplicates.
func (e *Extractor) contentWords(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) <= 2 || e.dict.Stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func uniqueSorted(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
