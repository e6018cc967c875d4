package engine

import (
	"sort"
	"strings"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// SortPairs orders pairs by strategy score descending, breaking ties by
// the absolute Yes-price spread descending. The input slice is sorted
// in place.
func SortPairs(pairs []domain.MatchedPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairs[i].YesDelta() > pairs[j].YesDelta()
	})
}

// SortOpportunities orders opportunities by ROI descending, in place.
func SortOpportunities(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].ROI > opps[j].ROI
	})
}

// FilterOpportunities returns the opportunities at or above minROI whose
// question text contains the query, case-insensitively. An empty query
// matches everything. The input is not modified.
func FilterOpportunities(opps []domain.Opportunity, minROI float64, query string) []domain.Opportunity {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.ROI < minROI {
			continue
		}
		if query != "" && !containsFold(o.Questions, query) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// FilterPairs returns the pairs whose questions or shared subjects
// contain the query, case-insensitively. An empty query matches
// everything. The input is not modified.
func FilterPairs(pairs []domain.MatchedPair, query string) []domain.MatchedPair {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]domain.MatchedPair(nil), pairs...)
	}
	out := make([]domain.MatchedPair, 0, len(pairs))
	for _, p := range pairs {
		haystack := []string{p.Polymarket.Question, p.Kalshi.Question}
		haystack = append(haystack, p.Subjects...)
		if containsFold(haystack, query) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(texts []string, loweredQuery string) bool {
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), loweredQuery) {
			return true
		}
	}
	return false
}
