package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

func TestSortPairsByScoreThenSpread(t *testing.T) {
	pairs := []domain.MatchedPair{
		{Key: "a", Score: 1, Polymarket: domain.Market{YesPrice: 0.50}, Kalshi: domain.Market{YesPrice: 0.52}},
		{Key: "b", Score: 3, Polymarket: domain.Market{YesPrice: 0.50}, Kalshi: domain.Market{YesPrice: 0.50}},
		{Key: "c", Score: 1, Polymarket: domain.Market{YesPrice: 0.30}, Kalshi: domain.Market{YesPrice: 0.60}},
	}

	SortPairs(pairs)

	assert.Equal(t, "b", pairs[0].Key)
	assert.Equal(t, "c", pairs[1].Key, "equal scores fall back to the larger yes spread")
	assert.Equal(t, "a", pairs[2].Key)
}

func TestSortOpportunitiesByROI(t *testing.T) {
	opps := []domain.Opportunity{
		{ID: "low", ROI: 1.2},
		{ID: "high", ROI: 9.7},
		{ID: "mid", ROI: 4.4},
	}

	SortOpportunities(opps)

	assert.Equal(t, []string{"high", "mid", "low"}, []string{opps[0].ID, opps[1].ID, opps[2].ID})
}

func TestFilterOpportunities(t *testing.T) {
	opps := []domain.Opportunity{
		{ID: "a", ROI: 5, Questions: []string{"Will Trump pardon Snowden?"}},
		{ID: "b", ROI: 2, Questions: []string{"Will Bitcoin reach $100,000?"}},
		{ID: "c", ROI: 0.5, Questions: []string{"Trump to visit China?"}},
	}

	byROI := FilterOpportunities(opps, 2, "")
	require.Len(t, byROI, 2)
	assert.Equal(t, "a", byROI[0].ID)
	assert.Equal(t, "b", byROI[1].ID)

	byQuery := FilterOpportunities(opps, 0, "TRUMP")
	require.Len(t, byQuery, 2)
	assert.Equal(t, "a", byQuery[0].ID)
	assert.Equal(t, "c", byQuery[1].ID)

	assert.Empty(t, FilterOpportunities(opps, 100, ""))
}

func TestFilterOpportunitiesDoesNotMutateInput(t *testing.T) {
	opps := []domain.Opportunity{
		{ID: "a", ROI: 5},
		{ID: "b", ROI: 2},
	}

	out := FilterOpportunities(opps, 3, "")
	require.Len(t, out, 1)
	assert.Len(t, opps, 2)
	assert.Equal(t, "a", opps[0].ID)
	assert.Equal(t, "b", opps[1].ID)
}

func TestFilterPairs(t *testing.T) {
	pairs := []domain.MatchedPair{
		{Key: "k1", Polymarket: domain.Market{Question: "Will Trump pardon Snowden?"}, Subjects: []string{"snowden", "trump"}},
		{Key: "k2", Polymarket: domain.Market{Question: "Will Bitcoin reach $100,000?"}, Subjects: []string{"bitcoin"}},
	}

	bySubject := FilterPairs(pairs, "snowden")
	require.Len(t, bySubject, 1)
	assert.Equal(t, "k1", bySubject[0].Key)

	all := FilterPairs(pairs, "")
	assert.Len(t, all, 2)

	assert.Empty(t, FilterPairs(pairs, "powell"))
}
