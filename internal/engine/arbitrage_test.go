package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

func testPair(polyYes, polyNo, kalshiYes, kalshiNo float64) domain.MatchedPair {
	return domain.MatchedPair{
		Key:        domain.PairKey("p1", "k1"),
		Polymarket: polyMarket("p1", "Will Trump pardon Snowden in 2026?", polyYes, polyNo),
		Kalshi:     kalshiMarket("k1", "Trump to pardon Snowden in 2026?", kalshiYes, kalshiNo),
	}
}

func TestCrossVenueProfitable(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	// Poly Yes 0.30 + Kalshi No 0.60, both loaded 1%:
	// 0.303 + 0.606 = 0.909, ROI ~10.01%.
	opps := c.CrossVenue([]domain.MatchedPair{testPair(0.30, 0.70, 0.40, 0.60)})
	require.Len(t, opps, 1)

	o := opps[0]
	assert.Equal(t, domain.OppCrossVenue, o.Kind)
	assert.Equal(t, domain.StratPolyYesKalshiNo, o.Strategy)
	assert.InDelta(t, 0.909, o.TotalCost, 1e-9)
	assert.InDelta(t, 10.0110011, o.ROI, 1e-4)
	assert.InDelta(t, 10.0110011, o.Profit, 1e-4)
	assert.NotEmpty(t, o.ID)

	require.Len(t, o.Legs, 2)
	assert.Equal(t, domain.VenuePolymarket, o.Legs[0].Venue)
	assert.Equal(t, "yes", o.Legs[0].Outcome)
	assert.InDelta(t, 0.303, o.Legs[0].LoadedPrice, 1e-9)
	assert.Equal(t, domain.VenueKalshi, o.Legs[1].Venue)
	assert.Equal(t, "no", o.Legs[1].Outcome)
	assert.InDelta(t, 0.606, o.Legs[1].LoadedPrice, 1e-9)
}

func TestCrossVenuePicksCheaperDirection(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	// Poly No 0.25 + Kalshi Yes 0.55 is the cheaper hedge.
	opps := c.CrossVenue([]domain.MatchedPair{testPair(0.75, 0.25, 0.55, 0.45)})
	require.Len(t, opps, 1)
	assert.Equal(t, domain.StratPolyNoKalshiYes, opps[0].Strategy)
	assert.InDelta(t, 0.808, opps[0].TotalCost, 1e-9)
}

func TestCrossVenueTieKeepsYesNoDirection(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	opps := c.CrossVenue([]domain.MatchedPair{testPair(0.45, 0.45, 0.45, 0.45)})
	require.Len(t, opps, 1)
	assert.Equal(t, domain.StratPolyYesKalshiNo, opps[0].Strategy)
}

func TestCrossVenueBreakEvenSkipped(t *testing.T) {
	c := NewCalculator(0, 0, 100)

	// Totals of exactly 1.0 both ways: no opportunity.
	assert.Empty(t, c.CrossVenue([]domain.MatchedPair{testPair(0.40, 0.60, 0.40, 0.60)}))
	assert.Empty(t, c.CrossVenue([]domain.MatchedPair{testPair(0.50, 0.50, 0.50, 0.50)}))
}

func TestCrossVenueAllocationsSpendBudgetOnContracts(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	opps := c.CrossVenue([]domain.MatchedPair{testPair(0.30, 0.70, 0.40, 0.60)})
	require.Len(t, opps, 1)

	legs := opps[0].Legs
	assert.InDelta(t, 100*0.30/0.909, legs[0].Allocation, 1e-9)
	assert.InDelta(t, 100*0.60/0.909, legs[1].Allocation, 1e-9)
}

func TestIntraVenueBoundaryAtOneDollar(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	// 0.40*1.01 = 0.404 -> 0.41; 0.58*1.01 = 0.5858 -> 0.59.
	// Total exactly 1.00: no opportunity.
	markets := []domain.Market{polyMarket("p1", "Will Trump pardon Snowden?", 0.40, 0.58)}
	assert.Empty(t, c.IntraVenue(markets))
}

func TestIntraVenueProfitable(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	markets := []domain.Market{kalshiMarket("k1", "Trump to pardon Snowden?", 0.40, 0.55)}
	opps := c.IntraVenue(markets)
	require.Len(t, opps, 1)

	o := opps[0]
	assert.Equal(t, domain.OppIntraVenue, o.Kind)
	assert.Equal(t, domain.StratYesPlusNo, o.Strategy)
	assert.Equal(t, "k1", o.PairKey)
	// 0.404 -> 0.41 plus 0.5555 -> 0.56.
	assert.InDelta(t, 0.97, o.TotalCost, 1e-9)
	assert.InDelta(t, (1/0.97-1)*100, o.ROI, 1e-9)

	require.Len(t, o.Legs, 2)
	assert.Equal(t, domain.VenueKalshi, o.Legs[0].Venue)
	assert.InDelta(t, 0.41, o.Legs[0].LoadedPrice, 1e-9)
	assert.InDelta(t, 0.56, o.Legs[1].LoadedPrice, 1e-9)
}

func TestIntraVenueSkipsUnpriced(t *testing.T) {
	c := NewCalculator(0.01, 0.01, 100)

	assert.Empty(t, c.IntraVenue([]domain.Market{polyMarket("p1", "q", 0.40, 0)}))
}

func TestCeilCent(t *testing.T) {
	assert.InDelta(t, 0.41, ceilCent(0.404), 1e-9)
	assert.InDelta(t, 0.59, ceilCent(0.5858), 1e-9)
	assert.InDelta(t, 0.40, ceilCent(0.40), 1e-9)
	assert.InDelta(t, 1.00, ceilCent(0.991), 1e-9)
}
