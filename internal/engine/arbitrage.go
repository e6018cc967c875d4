package engine

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Calculator prices arbitrage opportunities over matched pairs and raw
// venue snapshots. All prices are fractions of $1 per contract; fees
// are applied as a multiplier on each leg.
type Calculator struct {
	polyFee   float64
	kalshiFee float64
	budget    float64
}

func NewCalculator(polyFee, kalshiFee, budget float64) *Calculator {
	return &Calculator{polyFee: polyFee, kalshiFee: kalshiFee, budget: budget}
}

// CrossVenue evaluates both hedge directions for each matched pair and
// returns an opportunity for the cheaper one when its fee-loaded total
// is under $1. A total of exactly $1 is break-even and is skipped.
func (c *Calculator) CrossVenue(pairs []domain.MatchedPair) []domain.Opportunity {
	now := time.Now().UTC()
	opps := make([]domain.Opportunity, 0)

	for _, pair := range pairs {
		polyYes := pair.Polymarket.YesPrice*(1+c.polyFee) + pair.Kalshi.NoPrice*(1+c.kalshiFee)
		polyNo := pair.Polymarket.NoPrice*(1+c.polyFee) + pair.Kalshi.YesPrice*(1+c.kalshiFee)

		total := polyYes
		strategy := domain.StratPolyYesKalshiNo
		legs := []domain.OpportunityLeg{
			c.leg(pair.Polymarket, "yes", pair.Polymarket.YesPrice, c.polyFee, polyYes),
			c.leg(pair.Kalshi, "no", pair.Kalshi.NoPrice, c.kalshiFee, polyYes),
		}
		if polyNo < polyYes {
			total = polyNo
			strategy = domain.StratPolyNoKalshiYes
			legs = []domain.OpportunityLeg{
				c.leg(pair.Polymarket, "no", pair.Polymarket.NoPrice, c.polyFee, polyNo),
				c.leg(pair.Kalshi, "yes", pair.Kalshi.YesPrice, c.kalshiFee, polyNo),
			}
		}

		if total >= 1 {
			continue
		}

		roi := (1/total - 1) * 100
		opps = append(opps, domain.Opportunity{
			ID:         uuid.NewString(),
			Kind:       domain.OppCrossVenue,
			Strategy:   strategy,
			PairKey:    pair.Key,
			Questions:  []string{pair.Polymarket.Question, pair.Kalshi.Question},
			Legs:       legs,
			TotalCost:  total,
			ROI:        roi,
			Profit:     c.budget * (1/total - 1),
			Budget:     c.budget,
			DetectedAt: now,
		})
	}

	return opps
}

// IntraVenue looks for markets where buying both Yes and No on the same
// venue costs under $1 after fees. Each fee-loaded leg is rounded up to
// the next cent before summing, matching how the venues bill.
func (c *Calculator) IntraVenue(markets []domain.Market) []domain.Opportunity {
	now := time.Now().UTC()
	opps := make([]domain.Opportunity, 0)

	for _, mk := range markets {
		if !mk.Priced() {
			continue
		}
		fee := c.feeFor(mk.Venue)
		yesLoaded := ceilCent(mk.YesPrice * (1 + fee))
		noLoaded := ceilCent(mk.NoPrice * (1 + fee))
		total := yesLoaded + noLoaded
		if total >= 1 {
			continue
		}

		roi := (1/total - 1) * 100
		opps = append(opps, domain.Opportunity{
			ID:        uuid.NewString(),
			Kind:      domain.OppIntraVenue,
			Strategy:  domain.StratYesPlusNo,
			PairKey:   mk.ID,
			Questions: []string{mk.Question},
			Legs: []domain.OpportunityLeg{
				{Venue: mk.Venue, MarketID: mk.ID, Outcome: "yes", Price: mk.YesPrice, LoadedPrice: yesLoaded, Allocation: c.budget * mk.YesPrice / total},
				{Venue: mk.Venue, MarketID: mk.ID, Outcome: "no", Price: mk.NoPrice, LoadedPrice: noLoaded, Allocation: c.budget * mk.NoPrice / total},
			},
			TotalCost:  total,
			ROI:        roi,
			Profit:     c.budget * (1/total - 1),
			Budget:     c.budget,
			DetectedAt: now,
		})
	}

	return opps
}

func (c *Calculator) leg(mk domain.Market, outcome string, price, fee, total float64) domain.OpportunityLeg {
	return domain.OpportunityLeg{
		Venue:       mk.Venue,
		MarketID:    mk.ID,
		Outcome:     outcome,
		Price:       price,
		LoadedPrice: price * (1 + fee),
		Allocation:  c.budget * price / total,
	}
}

func (c *Calculator) feeFor(v domain.Venue) float64 {
	if v == domain.VenueKalshi {
		return c.kalshiFee
	}
	return c.polyFee
}

func ceilCent(v float64) float64 {
	return math.Ceil(v*100) / 100
}
