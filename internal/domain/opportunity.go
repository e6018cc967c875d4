package domain

import "time"

// OpportunityKind classifies how an arbitrage position is assembled.
type OpportunityKind string

const (
	// OppCrossVenue hedges Yes on one venue against No on the other.
	OppCrossVenue OpportunityKind = "cross_venue"
	// OppIntraVenue buys both sides of a single market on one venue.
	OppIntraVenue OpportunityKind = "intra_venue"
)

// Cross-venue strategy labels: which side pairs with which.
const (
	StratPolyYesKalshiNo = "poly_yes+kalshi_no"
	StratPolyNoKalshiYes = "poly_no+kalshi_yes"
	StratYesPlusNo       = "yes+no"
)

// OpportunityLeg is one purchased side of an arbitrage position.
type OpportunityLeg struct {
	Venue    Venue   `json:"venue"`
	MarketID string  `json:"market_id"`
	Outcome  string  `json:"outcome"` // "yes" or "no"
	Price    float64 `json:"price"`   // raw venue price, fraction of 1
	// LoadedPrice is the effective per-share cost after the venue fee
	// (and, for intra-venue, after rounding up to the next cent).
	LoadedPrice float64 `json:"loaded_price"`
	// Allocation is the stake assigned to this leg for the configured
	// budget: budget x price / total. Allocations sum to the notional
	// spent on contracts; fees account for the remainder of the budget.
	Allocation float64 `json:"allocation"`
}

// Opportunity is a guaranteed-payout combination whose fee-loaded total cost
// is below 1. It is derived fresh from one Market (intra-venue) or one
// MatchedPair (cross-venue) plus the fee configuration, and only exists when
// TotalCost < 1, so ROI is always >= 0.
type Opportunity struct {
	ID       string          `json:"id"`
	Kind     OpportunityKind `json:"kind"`
	Strategy string          `json:"strategy"`
	PairKey  string          `json:"pair_key,omitempty"`
	// Questions holds both venue questions for a cross-venue opportunity
	// and the single market question for an intra-venue one.
	Questions  []string         `json:"questions"`
	Legs       []OpportunityLeg `json:"legs"`
	TotalCost  float64          `json:"total_cost"`
	ROI        float64          `json:"roi"` // percent
	Profit     float64          `json:"profit"`
	Budget     float64          `json:"budget"`
	DetectedAt time.Time        `json:"detected_at"`
}
