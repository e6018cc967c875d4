package domain

import "time"

// ScanResult is the full output of one engine pass over a pair of venue
// snapshots: the matched-pairs view plus the two arbitrage views, already
// ranked. Every scan produces a fresh, self-contained result.
type ScanResult struct {
	ID              string        `json:"id"`
	Strategy        string        `json:"strategy"`
	PolymarketCount int           `json:"polymarket_count"`
	KalshiCount     int           `json:"kalshi_count"`
	Pairs           []MatchedPair `json:"pairs"`
	CrossVenue      []Opportunity `json:"cross_venue"`
	IntraVenue      []Opportunity `json:"intra_venue"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
}

// ScanSummary is the lightweight shape published on the signal bus and
// pushed to websocket clients after each scan.
type ScanSummary struct {
	ID              string    `json:"id"`
	Strategy        string    `json:"strategy"`
	PolymarketCount int       `json:"polymarket_count"`
	KalshiCount     int       `json:"kalshi_count"`
	PairCount       int       `json:"pair_count"`
	CrossVenueCount int       `json:"cross_venue_count"`
	IntraVenueCount int       `json:"intra_venue_count"`
	BestROI         float64   `json:"best_roi"`
	StartedAt       time.Time `json:"started_at"`
}

// Summary derives the bus/websocket summary from a full result.
func (r ScanResult) Summary() ScanSummary {
	best := 0.0
	for _, o := range r.CrossVenue {
		if o.ROI > best {
			best = o.ROI
		}
	}
	for _, o := range r.IntraVenue {
		if o.ROI > best {
			best = o.ROI
		}
	}
	return ScanSummary{
		ID:              r.ID,
		Strategy:        r.Strategy,
		PolymarketCount: r.PolymarketCount,
		KalshiCount:     r.KalshiCount,
		PairCount:       len(r.Pairs),
		CrossVenueCount: len(r.CrossVenue),
		IntraVenueCount: len(r.IntraVenue),
		BestROI:         best,
		StartedAt:       r.StartedAt,
	}
}
