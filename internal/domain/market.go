package domain

import "time"

// Venue identifies one of the two prediction-market platforms the scanner
// compares.
type Venue string

const (
	VenuePolymarket Venue = "polymarket"
	VenueKalshi     Venue = "kalshi"
)

// Market is a single binary-outcome contract on one venue. Prices are
// fractions of 1 (a contract pays 1 per share on the winning side).
//
// A Market is an immutable snapshot taken on one poll cycle; a fresh record
// is built on every fetch and nothing downstream mutates it.
type Market struct {
	ID        string     `json:"id"`
	Venue     Venue      `json:"venue"`
	Question  string     `json:"question"`
	YesPrice  float64    `json:"yes_price"`
	NoPrice   float64    `json:"no_price"`
	URL       string     `json:"url"`
	CloseTime *time.Time `json:"close_time,omitempty"`
	Volume24h float64    `json:"volume_24h"`
}

// Priced reports whether both sides of the market carry a usable price.
// Feeds drop zero-priced markets before they reach the engine, but every
// arithmetic step re-checks this guard instead of trusting upstream.
func (m Market) Priced() bool {
	return m.YesPrice > 0 && m.NoPrice > 0
}
