package kalshi

import (
	"strings"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// --------------------------------------------------------------------------
// Kalshi API DTOs
// --------------------------------------------------------------------------

// KalshiMarket represents a market as returned by the Kalshi REST API.
// All prices are in cents (1-99).
type KalshiMarket struct {
	Ticker         string  `json:"ticker"`
	EventTicker    string  `json:"event_ticker"`
	Title          string  `json:"title"`
	Subtitle       string  `json:"subtitle"`
	Status         string  `json:"status"` // "active", "closed", "settled"
	YesBid         float64 `json:"yes_bid"`
	YesAsk         float64 `json:"yes_ask"`
	NoBid          float64 `json:"no_bid"`
	NoAsk          float64 `json:"no_ask"`
	LastPrice      float64 `json:"last_price"`
	Volume         int64   `json:"volume"`
	Volume24H      int64   `json:"volume_24h"`
	OpenInterest   int64   `json:"open_interest"`
	ExpirationTime string  `json:"expiration_time"`
	Category       string  `json:"category"`
	Result         string  `json:"result"` // "yes", "no", "" (unsettled)
	CloseTime      string  `json:"close_time"`
}

// Tradeable reports whether the market is open for trading.
func (m *KalshiMarket) Tradeable() bool {
	s := strings.ToLower(m.Status)
	return s == "active" || s == "open"
}

// Priced reports whether both sides have a standing ask. A market missing
// either ask has no price anyone can actually buy at; last_price is a trade
// that already happened, not an executable quote, so it is never a
// substitute.
func (m *KalshiMarket) Priced() bool {
	return m.YesAsk > 0 && m.NoAsk > 0
}

// ToDomainMarket converts the Kalshi DTO to a domain.Market, translating cent
// asks to dollar fractions. Callers filter with Priced first; the conversion
// itself does not guess at missing sides.
func (m *KalshiMarket) ToDomainMarket() domain.Market {
	out := domain.Market{
		ID:        m.Ticker,
		Venue:     domain.VenueKalshi,
		Question:  m.Title,
		YesPrice:  m.YesAsk / 100,
		NoPrice:   m.NoAsk / 100,
		URL:       "https://kalshi.com/markets/" + m.EventTicker,
		Volume24h: float64(m.Volume24H),
	}

	if t, err := time.Parse(time.RFC3339, m.CloseTime); err == nil {
		out.CloseTime = &t
	}

	return out
}

// KalshiErrorResponse represents a Kalshi API error response.
type KalshiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
