package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number or a numeric string; the Gamma API
// sends volume fields both ways.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

// APIMarket represents a market as returned by the Polymarket Gamma API.
// Outcomes and OutcomePrices arrive double-encoded: JSON strings that
// themselves contain JSON arrays.
type APIMarket struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Slug          string    `json:"slug"`
	Active        flexBool  `json:"active"`
	Closed        bool      `json:"closed"`
	Outcomes      string    `json:"outcomes"`      // e.g. "[\"Yes\",\"No\"]"
	OutcomePrices string    `json:"outcomePrices"` // e.g. "[\"0.65\",\"0.35\"]"
	Volume24hr    flexFloat `json:"volume24hr"`
	EndDateISO    string    `json:"endDateIso"`
}

// ToDomainMarket converts the Gamma DTO to a domain.Market. Prices map by
// outcome label when the labels parse; a plain two-outcome market falls back
// to positional Yes/No. Unparseable prices yield a zero-priced market, which
// the engine's Priced guard then drops.
func (m *APIMarket) ToDomainMarket() domain.Market {
	out := domain.Market{
		ID:        m.ID,
		Venue:     domain.VenuePolymarket,
		Question:  m.Question,
		URL:       "https://polymarket.com/event/" + m.Slug,
		Volume24h: float64(m.Volume24hr),
	}

	var outcomes []string
	var prices []string
	_ = json.Unmarshal([]byte(m.Outcomes), &outcomes)
	_ = json.Unmarshal([]byte(m.OutcomePrices), &prices)

	yesIdx, noIdx := -1, -1
	for i, o := range outcomes {
		switch strings.ToLower(o) {
		case "yes":
			yesIdx = i
		case "no":
			noIdx = i
		}
	}
	if yesIdx < 0 && noIdx < 0 && len(prices) == 2 {
		yesIdx, noIdx = 0, 1
	}
	if yesIdx >= 0 && yesIdx < len(prices) {
		out.YesPrice, _ = strconv.ParseFloat(prices[yesIdx], 64)
	}
	if noIdx >= 0 && noIdx < len(prices) {
		out.NoPrice, _ = strconv.ParseFloat(prices[noIdx], 64)
	}

	if t, err := time.Parse(time.RFC3339, m.EndDateISO); err == nil {
		out.CloseTime = &t
	} else if t, err := time.Parse("2006-01-02", m.EndDateISO); err == nil {
		out.CloseTime = &t
	}

	return out
}
