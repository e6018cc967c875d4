package kalshi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

func TestToDomainMarketCentsToFractions(t *testing.T) {
	m := KalshiMarket{
		Ticker:      "KXNFLGAME-26JAN-KC",
		EventTicker: "KXNFLGAME-26JAN",
		Title:       "Will Kansas City win the Super Bowl?",
		Status:      "active",
		YesAsk:      42,
		NoAsk:       59,
		Volume24H:   1500,
		CloseTime:   "2026-02-09T00:00:00Z",
	}

	d := m.ToDomainMarket()

	assert.Equal(t, domain.VenueKalshi, d.Venue)
	assert.Equal(t, "KXNFLGAME-26JAN-KC", d.ID)
	assert.InDelta(t, 0.42, d.YesPrice, 1e-9)
	assert.InDelta(t, 0.59, d.NoPrice, 1e-9)
	assert.Equal(t, "https://kalshi.com/markets/KXNFLGAME-26JAN", d.URL)
	assert.Equal(t, 1500.0, d.Volume24h)
	require.NotNil(t, d.CloseTime)
}

func TestPricedRequiresBothAsks(t *testing.T) {
	assert.True(t, (&KalshiMarket{YesAsk: 42, NoAsk: 59}).Priced())
	// A last trade is not a standing quote; it never substitutes for an ask.
	assert.False(t, (&KalshiMarket{YesAsk: 0, NoAsk: 59, LastPrice: 30}).Priced())
	assert.False(t, (&KalshiMarket{YesAsk: 42, NoAsk: 0, LastPrice: 30}).Priced())
}

func TestTradeable(t *testing.T) {
	assert.True(t, (&KalshiMarket{Status: "active"}).Tradeable())
	assert.True(t, (&KalshiMarket{Status: "Open"}).Tradeable())
	assert.False(t, (&KalshiMarket{Status: "settled"}).Tradeable())
}

func TestListOpenMarketsGeneralThenSeries(t *testing.T) {
	page := func(tickers []string, cursor string) string {
		type m struct {
			Ticker string  `json:"ticker"`
			Title  string  `json:"title"`
			Status string  `json:"status"`
			YesAsk float64 `json:"yes_ask"`
			NoAsk  float64 `json:"no_ask"`
		}
		var ms []m
		for _, tk := range tickers {
			ms = append(ms, m{Ticker: tk, Title: "q", Status: "active", YesAsk: 40, NoAsk: 61})
		}
		b, _ := json.Marshal(map[string]any{"markets": ms, "cursor": cursor})
		return string(b)
	}

	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, q.Get("series_ticker")+"/"+q.Get("cursor"))
		assert.Equal(t, "open", q.Get("status"))

		switch {
		case q.Get("series_ticker") == "":
			assert.Equal(t, "1000", q.Get("limit"))
			w.Write([]byte(page([]string{"G1", "A1"}, "")))
		case q.Get("series_ticker") == "A" && q.Get("cursor") == "":
			w.Write([]byte(page([]string{"A1", "A2"}, "next")))
		case q.Get("series_ticker") == "A":
			w.Write([]byte(page([]string{"A3"}, "")))
		default:
			w.Write([]byte(page([]string{"B1"}, "")))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	markets, err := client.ListOpenMarkets(context.Background(), []string{"A", "B"}, 1000, 200)
	require.NoError(t, err)

	// General listing runs first; A1 appears there and again in the series
	// walk, and survives exactly once.
	assert.Equal(t, []string{"/", "A/", "A/next", "B/"}, requests)
	ids := make([]string, 0, len(markets))
	for _, m := range markets {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"G1", "A1", "A2", "A3", "B1"}, ids)
}

func TestListOpenMarketsFiltersUntradeableAndUnpriced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"markets":[
			{"ticker":"OPEN","status":"active","yes_ask":40,"no_ask":61},
			{"ticker":"DONE","status":"settled","yes_ask":99,"no_ask":1},
			{"ticker":"THIN","status":"active","yes_ask":40,"last_price":40}
		],"cursor":""}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	markets, err := client.ListOpenMarkets(context.Background(), nil, 1000, 200)
	require.NoError(t, err)

	require.Len(t, markets, 1)
	assert.Equal(t, "OPEN", markets[0].ID)
}

func TestGetMarketsErrorTaxonomy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"not_found","message":"no such series"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, _, err := client.GetMarkets(context.Background(), "NOPE", 10, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
