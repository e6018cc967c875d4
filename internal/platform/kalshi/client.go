// Package kalshi provides the REST client for the public Kalshi market
// endpoints. Market discovery and pricing need no credentials, so the client
// sends plain unauthenticated requests.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Client is the REST client for the Kalshi exchange API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Kalshi REST client.
//
// baseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMarkets returns one page of markets, optionally filtered to a series
// ticker, along with the cursor for the next page. An empty returned cursor
// means the listing is exhausted.
func (c *Client) GetMarkets(ctx context.Context, seriesTicker string, limit int, cursor string) ([]KalshiMarket, string, error) {
	params := url.Values{}
	params.Set("status", "open")
	if seriesTicker != "" {
		params.Set("series_ticker", seriesTicker)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	body, err := c.doGet(ctx, "/markets?"+params.Encode())
	if err != nil {
		return nil, "", fmt.Errorf("kalshi: get markets: %w", err)
	}

	var resp struct {
		Markets []KalshiMarket `json:"markets"`
		Cursor  string         `json:"cursor"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("kalshi: decode markets: %w", err)
	}

	return resp.Markets, resp.Cursor, nil
}

// ListOpenMarkets returns all tradeable, fully-priced markets: one general
// query of up to generalLimit markets, then a cursor walk over every
// configured sports series, deduplicated by ticker across queries. Sports
// markets mostly live under their series tickers and barely surface in the
// general listing, which is why both passes are needed.
//
// A failed general query with nothing fetched aborts the listing; a series
// failing mid-walk contributes what was fetched before the failure.
func (c *Client) ListOpenMarkets(ctx context.Context, series []string, generalLimit, seriesLimit int) ([]domain.Market, error) {
	var all []domain.Market
	seen := make(map[string]struct{})

	keep := func(markets []KalshiMarket) {
		for i := range markets {
			m := &markets[i]
			if !m.Tradeable() || !m.Priced() {
				continue
			}
			if _, dup := seen[m.Ticker]; dup {
				continue
			}
			seen[m.Ticker] = struct{}{}
			all = append(all, m.ToDomainMarket())
		}
	}

	// General listing first. One capped page: the long tail beyond it is
	// low-volume markets the matcher would discard anyway.
	markets, _, err := c.GetMarkets(ctx, "", generalLimit, "")
	if err != nil {
		return nil, err
	}
	keep(markets)

	for _, ticker := range series {
		cursor := ""
		for {
			markets, next, err := c.GetMarkets(ctx, ticker, seriesLimit, cursor)
			if err != nil {
				break
			}
			keep(markets)
			if next == "" {
				break
			}
			cursor = next
		}
	}
	return all, nil
}

// GetMarket returns a single market by its ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (KalshiMarket, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(ticker))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return KalshiMarket{}, fmt.Errorf("kalshi: get market %s: %w", ticker, err)
	}

	var resp struct {
		Market KalshiMarket `json:"market"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return KalshiMarket{}, fmt.Errorf("kalshi: decode market: %w", err)
	}

	return resp.Market, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet builds, sends, and reads an unauthenticated GET request against the
// Kalshi API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	return respBody, nil
}

// checkStatus maps non-2xx HTTP status codes onto the domain error taxonomy.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr KalshiErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s (%s)", domain.ErrNotFound, apiErr.Message, apiErr.Code)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s (%s)", domain.ErrUnauthorized, apiErr.Message, apiErr.Code)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s (%s)", domain.ErrRateLimited, apiErr.Message, apiErr.Code)
	default:
		return fmt.Errorf("kalshi: HTTP %d: %s (%s)", statusCode, apiErr.Message, apiErr.Code)
	}
}
