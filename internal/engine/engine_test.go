package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Strategy = "fuzzy" }},
		{"negative polymarket fee", func(c *Config) { c.PolymarketFee = -0.01 }},
		{"negative kalshi fee", func(c *Config) { c.KalshiFee = -1 }},
		{"zero budget", func(c *Config) { c.Budget = 0 }},
		{"jaccard threshold above one", func(c *Config) { c.JaccardThreshold = 1.5 }},
		{"negative sequence threshold", func(c *Config) { c.SequenceThreshold = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "fuzzy"

	_, err := New(cfg, testLogger())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEngineScanEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	eng, err := New(cfg, testLogger())
	require.NoError(t, err)

	poly := []domain.Market{
		polyMarket("p1", "Will Trump pardon Snowden in 2026?", 0.30, 0.70),
		polyMarket("p2", "Will the Fed cut rates in 2026?", 0.55, 0.45),
	}
	kalshi := []domain.Market{
		kalshiMarket("k1", "Trump to pardon Snowden in 2026?", 0.40, 0.60),
		kalshiMarket("k2", "Will Bitcoin reach $150,000 in 2025?", 0.40, 0.55),
	}

	result := eng.Scan(poly, kalshi)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, StrategyStrict, result.Strategy)
	assert.Equal(t, 2, result.PolymarketCount)
	assert.Equal(t, 2, result.KalshiCount)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, domain.PairKey("p1", "k1"), result.Pairs[0].Key)

	// The matched pair hedges at 0.303 + 0.606 = 0.909 under the dollar.
	require.Len(t, result.CrossVenue, 1)
	assert.InDelta(t, 0.909, result.CrossVenue[0].TotalCost, 1e-9)
	assert.Positive(t, result.CrossVenue[0].ROI)

	// k2 buys yes+no for 0.41 + 0.56 = 0.97 after loading and rounding.
	require.Len(t, result.IntraVenue, 1)
	assert.Equal(t, "k2", result.IntraVenue[0].PairKey)
	assert.InDelta(t, 0.97, result.IntraVenue[0].TotalCost, 1e-9)
}

func TestEngineScanMinROIFiltersOpportunities(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinROI = 50 // nothing plausible clears this

	eng, err := New(cfg, testLogger())
	require.NoError(t, err)

	poly := []domain.Market{polyMarket("p1", "Will Trump pardon Snowden in 2026?", 0.30, 0.70)}
	kalshi := []domain.Market{kalshiMarket("k1", "Trump to pardon Snowden in 2026?", 0.40, 0.60)}

	result := eng.Scan(poly, kalshi)
	assert.Len(t, result.Pairs, 1, "pairs are reported regardless of ROI")
	assert.Empty(t, result.CrossVenue)
	assert.Empty(t, result.IntraVenue)
}

func TestEngineScanDeterministicPairs(t *testing.T) {
	eng, err := New(DefaultConfig(), testLogger())
	require.NoError(t, err)

	poly := []domain.Market{polyMarket("p1", "Will Trump pardon Snowden in 2026?", 0.30, 0.70)}
	kalshi := []domain.Market{kalshiMarket("k1", "Trump to pardon Snowden in 2026?", 0.40, 0.60)}

	a := eng.Scan(poly, kalshi)
	b := eng.Scan(poly, kalshi)
	assert.Equal(t, a.Pairs, b.Pairs)
}
