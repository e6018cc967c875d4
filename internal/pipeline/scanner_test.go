package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

type fakePolyFeed struct {
	markets []domain.Market
	err     error
}

func (f *fakePolyFeed) ListActiveMarkets(context.Context, int, int) ([]domain.Market, error) {
	return f.markets, f.err
}

type fakeKalshiFeed struct {
	markets []domain.Market
	err     error
}

func (f *fakeKalshiFeed) ListOpenMarkets(context.Context, []string, int, int) ([]domain.Market, error) {
	return f.markets, f.err
}

type fakeEngine struct {
	gotPoly   []domain.Market
	gotKalshi []domain.Market
	result    domain.ScanResult
}

func (f *fakeEngine) Scan(poly, kalshi []domain.Market) domain.ScanResult {
	f.gotPoly = poly
	f.gotKalshi = kalshi
	return f.result
}

type memResultCache struct {
	result *domain.ScanResult
}

func (m *memResultCache) SetResult(_ context.Context, r domain.ScanResult) error {
	m.result = &r
	return nil
}

func (m *memResultCache) GetResult(context.Context) (domain.ScanResult, error) {
	if m.result == nil {
		return domain.ScanResult{}, domain.ErrNotFound
	}
	return *m.result, nil
}

type heldLockManager struct{}

func (heldLockManager) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, domain.ErrLockHeld
}

func pipelineLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScannerConfig() ScannerConfig {
	return ScannerConfig{
		PolyPageSize:    500,
		PolyMaxPages:    1,
		KalshiSeries:    []string{"KXNBA"},
		KalshiPageLimit: 200,
		Interval:        time.Minute,
		SnapshotTTL:     5 * time.Minute,
	}
}

func TestRunOnceCachesResult(t *testing.T) {
	polyMarkets := []domain.Market{{ID: "p1", Venue: domain.VenuePolymarket, Question: "q", YesPrice: 0.5, NoPrice: 0.5}}
	kalshiMarkets := []domain.Market{{ID: "k1", Venue: domain.VenueKalshi, Question: "q", YesPrice: 0.5, NoPrice: 0.5}}

	eng := &fakeEngine{result: domain.ScanResult{ID: "scan-x", PolymarketCount: 1, KalshiCount: 1}}
	results := &memResultCache{}

	s := NewScanner(testScannerConfig(),
		&fakePolyFeed{markets: polyMarkets},
		&fakeKalshiFeed{markets: kalshiMarkets},
		eng, Stores{}, nil, results, nil, nil, nil, pipelineLogger())

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scan-x", result.ID)
	assert.Equal(t, polyMarkets, eng.gotPoly)
	assert.Equal(t, kalshiMarkets, eng.gotKalshi)

	cached, err := results.GetResult(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scan-x", cached.ID)
}

func TestRunOnceFailsWhenVenueFetchFails(t *testing.T) {
	s := NewScanner(testScannerConfig(),
		&fakePolyFeed{err: assert.AnError},
		&fakeKalshiFeed{},
		&fakeEngine{}, Stores{}, nil, nil, nil, nil, nil, pipelineLogger())

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetch polymarket")
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	poly := &fakePolyFeed{}
	s := NewScanner(testScannerConfig(),
		poly, &fakeKalshiFeed{}, &fakeEngine{}, Stores{},
		nil, nil, heldLockManager{}, nil, nil, pipelineLogger())

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, domain.ErrLockHeld)
}
