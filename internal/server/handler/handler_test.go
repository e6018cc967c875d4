package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

type fakeResultCache struct {
	result domain.ScanResult
	err    error
}

func (f *fakeResultCache) SetResult(context.Context, domain.ScanResult) error {
	return nil
}

func (f *fakeResultCache) GetResult(context.Context) (domain.ScanResult, error) {
	return f.result, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResult() domain.ScanResult {
	return domain.ScanResult{
		ID: "scan-1",
		Pairs: []domain.MatchedPair{
			{
				Key:        "p1|k1",
				Polymarket: domain.Market{ID: "p1", Venue: domain.VenuePolymarket, Question: "Will Bitcoin reach $150,000 in 2025?"},
				Kalshi:     domain.Market{ID: "k1", Venue: domain.VenueKalshi, Question: "Bitcoin above $150k by Dec 31 2025?"},
				Score:      90,
				Subjects:   []string{"bitcoin"},
			},
		},
		CrossVenue: []domain.Opportunity{
			{ID: "o1", Kind: domain.OppCrossVenue, ROI: 5.0, Questions: []string{"Will Bitcoin reach $150,000 in 2025?"}},
			{ID: "o2", Kind: domain.OppCrossVenue, ROI: 0.5, Questions: []string{"Will it rain in Miami?"}},
		},
		IntraVenue: []domain.Opportunity{
			{ID: "o3", Kind: domain.OppIntraVenue, ROI: 3.1, Questions: []string{"Fed cut in March?"}},
		},
		StartedAt: time.Now().UTC(),
	}
}

func TestListPairsFiltersByQuery(t *testing.T) {
	h := NewPairHandler(&fakeResultCache{result: sampleResult()}, testLogger())

	rec := httptest.NewRecorder()
	h.ListPairs(rec, httptest.NewRequest(http.MethodGet, "/api/pairs?q=bitcoin", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listPairsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "scan-1", resp.ScanID)
	require.Len(t, resp.Pairs, 1)

	rec = httptest.NewRecorder()
	h.ListPairs(rec, httptest.NewRequest(http.MethodGet, "/api/pairs?q=weather", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Pairs)
}

func TestListPairsNoResultYet(t *testing.T) {
	h := NewPairHandler(&fakeResultCache{err: domain.ErrNotFound}, testLogger())

	rec := httptest.NewRecorder()
	h.ListPairs(rec, httptest.NewRequest(http.MethodGet, "/api/pairs", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCrossVenueAppliesROIFloor(t *testing.T) {
	h := NewArbHandler(&fakeResultCache{result: sampleResult()}, testLogger())

	rec := httptest.NewRecorder()
	h.ListCrossVenue(rec, httptest.NewRequest(http.MethodGet, "/api/arbitrage/cross?min_roi=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listOppsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Opportunities, 1)
	assert.Equal(t, "o1", resp.Opportunities[0].ID)
}

func TestListIntraVenue(t *testing.T) {
	h := NewArbHandler(&fakeResultCache{result: sampleResult()}, testLogger())

	rec := httptest.NewRecorder()
	h.ListIntraVenue(rec, httptest.NewRequest(http.MethodGet, "/api/arbitrage/intra", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listOppsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Opportunities, 1)
	assert.Equal(t, "o3", resp.Opportunities[0].ID)
}

func TestListHistoryRejectsUnknownKind(t *testing.T) {
	h := NewArbHandler(&fakeResultCache{result: sampleResult()}, testLogger()).
		WithOpportunityStore(&stubOppStore{})

	rec := httptest.NewRecorder()
	h.ListHistory(rec, httptest.NewRequest(http.MethodGet, "/api/arbitrage/history?kind=sideways", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerScanCoalesces(t *testing.T) {
	ch := make(chan struct{}, 1)
	h := NewScanHandler(&fakeResultCache{result: sampleResult()}, testLogger()).
		WithTriggerChannel(ch)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.TriggerScan(rec, httptest.NewRequest(http.MethodPost, "/api/scans/trigger", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}

	// Coalesced: only one pending trigger regardless of request count.
	assert.Len(t, ch, 1)
}

func TestListScanFeedReturnsCursors(t *testing.T) {
	bus := &fakeSignalBus{msgs: []domain.StreamMessage{
		{ID: "1-0", Payload: []byte(`{"id":"scan-1"}`)},
		{ID: "2-0", Payload: []byte(`{"id":"scan-2"}`)},
	}}
	h := NewScanHandler(&fakeResultCache{result: sampleResult()}, testLogger()).
		WithSignalBus(bus)

	rec := httptest.NewRecorder()
	h.ListScanFeed(rec, httptest.NewRequest(http.MethodGet, "/api/scans/feed?after=0", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Entries []scanFeedEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "2-0", resp.Entries[1].Cursor)
	assert.Equal(t, "0", bus.gotLastID)
}

func TestListScanFeedNotConfigured(t *testing.T) {
	h := NewScanHandler(&fakeResultCache{result: sampleResult()}, testLogger())

	rec := httptest.NewRecorder()
	h.ListScanFeed(rec, httptest.NewRequest(http.MethodGet, "/api/scans/feed", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

type fakeSignalBus struct {
	msgs      []domain.StreamMessage
	gotLastID string
}

func (f *fakeSignalBus) Publish(context.Context, string, []byte) error { return nil }

func (f *fakeSignalBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeSignalBus) StreamAppend(context.Context, string, []byte) error { return nil }

func (f *fakeSignalBus) StreamRead(_ context.Context, _ string, lastID string, _ int) ([]domain.StreamMessage, error) {
	f.gotLastID = lastID
	return f.msgs, nil
}

func TestListArchivesRejectsUnknownKind(t *testing.T) {
	h := NewArchiveHandler(&fakeBlobReader{}, testLogger())

	rec := httptest.NewRecorder()
	h.ListArchives(rec, httptest.NewRequest(http.MethodGet, "/api/archives?kind=trades", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListArchivesFiltersByKind(t *testing.T) {
	blobs := &fakeBlobReader{infos: []domain.BlobInfo{
		{Path: "archive/pairs/2026-07/20260715T060000Z.jsonl", Size: 512},
	}}
	h := NewArchiveHandler(blobs, testLogger())

	rec := httptest.NewRecorder()
	h.ListArchives(rec, httptest.NewRequest(http.MethodGet, "/api/archives?kind=pairs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "archive/pairs/", blobs.gotPrefix)
}

func TestListArchivesNotConfigured(t *testing.T) {
	h := NewArchiveHandler(nil, testLogger())

	rec := httptest.NewRecorder()
	h.ListArchives(rec, httptest.NewRequest(http.MethodGet, "/api/archives", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

type fakeBlobReader struct {
	infos     []domain.BlobInfo
	gotPrefix string
}

func (f *fakeBlobReader) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeBlobReader) List(_ context.Context, prefix string) ([]domain.BlobInfo, error) {
	f.gotPrefix = prefix
	return f.infos, nil
}

func (f *fakeBlobReader) Exists(context.Context, string) (bool, error) {
	return false, nil
}

type stubOppStore struct{}

func (stubOppStore) InsertBatch(context.Context, string, []domain.Opportunity) error {
	return nil
}

func (stubOppStore) ListRecent(context.Context, domain.OpportunityKind, int) ([]domain.Opportunity, error) {
	return nil, nil
}

func (stubOppStore) ListBefore(context.Context, time.Time) ([]domain.Opportunity, error) {
	return nil, nil
}

func (stubOppStore) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
