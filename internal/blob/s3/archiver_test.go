package s3blob

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

type recordingWriter struct {
	objects map[string]string
}

func (w *recordingWriter) Put(_ context.Context, path string, data io.Reader, _ string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if w.objects == nil {
		w.objects = make(map[string]string)
	}
	w.objects[path] = string(b)
	return nil
}

func (w *recordingWriter) PutMultipart(ctx context.Context, path string, data io.Reader, _ int64) error {
	return w.Put(ctx, path, data, "")
}

type fakeOppStore struct {
	rows []domain.Opportunity
}

func (s *fakeOppStore) ListBefore(_ context.Context, before time.Time) ([]domain.Opportunity, error) {
	var out []domain.Opportunity
	for _, o := range s.rows {
		if o.DetectedAt.Before(before) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOppStore) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	var kept []domain.Opportunity
	var deleted int64
	for _, o := range s.rows {
		if o.DetectedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, o)
	}
	s.rows = kept
	return deleted, nil
}

type fakePairStore struct{}

func (fakePairStore) ListBefore(context.Context, time.Time) ([]domain.MatchedPair, error) {
	return nil, nil
}

func (fakePairStore) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArchiveOpportunitiesKeepsEarlierRuns(t *testing.T) {
	day1 := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	store := &fakeOppStore{rows: []domain.Opportunity{
		{ID: "day1", DetectedAt: day1},
		{ID: "day2", DetectedAt: day2},
	}}
	writer := &recordingWriter{}
	arch := NewArchiver(writer, store, fakePairStore{}, discardLogger())

	// Two runs in the same month, cutoffs one day apart. Rows archived by
	// the first run are pruned from the store, so the second run must not
	// replace the first run's object.
	n, err := arch.ArchiveOpportunities(context.Background(), day1.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = arch.ArchiveOpportunities(context.Background(), day2.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Len(t, writer.objects, 2)
	var all strings.Builder
	for path, body := range writer.objects {
		assert.True(t, strings.HasPrefix(path, "archive/opportunities/2025-01/"), path)
		all.WriteString(body)
	}
	assert.Contains(t, all.String(), `"day1"`)
	assert.Contains(t, all.String(), `"day2"`)
	assert.Empty(t, store.rows)
}

func TestArchiveOpportunitiesEmptyWindowUploadsNothing(t *testing.T) {
	writer := &recordingWriter{}
	arch := NewArchiver(writer, &fakeOppStore{}, fakePairStore{}, discardLogger())

	n, err := arch.ArchiveOpportunities(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, writer.objects)
}

func TestArchivePathUniquePerCutoff(t *testing.T) {
	a := archivePath("pairs", time.Date(2025, 1, 14, 6, 0, 0, 0, time.UTC))
	b := archivePath("pairs", time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC))

	assert.Equal(t, "archive/pairs/2025-01/20250114T060000Z.jsonl", a)
	assert.NotEqual(t, a, b)
}
