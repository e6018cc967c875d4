package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

type recordingSender struct {
	titles   []string
	messages []string
}

func (r *recordingSender) Send(_ context.Context, title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingSender) Name() string { return "recording" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAlertScanFiltersByROI(t *testing.T) {
	rec := &recordingSender{}
	notifier := NewNotifier([]Sender{rec}, nil, discardLogger())
	alerter := NewAlerter(notifier, 2.0)

	result := domain.ScanResult{
		ID: "scan-abc-123",
		CrossVenue: []domain.Opportunity{
			{Kind: domain.OppCrossVenue, ROI: 5.2, TotalCost: 0.95, Questions: []string{"Will it rain?", "Rain tomorrow?"}},
			{Kind: domain.OppCrossVenue, ROI: 0.4, TotalCost: 0.996, Questions: []string{"Quiet market"}},
		},
	}

	err := alerter.AlertScan(context.Background(), result)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.titles[0], "scan-abc-")
	assert.Contains(t, rec.messages[0], "5.20% ROI")
	assert.NotContains(t, rec.messages[0], "Quiet market")
}

func TestAlertScanQuietWhenNothingQualifies(t *testing.T) {
	rec := &recordingSender{}
	notifier := NewNotifier([]Sender{rec}, nil, discardLogger())
	alerter := NewAlerter(notifier, 2.0)

	err := alerter.AlertScan(context.Background(), domain.ScanResult{
		ID:         "scan-quiet",
		IntraVenue: []domain.Opportunity{{ROI: 1.0, Questions: []string{"meh"}}},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.messages)
}

func TestNotifierEventFilter(t *testing.T) {
	rec := &recordingSender{}
	notifier := NewNotifier([]Sender{rec}, []string{EventCrossVenue}, discardLogger())

	require.NoError(t, notifier.Notify(context.Background(), EventIntraVenue, "skip", "skipped"))
	require.NoError(t, notifier.Notify(context.Background(), EventCrossVenue, "keep", "kept"))

	require.Len(t, rec.titles, 1)
	assert.Equal(t, "keep", rec.titles[0])
}
