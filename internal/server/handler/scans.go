package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// scanStreamName must match the stream the scanner appends summaries to.
const scanStreamName = "scans"

// ScanHandler serves scan metadata, the summary feed, and the manual
// trigger endpoint.
type ScanHandler struct {
	results   domain.ResultCache
	store     domain.ScanStore // optional; list endpoint returns 501 when nil
	bus       domain.SignalBus // optional; feed endpoint returns 501 when nil
	triggerCh chan<- struct{}  // when non-nil, sending requests one scan cycle
	logger    *slog.Logger
}

// NewScanHandler creates a ScanHandler serving from the result cache.
func NewScanHandler(results domain.ResultCache, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{results: results, logger: logger}
}

// WithScanStore enables the scan-list endpoint.
func (h *ScanHandler) WithScanStore(store domain.ScanStore) *ScanHandler {
	h.store = store
	return h
}

// WithSignalBus enables the scan-feed endpoint.
func (h *ScanHandler) WithSignalBus(bus domain.SignalBus) *ScanHandler {
	h.bus = bus
	return h
}

// WithTriggerChannel sets the channel to send on when a manual scan is
// requested. The scan loop must receive from this channel to run one cycle.
func (h *ScanHandler) WithTriggerChannel(ch chan<- struct{}) *ScanHandler {
	h.triggerCh = ch
	return h
}

// GetLatest returns the full latest scan result.
// GET /api/scans/latest
func (h *ScanHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.GetResult(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no scan result available yet")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get scan result failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load scan result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListScans returns recent scan summaries, newest first.
// GET /api/scans?limit=20
func (h *ScanHandler) ListScans(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "scan history not configured")
		return
	}

	limit := parseLimit(r, 20, 200)
	sums, err := h.store.ListSummaries(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list scans failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}

	if sums == nil {
		sums = []domain.ScanSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": sums})
}

// scanFeedEntry is one stream entry: the cursor for the next request plus
// the scan summary the scanner published.
type scanFeedEntry struct {
	Cursor  string          `json:"cursor"`
	Summary json.RawMessage `json:"summary"`
}

// ListScanFeed returns scan summaries appended to the signal stream after the
// given cursor, oldest first. Clients poll with the last cursor they saw;
// "0" starts from the oldest retained entry.
// GET /api/scans/feed?after=0&limit=20
func (h *ScanHandler) ListScanFeed(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil {
		writeError(w, http.StatusNotImplemented, "scan feed not configured")
		return
	}

	after := r.URL.Query().Get("after")
	if after == "" {
		after = "0"
	}
	limit := parseLimit(r, 20, 200)

	msgs, err := h.bus.StreamRead(r.Context(), scanStreamName, after, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: read scan feed failed",
			slog.String("after", after),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read scan feed")
		return
	}

	entries := make([]scanFeedEntry, 0, len(msgs))
	for _, msg := range msgs {
		entries = append(entries, scanFeedEntry{Cursor: msg.ID, Summary: msg.Payload})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// TriggerScan enqueues one scan cycle. The send is non-blocking; a request
// arriving while a trigger is already pending is coalesced into it.
// POST /api/scans/trigger
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "handler: scan trigger requested")
	if h.triggerCh != nil {
		select {
		case h.triggerCh <- struct{}{}:
		default:
			// already triggered and not yet consumed
		}
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":       "accepted",
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	})
}
