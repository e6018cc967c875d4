package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// MarketHandler serves the raw per-venue market snapshots.
type MarketHandler struct {
	snapshots domain.SnapshotCache
	logger    *slog.Logger
}

// NewMarketHandler creates a MarketHandler backed by the snapshot cache.
func NewMarketHandler(snapshots domain.SnapshotCache, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{snapshots: snapshots, logger: logger}
}

// snapshotResponse wraps a venue snapshot with its fetch timestamp.
type snapshotResponse struct {
	Venue     domain.Venue    `json:"venue"`
	FetchedAt time.Time       `json:"fetched_at"`
	Count     int             `json:"count"`
	Markets   []domain.Market `json:"markets"`
}

// ListMarkets returns the latest snapshot for one venue.
// GET /api/markets?venue=polymarket
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	venue := domain.Venue(r.URL.Query().Get("venue"))
	switch venue {
	case domain.VenuePolymarket, domain.VenueKalshi:
	default:
		writeError(w, http.StatusBadRequest, "venue must be polymarket or kalshi")
		return
	}

	markets, fetchedAt, err := h.snapshots.GetSnapshot(r.Context(), venue)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshot for venue yet")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get snapshot failed",
			slog.String("venue", string(venue)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	if markets == nil {
		markets = []domain.Market{}
	}
	writeJSON(w, http.StatusOK, snapshotResponse{
		Venue:     venue,
		FetchedAt: fetchedAt,
		Count:     len(markets),
		Markets:   markets,
	})
}
