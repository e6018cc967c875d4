package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dhkim-labs/arbscan/internal/domain"
	"github.com/dhkim-labs/arbscan/internal/engine"
)

// PairHandler serves the matched-pairs view of the latest scan plus the
// persisted pair history.
type PairHandler struct {
	results domain.ResultCache
	store   domain.PairStore // optional; history endpoint returns 501 when nil
	logger  *slog.Logger
}

// NewPairHandler creates a PairHandler serving from the result cache.
func NewPairHandler(results domain.ResultCache, logger *slog.Logger) *PairHandler {
	return &PairHandler{results: results, logger: logger}
}

// WithPairStore enables the history endpoints.
func (h *PairHandler) WithPairStore(store domain.PairStore) *PairHandler {
	h.store = store
	return h
}

// listPairsResponse wraps the matched-pairs list response.
type listPairsResponse struct {
	ScanID string               `json:"scan_id"`
	Pairs  []domain.MatchedPair `json:"pairs"`
}

// ListPairs returns the matched pairs from the latest scan, optionally
// filtered by a free-text query over questions and subjects.
// GET /api/pairs?q=fed
func (h *PairHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
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

	pairs := engine.FilterPairs(result.Pairs, r.URL.Query().Get("q"))
	if pairs == nil {
		pairs = []domain.MatchedPair{}
	}
	writeJSON(w, http.StatusOK, listPairsResponse{ScanID: result.ID, Pairs: pairs})
}

// ListPairHistory returns the most recently persisted pairs across scans.
// GET /api/pairs/history?limit=50
func (h *PairHandler) ListPairHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "pair history not configured")
		return
	}

	limit := parseLimit(r, 50, 500)
	pairs, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list pair history failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list pair history")
		return
	}

	if pairs == nil {
		pairs = []domain.MatchedPair{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pairs": pairs})
}

// ListPairsByScan returns the pairs persisted for one scan.
// GET /api/scans/{id}/pairs
func (h *PairHandler) ListPairsByScan(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "pair history not configured")
		return
	}

	scanID := r.PathValue("id")
	if scanID == "" {
		writeError(w, http.StatusBadRequest, "missing scan id")
		return
	}

	pairs, err := h.store.ListByScan(r.Context(), scanID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list pairs by scan failed",
			slog.String("scan_id", scanID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list pairs")
		return
	}

	if pairs == nil {
		pairs = []domain.MatchedPair{}
	}
	writeJSON(w, http.StatusOK, listPairsResponse{ScanID: scanID, Pairs: pairs})
}
