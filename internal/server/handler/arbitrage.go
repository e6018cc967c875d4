package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dhkim-labs/arbscan/internal/domain"
	"github.com/dhkim-labs/arbscan/internal/engine"
)

// ArbHandler serves the arbitrage views of the latest scan plus persisted
// opportunity history.
type ArbHandler struct {
	results domain.ResultCache
	store   domain.OpportunityStore // optional; history endpoint returns 501 when nil
	logger  *slog.Logger
}

// NewArbHandler creates an ArbHandler serving from the result cache.
func NewArbHandler(results domain.ResultCache, logger *slog.Logger) *ArbHandler {
	return &ArbHandler{results: results, logger: logger}
}

// WithOpportunityStore enables the history endpoint.
func (h *ArbHandler) WithOpportunityStore(store domain.OpportunityStore) *ArbHandler {
	h.store = store
	return h
}

// listOppsResponse wraps an opportunity list response.
type listOppsResponse struct {
	ScanID        string               `json:"scan_id"`
	Opportunities []domain.Opportunity `json:"opportunities"`
}

// ListCrossVenue returns cross-venue opportunities from the latest scan,
// filtered by an optional ROI floor and free-text query.
// GET /api/arbitrage/cross?min_roi=2&q=bitcoin
func (h *ArbHandler) ListCrossVenue(w http.ResponseWriter, r *http.Request) {
	h.listFromResult(w, r, func(result domain.ScanResult) []domain.Opportunity {
		return result.CrossVenue
	})
}

// ListIntraVenue returns intra-venue opportunities from the latest scan,
// with the same filter parameters as the cross-venue endpoint.
// GET /api/arbitrage/intra?min_roi=1
func (h *ArbHandler) ListIntraVenue(w http.ResponseWriter, r *http.Request) {
	h.listFromResult(w, r, func(result domain.ScanResult) []domain.Opportunity {
		return result.IntraVenue
	})
}

func (h *ArbHandler) listFromResult(w http.ResponseWriter, r *http.Request, pick func(domain.ScanResult) []domain.Opportunity) {
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

	minROI := parseFloat(r, "min_roi", 0)
	opps := engine.FilterOpportunities(pick(result), minROI, r.URL.Query().Get("q"))
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	writeJSON(w, http.StatusOK, listOppsResponse{ScanID: result.ID, Opportunities: opps})
}

// ListHistory returns persisted opportunities, newest first, optionally
// restricted to one kind.
// GET /api/arbitrage/history?kind=cross_venue&limit=50
func (h *ArbHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "opportunity history not configured")
		return
	}

	kind := domain.OpportunityKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", domain.OppCrossVenue, domain.OppIntraVenue:
	default:
		writeError(w, http.StatusBadRequest, "kind must be cross_venue or intra_venue")
		return
	}

	limit := parseLimit(r, 50, 500)
	opps, err := h.store.ListRecent(r.Context(), kind, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list opportunity history failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list opportunity history")
		return
	}

	if opps == nil {
		opps = []domain.Opportunity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"opportunities": opps})
}
