package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// archivePrefix scopes the archives API to the archiver's output; arbitrary
// bucket keys are not reachable through it.
const archivePrefix = "archive/"

// ArchiveHandler serves the cold-storage scan history written by the
// archiver. Both endpoints return 501 when object storage is not configured.
type ArchiveHandler struct {
	blobs  domain.BlobReader
	logger *slog.Logger
}

// NewArchiveHandler creates an ArchiveHandler. blobs may be nil.
func NewArchiveHandler(blobs domain.BlobReader, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{blobs: blobs, logger: logger}
}

type archiveEntry struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ListArchives returns the stored archive files, optionally narrowed to one
// kind. GET /api/archives?kind=opportunities
func (h *ArchiveHandler) ListArchives(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil {
		writeError(w, http.StatusNotImplemented, "archive storage not configured")
		return
	}

	prefix := archivePrefix
	switch kind := r.URL.Query().Get("kind"); kind {
	case "":
	case "opportunities", "pairs":
		prefix += kind + "/"
	default:
		writeError(w, http.StatusBadRequest, "kind must be opportunities or pairs")
		return
	}

	infos, err := h.blobs.List(r.Context(), prefix)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list archives failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list archives")
		return
	}

	entries := make([]archiveEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, archiveEntry{
			Path:         info.Path,
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"archives": entries})
}

// GetArchive streams one archive file back as JSONL.
// GET /api/archives/{path...}
func (h *ArchiveHandler) GetArchive(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil {
		writeError(w, http.StatusNotImplemented, "archive storage not configured")
		return
	}

	path := archivePrefix + r.PathValue("path")
	if strings.Contains(path, "..") {
		writeError(w, http.StatusBadRequest, "invalid archive path")
		return
	}

	body, err := h.blobs.Get(r.Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "archive not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get archive failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read archive")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	if _, err := io.Copy(w, body); err != nil {
		h.logger.ErrorContext(r.Context(), "handler: stream archive failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
