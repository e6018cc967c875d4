package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Narrow store interfaces required by the archiver. The archiver only needs
// the time-ranged query and delete methods, not the full store contracts;
// the Postgres stores satisfy these implicitly.

// OpportunityArchiveStore provides read and prune access to opportunity
// history for archival purposes.
type OpportunityArchiveStore interface {
	ListBefore(ctx context.Context, before time.Time) ([]domain.Opportunity, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// PairArchiveStore provides read and prune access to matched-pair history
// for archival purposes.
type PairArchiveStore interface {
	ListBefore(ctx context.Context, before time.Time) ([]domain.MatchedPair, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ArchiveImpl implements domain.Archiver by querying the stores for old scan
// history, serializing it to JSONL, uploading the result to object storage,
// and pruning the archived rows from the primary store.
//
// Rows are deleted only after the upload has succeeded, so a failed upload
// leaves the database untouched and the next run retries the same window.
type ArchiveImpl struct {
	writer domain.BlobWriter
	opps   OpportunityArchiveStore
	pairs  PairArchiveStore
	logger *slog.Logger
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, opps OpportunityArchiveStore, pairs PairArchiveStore, logger *slog.Logger) *ArchiveImpl {
	return &ArchiveImpl{
		writer: writer,
		opps:   opps,
		pairs:  pairs,
		logger: logger.With("component", "archiver"),
	}
}

// ArchiveOpportunities moves all opportunities detected before the cutoff to
// object storage and deletes them from the database. Returns the number of
// archived records.
func (a *ArchiveImpl) ArchiveOpportunities(ctx context.Context, before time.Time) (int64, error) {
	opps, err := a.opps.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive opportunities query: %w", err)
	}
	if len(opps) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(opps)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive opportunities marshal: %w", err)
	}

	path := archivePath("opportunities", before)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive opportunities upload: %w", err)
	}

	deleted, err := a.opps.DeleteBefore(ctx, before)
	if err != nil {
		return int64(len(opps)), fmt.Errorf("s3blob: archive opportunities prune: %w", err)
	}

	a.logger.Info("archived opportunities",
		"path", path,
		"archived", len(opps),
		"deleted", deleted,
		"before", before.Format(time.RFC3339))

	return int64(len(opps)), nil
}

// ArchivePairs moves all matched pairs recorded before the cutoff to object
// storage and deletes them from the database. Returns the number of archived
// records.
func (a *ArchiveImpl) ArchivePairs(ctx context.Context, before time.Time) (int64, error) {
	pairs, err := a.pairs.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive pairs query: %w", err)
	}
	if len(pairs) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(pairs)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive pairs marshal: %w", err)
	}

	path := archivePath("pairs", before)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive pairs upload: %w", err)
	}

	deleted, err := a.pairs.DeleteBefore(ctx, before)
	if err != nil {
		return int64(len(pairs)), fmt.Errorf("s3blob: archive pairs prune: %w", err)
	}

	a.logger.Info("archived pairs",
		"path", path,
		"archived", len(pairs),
		"deleted", deleted,
		"before", before.Format(time.RFC3339))

	return int64(len(pairs)), nil
}

// archivePath builds the object key for an archive file, partitioned by the
// year-month of the cutoff and suffixed with the full cutoff timestamp. The
// suffix keeps keys unique across runs: rows are pruned from the database
// after upload, so a reused key would silently replace an earlier batch.
//
//	archive/opportunities/2025-01/20250115T060000Z.jsonl
//	archive/pairs/2025-01/20250115T060000Z.jsonl
func archivePath(kind string, before time.Time) string {
	b := before.UTC()
	return fmt.Sprintf("archive/%s/%s/%s.jsonl", kind, b.Format("2006-01"), b.Format("20060102T150405Z"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.Archiver = (*ArchiveImpl)(nil)
