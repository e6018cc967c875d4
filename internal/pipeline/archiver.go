package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// Archiver periodically moves scan history older than the retention window
// from the database to cold storage.
type Archiver struct {
	blobArchiver  domain.Archiver
	retentionDays int
	interval      time.Duration
	logger        *slog.Logger
}

// NewArchiver creates a new Archiver.
func NewArchiver(blobArchiver domain.Archiver, retentionDays int, interval time.Duration, logger *slog.Logger) *Archiver {
	return &Archiver{
		blobArchiver:  blobArchiver,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger.With(slog.String("component", "archiver")),
	}
}

// Run executes a single archive run against the retention cutoff.
func (a *Archiver) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(a.retentionDays) * 24 * time.Hour)
	a.logger.Info("starting archive run",
		slog.Time("cutoff", cutoff),
		slog.Int("retention_days", a.retentionDays),
	)

	oppsArchived, err := a.blobArchiver.ArchiveOpportunities(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiving opportunities before %v: %w", cutoff, err)
	}

	pairsArchived, err := a.blobArchiver.ArchivePairs(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiving pairs before %v: %w", cutoff, err)
	}

	a.logger.Info("archive run complete",
		slog.Int64("opportunities_archived", oppsArchived),
		slog.Int64("pairs_archived", pairsArchived),
	)
	return nil
}

// RunLoop runs the archiver on its interval until the context is cancelled.
// The first run happens after one full interval, not at startup: freshly
// started replicas should not race each other over the same window.
func (a *Archiver) RunLoop(ctx context.Context) error {
	a.logger.Info("archiver loop starting", slog.Duration("interval", a.interval))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("archiver loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := a.Run(ctx); err != nil {
				a.logger.Error("archive run failed", slog.String("error", err.Error()))
			}
		}
	}
}
