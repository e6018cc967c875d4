// Package pipeline runs the background loops: the poll-scan-persist cycle
// and the cold-storage archiver.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// scanLockKey guards the poll cycle so only one replica scans at a time.
const scanLockKey = "scan"

// Bus channels the scanner publishes on. The websocket hub subscribes to the
// same names.
const (
	channelScans         = "scans"
	channelOpportunities = "opportunities"
	streamScans          = "scans"
)

// PolymarketFeed retrieves the active Polymarket market list.
type PolymarketFeed interface {
	ListActiveMarkets(ctx context.Context, pageSize, maxPages int) ([]domain.Market, error)
}

// KalshiFeed retrieves tradeable Kalshi markets: the general listing plus
// the configured sports series.
type KalshiFeed interface {
	ListOpenMarkets(ctx context.Context, series []string, generalLimit, seriesLimit int) ([]domain.Market, error)
}

// ScanEngine runs one matching-and-arbitrage pass over two venue snapshots.
type ScanEngine interface {
	Scan(poly, kalshi []domain.Market) domain.ScanResult
}

// Alerter pushes operator notifications for a completed scan.
type Alerter interface {
	AlertScan(ctx context.Context, result domain.ScanResult) error
}

// Stores groups the persistence targets of one scan. Any nil store is
// skipped, so the scanner runs fine without Postgres.
type Stores struct {
	Scans         domain.ScanStore
	Pairs         domain.PairStore
	Opportunities domain.OpportunityStore
}

// ScannerConfig holds the feed and cadence settings of the scan loop.
type ScannerConfig struct {
	PolyPageSize       int
	PolyMaxPages       int
	KalshiSeries       []string
	KalshiGeneralLimit int
	KalshiPageLimit    int
	Interval           time.Duration
	SnapshotTTL        time.Duration
}

// Scanner drives the poll cycle: fetch both venues concurrently, run the
// engine, persist, cache, publish, and alert.
type Scanner struct {
	cfg       ScannerConfig
	poly      PolymarketFeed
	kalshi    KalshiFeed
	engine    ScanEngine
	stores    Stores
	snapshots domain.SnapshotCache // optional
	results   domain.ResultCache   // optional
	locks     domain.LockManager   // optional; single-replica runs skip locking
	bus       domain.SignalBus     // optional
	alerter   Alerter              // optional
	logger    *slog.Logger
}

// NewScanner creates a Scanner. Every collaborator except the feeds, engine,
// and logger may be nil; the corresponding step is skipped.
func NewScanner(
	cfg ScannerConfig,
	poly PolymarketFeed,
	kalshi KalshiFeed,
	eng ScanEngine,
	stores Stores,
	snapshots domain.SnapshotCache,
	results domain.ResultCache,
	locks domain.LockManager,
	bus domain.SignalBus,
	alerter Alerter,
	logger *slog.Logger,
) *Scanner {
	return &Scanner{
		cfg:       cfg,
		poly:      poly,
		kalshi:    kalshi,
		engine:    eng,
		stores:    stores,
		snapshots: snapshots,
		results:   results,
		locks:     locks,
		bus:       bus,
		alerter:   alerter,
		logger:    logger.With(slog.String("component", "scanner")),
	}
}

// RunOnce executes a single scan cycle and returns the result. When another
// replica holds the scan lock, it returns domain.ErrLockHeld without
// fetching anything.
func (s *Scanner) RunOnce(ctx context.Context) (domain.ScanResult, error) {
	if s.locks != nil {
		lockTTL := s.cfg.Interval
		if lockTTL <= 0 {
			lockTTL = time.Minute
		}
		unlock, err := s.locks.Acquire(ctx, scanLockKey, lockTTL)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				s.logger.Debug("scan lock held elsewhere, skipping cycle")
				return domain.ScanResult{}, domain.ErrLockHeld
			}
			return domain.ScanResult{}, fmt.Errorf("pipeline: acquire scan lock: %w", err)
		}
		defer unlock()
	}

	poly, kalshi, err := s.fetchSnapshots(ctx)
	if err != nil {
		return domain.ScanResult{}, err
	}

	result := s.engine.Scan(poly, kalshi)

	s.persist(ctx, result)
	s.cache(ctx, poly, kalshi, result)
	s.publish(ctx, result)

	if s.alerter != nil {
		if err := s.alerter.AlertScan(ctx, result); err != nil {
			s.logger.Warn("scan alert failed", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// RunLoop runs scan cycles on the configured interval until the context is
// cancelled. A send on trigger runs an extra cycle immediately; trigger may
// be nil.
func (s *Scanner) RunLoop(ctx context.Context, trigger <-chan struct{}) error {
	s.logger.Info("scan loop starting", slog.Duration("interval", s.cfg.Interval))

	// Run immediately on start.
	s.runLogged(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scan loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runLogged(ctx)
		case <-trigger:
			s.logger.Info("manual scan triggered")
			s.runLogged(ctx)
		}
	}
}

func (s *Scanner) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, domain.ErrLockHeld) {
		s.logger.Error("scan cycle failed", slog.String("error", err.Error()))
	}
}

// fetchSnapshots pulls both venue market lists concurrently. Either venue
// failing fails the cycle; a half-blind scan would report phantom
// opportunities.
func (s *Scanner) fetchSnapshots(ctx context.Context) (poly, kalshi []domain.Market, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var ferr error
		poly, ferr = s.poly.ListActiveMarkets(gctx, s.cfg.PolyPageSize, s.cfg.PolyMaxPages)
		if ferr != nil {
			return fmt.Errorf("pipeline: fetch polymarket: %w", ferr)
		}
		return nil
	})

	g.Go(func() error {
		var ferr error
		kalshi, ferr = s.kalshi.ListOpenMarkets(gctx, s.cfg.KalshiSeries, s.cfg.KalshiGeneralLimit, s.cfg.KalshiPageLimit)
		if ferr != nil {
			return fmt.Errorf("pipeline: fetch kalshi: %w", ferr)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("snapshots fetched",
		slog.Int("polymarket", len(poly)),
		slog.Int("kalshi", len(kalshi)),
	)
	return poly, kalshi, nil
}

// persist writes the scan and its pairs and opportunities to the stores.
// Store failures are logged, not fatal: the cycle's cached result still
// serves the API.
func (s *Scanner) persist(ctx context.Context, result domain.ScanResult) {
	if s.stores.Scans != nil {
		if err := s.stores.Scans.Insert(ctx, result); err != nil {
			s.logger.Error("persist scan failed", slog.String("error", err.Error()))
			return
		}
	}
	if s.stores.Pairs != nil {
		if err := s.stores.Pairs.InsertBatch(ctx, result.ID, result.Pairs); err != nil {
			s.logger.Error("persist pairs failed", slog.String("error", err.Error()))
		}
	}
	if s.stores.Opportunities != nil {
		opps := append(append([]domain.Opportunity{}, result.CrossVenue...), result.IntraVenue...)
		if err := s.stores.Opportunities.InsertBatch(ctx, result.ID, opps); err != nil {
			s.logger.Error("persist opportunities failed", slog.String("error", err.Error()))
		}
	}
}

// cache refreshes the venue snapshots and the latest-result entry.
func (s *Scanner) cache(ctx context.Context, poly, kalshi []domain.Market, result domain.ScanResult) {
	if s.snapshots != nil {
		if err := s.snapshots.SetSnapshot(ctx, domain.VenuePolymarket, poly); err != nil {
			s.logger.Warn("cache polymarket snapshot failed", slog.String("error", err.Error()))
		}
		if err := s.snapshots.SetSnapshot(ctx, domain.VenueKalshi, kalshi); err != nil {
			s.logger.Warn("cache kalshi snapshot failed", slog.String("error", err.Error()))
		}
	}
	if s.results != nil {
		if err := s.results.SetResult(ctx, result); err != nil {
			s.logger.Warn("cache scan result failed", slog.String("error", err.Error()))
		}
	}
}

// publish fans the scan summary and any opportunities out on the signal bus
// and appends the summary to the durable scan stream.
func (s *Scanner) publish(ctx context.Context, result domain.ScanResult) {
	if s.bus == nil {
		return
	}

	summary, err := json.Marshal(result.Summary())
	if err != nil {
		s.logger.Warn("marshal scan summary failed", slog.String("error", err.Error()))
		return
	}
	if err := s.bus.Publish(ctx, channelScans, summary); err != nil {
		s.logger.Warn("publish scan summary failed", slog.String("error", err.Error()))
	}
	if err := s.bus.StreamAppend(ctx, streamScans, summary); err != nil {
		s.logger.Warn("append scan stream failed", slog.String("error", err.Error()))
	}

	for _, opp := range append(append([]domain.Opportunity{}, result.CrossVenue...), result.IntraVenue...) {
		payload, err := json.Marshal(opp)
		if err != nil {
			continue
		}
		if err := s.bus.Publish(ctx, channelOpportunities, payload); err != nil {
			s.logger.Warn("publish opportunity failed", slog.String("error", err.Error()))
			return
		}
	}
}
