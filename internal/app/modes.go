package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhkim-labs/arbscan/internal/pipeline"
	"github.com/dhkim-labs/arbscan/internal/server"
	"github.com/dhkim-labs/arbscan/internal/server/handler"
	"github.com/dhkim-labs/arbscan/internal/server/ws"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// ScanMode runs only the background pipeline: poll both venues, scan,
// persist, cache, publish, archive. No HTTP API.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	orch := pipeline.NewOrchestrator(a.buildScanner(deps), a.buildArchiver(deps), nil, a.logger)
	return orch.Run(ctx)
}

// ServeMode runs only the HTTP + WebSocket API, serving from whatever the
// cache and stores already hold. A scan replica elsewhere keeps them fresh;
// the manual trigger endpoint has no pipeline to signal and is inert.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps, nil)
	return g.Wait()
}

// FullMode runs the pipeline and the API in one process. The trigger channel
// connects the POST trigger endpoint to the scan loop. Either half can be
// switched off in the config without changing mode.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	trigger := make(chan struct{}, 1)

	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.Pipeline.Enabled {
		orch := pipeline.NewOrchestrator(a.buildScanner(deps), a.buildArchiver(deps), trigger, a.logger)
		g.Go(func() error {
			err := orch.Run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, trigger)
	}

	return g.Wait()
}

// OnceMode runs a single scan cycle and prints the full result as JSON to
// stdout. Useful for cron jobs and manual inspection; needs no Redis or
// Postgres.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	result, err := a.buildScanner(deps).RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("app: one-shot scan: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("app: encode scan result: %w", err)
	}
	return nil
}

// buildScanner assembles the scan loop from the wired dependencies.
func (a *App) buildScanner(deps *Dependencies) *pipeline.Scanner {
	var alerter pipeline.Alerter
	if deps.Alerter != nil {
		alerter = deps.Alerter
	}

	return pipeline.NewScanner(
		pipeline.ScannerConfig{
			PolyPageSize:       a.cfg.Polymarket.PageSize,
			PolyMaxPages:       a.cfg.Polymarket.MaxPages,
			KalshiSeries:       a.cfg.Kalshi.Series,
			KalshiGeneralLimit: a.cfg.Kalshi.GeneralLimit,
			KalshiPageLimit:    a.cfg.Kalshi.PageLimit,
			Interval:           a.cfg.Pipeline.ScanInterval.Duration,
			SnapshotTTL:        a.cfg.Pipeline.SnapshotTTL.Duration,
		},
		deps.Poly,
		deps.Kalshi,
		deps.Engine,
		pipeline.Stores{
			Scans:         deps.ScanStore,
			Pairs:         deps.PairStore,
			Opportunities: deps.OpportunityStore,
		},
		deps.Snapshots,
		deps.Results,
		deps.LockManager,
		deps.SignalBus,
		alerter,
		a.logger,
	)
}

// buildArchiver returns the archive loop, or nil when no blob storage is
// wired.
func (a *App) buildArchiver(deps *Dependencies) *pipeline.Archiver {
	if deps.Archiver == nil {
		return nil
	}
	return pipeline.NewArchiver(
		deps.Archiver,
		a.cfg.Pipeline.ArchiveRetentionDays,
		a.cfg.Pipeline.ArchiveInterval.Duration,
		a.logger,
	)
}

// startHTTPServer builds the handlers, hub, and server, and registers their
// goroutines on g: the hub loop, the listener, and a watcher that shuts the
// listener down when ctx is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, trigger chan struct{}) {
	health := handler.NewHealthHandler(a.logger)
	if deps.PostgresPing != nil {
		health.WithDependency("postgres", handler.PingerFunc(deps.PostgresPing))
	}
	if deps.RedisPing != nil {
		health.WithDependency("redis", handler.PingerFunc(deps.RedisPing))
	}

	pairs := handler.NewPairHandler(deps.Results, a.logger)
	if deps.PairStore != nil {
		pairs.WithPairStore(deps.PairStore)
	}

	arb := handler.NewArbHandler(deps.Results, a.logger)
	if deps.OpportunityStore != nil {
		arb.WithOpportunityStore(deps.OpportunityStore)
	}

	scans := handler.NewScanHandler(deps.Results, a.logger)
	if deps.ScanStore != nil {
		scans.WithScanStore(deps.ScanStore)
	}
	if deps.SignalBus != nil {
		scans.WithSignalBus(deps.SignalBus)
	}
	if trigger != nil {
		scans.WithTriggerChannel(trigger)
	}

	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, a.logger)
		g.Go(func() error {
			if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("app: ws hub: %w", err)
			}
			return nil
		})
	}

	srv := server.New(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
		},
		server.Handlers{
			Health:   health,
			Markets:  handler.NewMarketHandler(deps.Snapshots, a.logger),
			Pairs:    pairs,
			Arb:      arb,
			Scans:    scans,
			Archives: handler.NewArchiveHandler(deps.BlobReader, a.logger),
		},
		hub,
		deps.RateLimiter,
		a.logger,
	)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
