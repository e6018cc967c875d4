package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Orchestrator runs the background loops as one unit: the scan loop and,
// when configured, the archiver loop.
type Orchestrator struct {
	scanner  *Scanner
	archiver *Archiver // optional
	trigger  <-chan struct{}
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator. archiver may be nil when no blob
// storage is configured; trigger may be nil when no manual-trigger endpoint
// is wired.
func NewOrchestrator(scanner *Scanner, archiver *Archiver, trigger <-chan struct{}, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		scanner:  scanner,
		archiver: archiver,
		trigger:  trigger,
		logger:   logger.With(slog.String("component", "orchestrator")),
	}
}

// Run starts the loops as concurrent goroutines using an errgroup. Each
// goroutine respects ctx cancellation. If any goroutine returns a
// non-context error, the errgroup cancels the shared context and Run
// returns that error.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("pipeline starting")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := o.scanner.RunLoop(ctx, o.trigger)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return fmt.Errorf("scan loop: %w", err)
	})

	if o.archiver != nil {
		g.Go(func() error {
			err := o.archiver.RunLoop(ctx)
			if ctx.Err() != nil {
				return nil // clean shutdown
			}
			return fmt.Errorf("archiver loop: %w", err)
		})
	}

	err := g.Wait()
	if err != nil {
		o.logger.Error("pipeline stopped with error", slog.String("error", err.Error()))
		return err
	}

	o.logger.Info("pipeline stopped cleanly")
	return nil
}
