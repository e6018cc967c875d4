package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/dhkim-labs/arbscan/internal/blob/s3"
	"github.com/dhkim-labs/arbscan/internal/cache/redis"
	"github.com/dhkim-labs/arbscan/internal/config"
	"github.com/dhkim-labs/arbscan/internal/domain"
	"github.com/dhkim-labs/arbscan/internal/engine"
	"github.com/dhkim-labs/arbscan/internal/notify"
	"github.com/dhkim-labs/arbscan/internal/platform/kalshi"
	"github.com/dhkim-labs/arbscan/internal/platform/polymarket"
	"github.com/dhkim-labs/arbscan/internal/store/postgres"
)

// Dependencies bundles everything the application modes need. It is
// constructed by Wire and torn down by the returned cleanup function. Fields
// stay nil when the selected mode does not need them.
type Dependencies struct {
	// Feeds and engine
	Poly   *polymarket.GammaClient
	Kalshi *kalshi.Client
	Engine *engine.Engine

	// Stores
	ScanStore        domain.ScanStore
	PairStore        domain.PairStore
	OpportunityStore domain.OpportunityStore

	// Caches
	Snapshots   domain.SnapshotCache
	Results     domain.ResultCache
	RateLimiter domain.RateLimiter
	LockManager domain.LockManager
	SignalBus   domain.SignalBus

	// Blob storage
	BlobWriter domain.BlobWriter
	BlobReader domain.BlobReader
	Archiver   domain.Archiver

	// Notifications
	Notifier *notify.Notifier
	Alerter  *notify.Alerter

	// Health probes for the API server.
	PostgresPing func(ctx context.Context) error
	RedisPing    func(ctx context.Context) error
}

// needsPostgres reports whether the mode persists or serves scan history.
func needsPostgres(mode string) bool {
	switch mode {
	case "scan", "serve", "full":
		return true
	default:
		return false
	}
}

// needsRedis reports whether the mode uses the cache, lock, and bus layer.
// A one-shot scan runs engine-only and prints its result.
func needsRedis(mode string) bool {
	return mode != "once"
}

// needsS3 reports whether the mode touches object storage: pipeline modes
// write archives, serve mode reads them back. Requires a configured bucket.
func needsS3(cfg *config.Config) bool {
	switch cfg.Mode {
	case "scan", "serve", "full":
		return cfg.S3.Bucket != ""
	default:
		return false
	}
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Poly:   polymarket.NewGammaClient(cfg.Polymarket.GammaHost),
		Kalshi: kalshi.NewClient(cfg.Kalshi.BaseURL),
	}

	eng, err := engine.New(engine.Config{
		Strategy:          cfg.Engine.Strategy,
		PolymarketFee:     cfg.Engine.PolymarketFee,
		KalshiFee:         cfg.Engine.KalshiFee,
		Budget:            cfg.Engine.Budget,
		MinROI:            cfg.Engine.MinROI,
		ScoreCutoff:       cfg.Engine.ScoreCutoff,
		JaccardThreshold:  cfg.Engine.JaccardThreshold,
		SequenceThreshold: cfg.Engine.SequenceThreshold,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: engine: %w", err)
	}
	deps.Engine = eng

	// --- PostgreSQL (only for modes that persist or serve history) ---
	if needsPostgres(cfg.Mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.ScanStore = postgres.NewScanStore(pool)
		deps.PairStore = postgres.NewPairStore(pool)
		deps.OpportunityStore = postgres.NewOpportunityStore(pool)
		deps.PostgresPing = pool.Ping
	}

	// --- Redis ---
	if needsRedis(cfg.Mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Snapshots = redis.NewSnapshotCache(redisClient, cfg.Pipeline.SnapshotTTL.Duration)
		deps.Results = redis.NewResultCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.LockManager = redis.NewLockManager(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
		deps.RedisPing = redisClient.Ping
	}

	// --- S3 blob storage (archiving only) ---
	if needsS3(cfg) {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.BlobReader = s3blob.NewReader(s3Client)

		// The archiver needs both blob storage and the history stores.
		if deps.OpportunityStore != nil && deps.PairStore != nil {
			deps.Archiver = s3blob.NewArchiver(
				deps.BlobWriter,
				deps.OpportunityStore,
				deps.PairStore,
				logger,
			)
		}
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
	if len(senders) > 0 {
		deps.Alerter = notify.NewAlerter(deps.Notifier, cfg.Notify.AlertMinROI)
	}

	return deps, cleanup, nil
}
