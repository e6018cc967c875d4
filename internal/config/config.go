// Package config defines the top-level configuration for the arbscan service
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ARBSCAN_* environment variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Engine     EngineConfig     `toml:"engine"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Pipeline   PipelineConfig   `toml:"pipeline"`
	Server     ServerConfig     `toml:"server"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Gamma API endpoint and pagination parameters.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	PageSize  int    `toml:"page_size"`
	MaxPages  int    `toml:"max_pages"`
}

// KalshiConfig holds the public Kalshi API endpoint and fetch parameters.
// GeneralLimit caps the series-less markets query; Series lists the sports
// series fetched on top of it. No credentials: the market endpoints used
// here are unauthenticated.
type KalshiConfig struct {
	BaseURL      string   `toml:"base_url"`
	Series       []string `toml:"series"`
	GeneralLimit int      `toml:"general_limit"`
	PageLimit    int      `toml:"page_limit"`
}

// EngineConfig holds the matching and arbitrage parameters.
type EngineConfig struct {
	// Strategy selects the match strategy: "strict", "scored", "similarity".
	Strategy          string  `toml:"strategy"`
	PolymarketFee     float64 `toml:"polymarket_fee"`
	KalshiFee         float64 `toml:"kalshi_fee"`
	Budget            float64 `toml:"budget"`
	MinROI            float64 `toml:"min_roi"`
	ScoreCutoff       float64 `toml:"score_cutoff"`
	JaccardThreshold  float64 `toml:"jaccard_threshold"`
	SequenceThreshold float64 `toml:"sequence_threshold"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// PipelineConfig holds scan-loop and archiving parameters.
type PipelineConfig struct {
	Enabled              bool     `toml:"enabled"`
	ScanInterval         duration `toml:"scan_interval"`
	SnapshotTTL          duration `toml:"snapshot_ttl"`
	ArchiveRetentionDays int      `toml:"archive_retention_days"`
	ArchiveInterval      duration `toml:"archive_interval"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	APIKey      string   `toml:"api_key"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials. AlertMinROI is the ROI
// percentage an opportunity must reach before a notification fires.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	AlertMinROI       float64  `toml:"alert_min_roi"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			PageSize:  500,
			MaxPages:  6,
		},
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
			Series: []string{
				"KXNFLGAME", "KXNBAGAME", "KXMLBGAME", "KXNHLGAME",
				"KXNCAAFGAME", "KXNCAABGAME", "KXEPLGAME", "KXLALIGAGAME",
				"KXSABOREDGAME", "KXBUNDESLIGAGAME", "KXCHAMPIONSLEAGUEGAME",
				"KXUFCFIGHT", "KXPGAGAME", "KXTENNISGAME", "KXF1RACE",
				"KXNFLWINS", "KXNBAWINS", "KXMLBWINS", "KXNHLWINS",
			},
			GeneralLimit: 1000,
			PageLimit:    200,
		},
		Engine: EngineConfig{
			Strategy:          "strict",
			PolymarketFee:     0.01,
			KalshiFee:         0.01,
			Budget:            100,
			MinROI:            0,
			ScoreCutoff:       50,
			JaccardThreshold:  0.75,
			SequenceThreshold: 0.55,
		},
		Postgres: PostgresConfig{
			DSN:           "",
			Host:          "localhost",
			Port:          5432,
			Database:      "arbscan",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "arbscan-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Pipeline: PipelineConfig{
			Enabled:              true,
			ScanInterval:         duration{2 * time.Minute},
			SnapshotTTL:          duration{5 * time.Minute},
			ArchiveRetentionDays: 90,
			ArchiveInterval:      duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			AlertMinROI: 2.0,
			Events:      []string{"opportunity.cross", "opportunity.intra", "scan.failed"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":  true,
	"serve": true,
	"full":  true,
	"once":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validStrategies enumerates the accepted values for Engine.Strategy.
var validStrategies = map[string]bool{
	"strict":     true,
	"scored":     true,
	"similarity": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, serve, full, once)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.PageSize < 1 || c.Polymarket.PageSize > 500 {
		errs = append(errs, fmt.Sprintf("polymarket: page_size must be 1-500, got %d", c.Polymarket.PageSize))
	}
	if c.Polymarket.MaxPages < 1 {
		errs = append(errs, "polymarket: max_pages must be >= 1")
	}

	// Kalshi
	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	if c.Kalshi.GeneralLimit < 1 || c.Kalshi.GeneralLimit > 1000 {
		errs = append(errs, fmt.Sprintf("kalshi: general_limit must be 1-1000, got %d", c.Kalshi.GeneralLimit))
	}
	if c.Kalshi.PageLimit < 1 || c.Kalshi.PageLimit > 1000 {
		errs = append(errs, fmt.Sprintf("kalshi: page_limit must be 1-1000, got %d", c.Kalshi.PageLimit))
	}

	// Engine
	if !validStrategies[c.Engine.Strategy] {
		errs = append(errs, fmt.Sprintf("engine: unknown strategy %q (valid: strict, scored, similarity)", c.Engine.Strategy))
	}
	if c.Engine.PolymarketFee < 0 || c.Engine.KalshiFee < 0 {
		errs = append(errs, "engine: fees must be >= 0")
	}
	if c.Engine.Budget <= 0 {
		errs = append(errs, "engine: budget must be > 0")
	}
	if c.Engine.JaccardThreshold < 0 || c.Engine.JaccardThreshold > 1 {
		errs = append(errs, "engine: jaccard_threshold must be in [0,1]")
	}
	if c.Engine.SequenceThreshold < 0 || c.Engine.SequenceThreshold > 1 {
		errs = append(errs, "engine: sequence_threshold must be in [0,1]")
	}

	// Postgres
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3
	if c.S3.Endpoint == "" {
		errs = append(errs, "s3: endpoint must not be empty")
	}
	if c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	// Pipeline
	if c.Pipeline.Enabled {
		if c.Pipeline.ScanInterval.Duration <= 0 {
			errs = append(errs, "pipeline: scan_interval must be > 0 when enabled")
		}
		if c.Pipeline.ArchiveRetentionDays < 1 {
			errs = append(errs, "pipeline: archive_retention_days must be >= 1")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Notify
	if c.Notify.AlertMinROI < 0 {
		errs = append(errs, "notify: alert_min_roi must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
