package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhkim-labs/arbscan/internal/domain"
	"github.com/dhkim-labs/arbscan/internal/server/handler"
	"github.com/dhkim-labs/arbscan/internal/server/middleware"
	"github.com/dhkim-labs/arbscan/internal/server/ws"
)

// Per-client API rate limit applied when a limiter is configured.
const (
	apiRateLimit  = 60
	apiRateWindow = time.Minute
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health   *handler.HealthHandler
	Markets  *handler.MarketHandler
	Pairs    *handler.PairHandler
	Arb      *handler.ArbHandler
	Scans    *handler.ScanHandler
	Archives *handler.ArchiveHandler
}

// Server is the headless HTTP + WebSocket API for the scanner.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes registered and the middleware chain
// (CORS, logging, auth, rate limiting) applied. limiter may be nil, in which
// case no per-client rate limiting is enforced.
func New(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check. The auth middleware exempts this path so probes work
	// without credentials.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Raw venue snapshots.
	mux.HandleFunc("GET /api/markets", handlers.Markets.ListMarkets)

	// Matched pairs: latest scan view plus persisted history.
	mux.HandleFunc("GET /api/pairs", handlers.Pairs.ListPairs)
	mux.HandleFunc("GET /api/pairs/history", handlers.Pairs.ListPairHistory)
	mux.HandleFunc("GET /api/scans/{id}/pairs", handlers.Pairs.ListPairsByScan)

	// Arbitrage views of the latest scan plus history.
	mux.HandleFunc("GET /api/arbitrage/cross", handlers.Arb.ListCrossVenue)
	mux.HandleFunc("GET /api/arbitrage/intra", handlers.Arb.ListIntraVenue)
	mux.HandleFunc("GET /api/arbitrage/history", handlers.Arb.ListHistory)

	// Scan metadata and manual trigger.
	mux.HandleFunc("GET /api/scans", handlers.Scans.ListScans)
	mux.HandleFunc("GET /api/scans/latest", handlers.Scans.GetLatest)
	mux.HandleFunc("GET /api/scans/feed", handlers.Scans.ListScanFeed)
	mux.HandleFunc("POST /api/scans/trigger", handlers.Scans.TriggerScan)

	// Cold-storage archives written by the archiver.
	mux.HandleFunc("GET /api/archives", handlers.Archives.ListArchives)
	mux.HandleFunc("GET /api/archives/{path...}", handlers.Archives.GetArchive)

	// WebSocket stream of scan summaries and qualifying opportunities.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	if limiter != nil {
		h = middleware.RateLimit(limiter, apiRateLimit, apiRateWindow)(h)
	}
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      h,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
