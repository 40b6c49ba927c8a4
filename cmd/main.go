package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/bricklayers/internal/adapters/http/api"
	"github.com/okian/bricklayers/internal/adapters/http/swagger"
	"github.com/okian/bricklayers/internal/adapters/mcptools"
	"github.com/okian/bricklayers/internal/adapters/pool"
	"github.com/okian/bricklayers/internal/adapters/repository"
	app "github.com/okian/bricklayers/internal/app"
	"github.com/okian/bricklayers/internal/config"
	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/internal/domain/ranking"
	"github.com/okian/bricklayers/pkg/logger"
	"github.com/okian/bricklayers/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	mcpPath               = "/mcp"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "bricklayers stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	store, err := repository.New(ctx, cfg.StoreDriver,
		repository.WithDSN(cfg.PostgresDSN),
		repository.WithTable(cfg.PostgresTable),
		repository.WithConnectTimeout(cfg.PostgresConnectTimeout),
	)
	if err != nil {
		return err
	}
	log.Info(ctx, "draft store opened", logger.String("driver", cfg.StoreDriver))

	initial := model.NewPool(nil)
	if cfg.PoolPath != "" {
		initial, err = pool.LoadFile(cfg.PoolPath)
		if err != nil {
			_ = store.Close()
			return err
		}
		metrics.RecordPoolReload("file", "ok")
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithPool(initial),
		app.WithCategories(cfg.Categories),
		app.WithRankLimits(cfg.DefaultRankLimit, cfg.MaxRankLimit),
		app.WithLeagueSettings(ranking.NewLeagueSettings(
			ranking.WithTeamsCount(cfg.TeamsCount),
			ranking.WithStartersPerPos(cfg.StartersPerPos),
			ranking.WithSortCategory(cfg.ReplacementCategory),
		)),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	if cfg.PoolPath != "" && cfg.WatchPool {
		go func() {
			onChange := func(p *model.Pool) { svc.ReplacePool(ctx, p) }
			if err := pool.Watch(ctx, cfg.PoolPath, log.Named("pool"), onChange); err != nil {
				log.Error(ctx, "pool watcher stopped", logger.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Bool("mcp", cfg.MCPEnabled),
			logger.Bool("watch_pool", cfg.WatchPool && cfg.PoolPath != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newHandler builds the routed HTTP handler for svc.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)

	if cfg.MCPEnabled {
		mux.Handle(mcpPath, mcptools.New(svc, log.Named("mcp")).Handler())
	}
	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
