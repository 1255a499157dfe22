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

	"github.com/okian/trendboard/internal/adapters/http/api"
	"github.com/okian/trendboard/internal/adapters/http/site"
	"github.com/okian/trendboard/internal/adapters/http/swagger"
	"github.com/okian/trendboard/internal/adapters/http/ws"
	app "github.com/okian/trendboard/internal/app"
	"github.com/okian/trendboard/internal/config"
	"github.com/okian/trendboard/internal/domain/timegate"
	"github.com/okian/trendboard/pkg/logger"
	"github.com/okian/trendboard/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(context.Background())
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

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "trendboard exited with error", logger.Error(err))
		stop()
		os.Exit(1) //nolint:gocritic // deferred cleanups already ran via stop
	}
}

// run starts the service, the websocket hub and the HTTP server and blocks
// until ctx is cancelled or one of them fails.
func run(ctx context.Context, cfg *config.Config) error {
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, err := serviceOptions(cfg, loggerInstance)
	if err != nil {
		return err
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	hub := ws.New(svc, time.Duration(cfg.BroadcastSeconds)*time.Second, ws.WithLogger(loggerInstance.Named("ws")))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, hub),
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		loggerInstance.Info(ctx, "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
			return err
		}
		loggerInstance.Info(ctx, "server stopped")
		return nil
	})

	return g.Wait()
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config, l logger.Logger) ([]app.Option, error) {
	style, err := timegate.ParseClockStyle(cfg.ClockStyle)
	if err != nil {
		return nil, err
	}
	return []app.Option{
		app.WithLogger(l),
		app.WithDatasetFile(cfg.DatasetFile),
		app.WithResultLimit(cfg.MaxResults),
		app.WithTopN(cfg.TopN),
		app.WithGateInterval(time.Duration(cfg.GatePollSeconds) * time.Second),
		app.WithClockStyle(style),
	}, nil
}

// newHandler builds the full route table behind the request id middleware.
func newHandler(ctx context.Context, svc *app.Service, hub *ws.Hub) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	api.NewServer(svc, svc).Register(ctx, mux)
	mux.HandleFunc("/ws/gate", api.MetricsMiddleware(hub.ServeHTTP, "ws_gate"))

	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is cancelled.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
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

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
