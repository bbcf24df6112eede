// Package app provides the top-level application lifecycle management for
// the coordinator server. It wires together every dependency (repository,
// locks, signal bus, blob archive, per-chain engine configuration,
// notifications) and runs the HTTP/WebSocket server until the context is
// cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xcoordinator/coordinator/internal/config"
	"github.com/0xcoordinator/coordinator/internal/server"
	"github.com/0xcoordinator/coordinator/internal/server/handler"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the WebSocket hub, the HTTP server, and
// (if enabled) the archive cron, then blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting coordinator", slog.String("log_level", a.cfg.LogLevel))

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := deps.Hub.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("app: ws hub: %w", err)
		}
		return nil
	})

	srv := server.NewServer(server.Config{
		Port:                      a.cfg.Server.Port,
		CORSOrigins:               a.cfg.Server.CORSOrigins,
		RateLimiter:               deps.RateLimiter,
		SoftCancelRateLimit:       a.cfg.Server.SoftCancelRateLimit,
		SoftCancelRateLimitWindow: time.Duration(a.cfg.Server.SoftCancelRateLimitWindowSeconds) * time.Second,
	}, server.Handlers{
		Health:     handler.NewHealthHandler(a.logger),
		Request:    handler.NewRequestHandler(deps.Engine, a.logger),
		SoftCancel: handler.NewSoftCancelHandler(deps.Repo, a.logger),
	}, deps.Hub, a.logger)

	group.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	})

	if a.cfg.Archive.Enabled && deps.Archiver != nil {
		group.Go(func() error {
			a.runArchiveCron(groupCtx, deps)
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.ErrorContext(ctx, "server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// runArchiveCron periodically moves rows older than the configured retention
// window to cold storage, until ctx is cancelled.
func (a *App) runArchiveCron(ctx context.Context, deps *Dependencies) {
	interval := 24 * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := time.Now().AddDate(0, 0, -a.cfg.Archive.RetentionDays)
			n, err := deps.Archiver.ArchiveSeenTransactions(ctx, before)
			if err != nil {
				a.logger.ErrorContext(ctx, "archive run failed", slog.String("error", err.Error()))
				if deps.Notifier != nil {
					_ = deps.Notifier.Notify(ctx, "archive_failed", "Archive run failed", err.Error())
				}
				continue
			}
			a.logger.InfoContext(ctx, "archive run complete", slog.Int64("rows_archived", n))
		}
	}
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
