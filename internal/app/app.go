// Package app provides top-level application lifecycle management. It wires
// the stores, bus, platform clients, trading loop, and control surface, then
// runs them until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gatewaybot/internal/config"
	"gatewaybot/internal/domain"
)

// shutdownGrace bounds how long in-flight HTTP requests may drain.
const shutdownGrace = 10 * time.Second

// archiveInterval paces the cold-storage export loop.
const archiveInterval = 24 * time.Hour

// App is the root application object. It owns the configuration, logger,
// and cleanup functions run in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	closers []func()
}

// New creates an App from the given configuration and logger.
func New(cfg *config.Config, log *slog.Logger) *App {
	return &App{
		cfg: cfg,
		log: log.With("component", "app"),
	}
}

// Run wires all dependencies and blocks until the context is cancelled or a
// component fails. The trading loop itself is started through the control
// API, not here.
func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting application",
		"network", a.cfg.Network,
		"log_level", a.cfg.LogLevel,
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := deps.Hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return deps.Server.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return deps.Server.Shutdown(shutdownCtx)
	})

	if deps.Archiver != nil {
		g.Go(func() error {
			a.archiveLoop(ctx, deps)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		// Best-effort stop of a loop started through the API.
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := deps.Bot.Stop(stopCtx); err != nil && !errors.Is(err, domain.ErrBotNotRunning) {
			a.log.Warn("bot stop on shutdown", "error", err)
		}
		return nil
	})

	return g.Wait()
}

// archiveLoop periodically exports ledger rows older than the retention
// window to cold storage. Failures are logged and retried next tick.
func (a *App) archiveLoop(ctx context.Context, deps *Dependencies) {
	retention := time.Duration(a.cfg.Archive.RetentionDays) * 24 * time.Hour

	ticker := time.NewTicker(archiveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cutoff := time.Now().UTC().Add(-retention)

		if n, err := deps.Archiver.ArchiveTransactions(ctx, cutoff); err != nil {
			a.log.Error("archive transactions failed", "error", err)
		} else if n > 0 {
			a.log.Info("archived transactions", "count", n, "cutoff", cutoff)
		}

		if n, err := deps.Archiver.ArchiveOpportunities(ctx, cutoff); err != nil {
			a.log.Error("archive opportunities failed", "error", err)
		} else if n > 0 {
			a.log.Info("archived opportunities", "count", n, "cutoff", cutoff)
		}
	}
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	a.log.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
