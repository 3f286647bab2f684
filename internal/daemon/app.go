// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/tvmosaic-bridge/internal/config"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
)

// ReadySetter is told when the servers are accepting connections.
type ReadySetter interface {
	SetReady(bool)
}

// App owns the runtime around the Manager: config watching, reload signals
// and readiness.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	holder       *config.Holder
	ready        ReadySetter
	reloadSignal os.Signal
}

func NewApp(logger zerolog.Logger, manager Manager, holder *config.Holder, ready ReadySetter) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		holder:       holder,
		ready:        ready,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run blocks until ctx is cancelled or a server fails.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.holder != nil {
		if err := a.holder.StartWatcher(gctx); err != nil {
			a.logger.Warn().Err(err).Str(log.FieldEvent, "config.watcher_start_failed").Msg("failed to start config watcher")
		}
		defer a.holder.Stop()

		updates := make(chan config.AppConfig, 1)
		a.holder.RegisterListener(updates)
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case cfg := <-updates:
					log.Configure(log.Config{Level: cfg.LogLevel, Service: serviceName, Version: cfg.Version})
				}
			}
		})

		if a.reloadSignal != nil {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, a.reloadSignal)
			defer signal.Stop(sigCh)
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return nil
					case <-sigCh:
						a.logger.Info().Str(log.FieldEvent, "config.reload_signal").Msg("reload signal received")
						if err := a.holder.Reload(gctx); err != nil {
							a.logger.Error().Err(err).Msg("config reload failed")
						}
					}
				}
			})
		}
	}

	g.Go(func() error {
		select {
		case <-a.manager.Started():
			if a.ready != nil {
				a.ready.SetReady(true)
			}
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			if a.ready != nil {
				a.ready.SetReady(false)
			}
		}()
		return a.manager.Start(gctx)
	})

	return g.Wait()
}

const serviceName = "tvmbridge"

// WaitForShutdown returns a context cancelled on SIGINT or SIGTERM.
func WaitForShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
