// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/tvmosaic-bridge/internal/api"
	"github.com/ManuGH/tvmosaic-bridge/internal/config"
	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/telemetry"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

// NewBackend builds the remote-control client from the backend settings.
func NewBackend(cfg config.AppConfig) *tvserver.Client {
	return tvserver.New(tvserver.Options{
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		RateBurst: cfg.Backend.RateBurst,
	})
}

// NewTelemetry installs the tracer provider described by cfg.
func NewTelemetry(ctx context.Context, cfg config.AppConfig) (*telemetry.Provider, error) {
	return telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    api.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
}

// Bootstrap wires telemetry, the backend client, the live TV service and
// the API into a runnable App.
func Bootstrap(ctx context.Context, loader *config.Loader) (*App, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Service: serviceName, Version: cfg.Version})
	logger := log.WithComponent("daemon")

	tp, err := NewTelemetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	holder := config.NewHolder(cfg, loader)
	host := livetv.NewService(NewBackend(cfg))
	server := api.New(api.Options{Config: holder, Host: host})

	deps := Deps{Logger: logger, APIHandler: server.Handler()}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = cfg.Metrics.ListenAddr
	}
	mgr, err := NewManager(DefaultServerConfig(cfg.API.ListenAddr), deps)
	if err != nil {
		return nil, err
	}
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)

	logger.Info().
		Int("tuners", len(cfg.Tuners)).
		Bool("telemetry", cfg.Telemetry.Enabled).
		Str("config", loader.Path()).
		Msg("bridge configured")

	return NewApp(logger, mgr, holder, server), nil
}
