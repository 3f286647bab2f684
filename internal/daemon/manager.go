// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon runs the HTTP servers and owns their lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
)

// ShutdownHook runs during graceful shutdown, in reverse registration order.
type ShutdownHook func(ctx context.Context) error

// Manager starts the servers and shuts them down.
type Manager interface {
	// Start blocks until ctx is cancelled or a server fails.
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	RegisterShutdownHook(name string, hook ShutdownHook)
	// Started is closed once every listener is bound.
	Started() <-chan struct{}
	// APIAddr is the bound API address, valid after Started.
	APIAddr() string
}

type manager struct {
	serverCfg ServerConfig
	deps      Deps

	apiServer     *http.Server
	metricsServer *http.Server
	apiAddr       string

	shutdownHooks []namedHook

	started   bool
	stopping  bool
	startedCh chan struct{}
	mu        sync.Mutex

	logger zerolog.Logger
}

type namedHook struct {
	name string
	hook ShutdownHook
}

func NewManager(serverCfg ServerConfig, deps Deps) (Manager, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &manager{
		serverCfg: serverCfg,
		deps:      deps,
		startedCh: make(chan struct{}),
		logger:    deps.Logger.With().Str(log.FieldComponent, "manager").Logger(),
	}, nil
}

func (m *manager) Started() <-chan struct{} { return m.startedCh }

func (m *manager) APIAddr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiAddr
}

func (m *manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("manager already started")
	}
	m.started = true
	m.mu.Unlock()

	m.logger.Info().
		Str("listen", m.serverCfg.ListenAddr).
		Str("metrics_listen", m.deps.MetricsAddr).
		Dur("shutdown_timeout", m.serverCfg.ShutdownTimeout).
		Msg("starting daemon manager")

	// Bind before serving so address errors surface here.
	apiLn, err := net.Listen("tcp", m.serverCfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen API: %w", err)
	}
	var metricsLn net.Listener
	if m.deps.MetricsHandler != nil && m.deps.MetricsAddr != "" {
		metricsLn, err = net.Listen("tcp", m.deps.MetricsAddr)
		if err != nil {
			_ = apiLn.Close()
			return fmt.Errorf("listen metrics: %w", err)
		}
	}

	m.mu.Lock()
	m.apiAddr = apiLn.Addr().String()
	m.apiServer = m.newServer(m.deps.APIHandler)
	if metricsLn != nil {
		m.metricsServer = &http.Server{
			Handler:           m.deps.MetricsHandler,
			ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
		}
	}
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.serve("api", m.apiServer, apiLn) })
	if metricsLn != nil {
		g.Go(func() error { return m.serve("metrics", m.metricsServer, metricsLn) })
	}
	close(m.startedCh)

	<-gctx.Done()
	if ctx.Err() != nil {
		m.logger.Info().Msg("shutdown signal received")
	} else {
		m.logger.Error().Err(context.Cause(gctx)).Msg("server error, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.serverCfg.ShutdownTimeout)
	defer cancel()
	shutdownErr := m.Shutdown(shutdownCtx)
	return errors.Join(g.Wait(), shutdownErr)
}

func (m *manager) newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadTimeout:       m.serverCfg.ReadTimeout,
		ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
		WriteTimeout:      m.serverCfg.WriteTimeout,
		IdleTimeout:       m.serverCfg.IdleTimeout,
		MaxHeaderBytes:    m.serverCfg.MaxHeaderBytes,
	}
}

func (m *manager) serve(name string, srv *http.Server, ln net.Listener) error {
	m.logger.Info().Str("server", name).Str("addr", ln.Addr().String()).Msg("server listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		m.logger.Error().Err(err).Str(log.FieldEvent, name+".server.failed").Msg("server failed")
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

// Shutdown stops the servers and then runs the hooks. It is safe to call
// more than once.
func (m *manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return nil
	}
	if !m.started {
		m.mu.Unlock()
		return ErrManagerNotStarted
	}
	m.stopping = true
	apiServer, metricsServer := m.apiServer, m.metricsServer
	hooks := append([]namedHook(nil), m.shutdownHooks...)
	m.mu.Unlock()

	m.logger.Info().Msg("shutting down daemon manager")

	var errs []error
	if apiServer != nil {
		if err := apiServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("API server shutdown: %w", err))
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		start := time.Now()
		if err := h.hook(ctx); err != nil {
			m.logger.Error().Err(err).Str("hook", h.name).Dur("duration", time.Since(start)).Msg("shutdown hook failed")
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
			continue
		}
		m.logger.Debug().Str("hook", h.name).Dur("duration", time.Since(start)).Msg("shutdown hook completed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	m.logger.Info().Msg("daemon manager stopped cleanly")
	return nil
}

func (m *manager) RegisterShutdownHook(name string, hook ShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownHooks = append(m.shutdownHooks, namedHook{name: name, hook: hook})
}
