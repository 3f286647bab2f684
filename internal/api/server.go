// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the translated live TV data over HTTP.
package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/tvmosaic-bridge/internal/api/middleware"
	"github.com/ManuGH/tvmosaic-bridge/internal/config"
	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
)

const ServiceName = "tvmbridge"

// ConfigSource yields the current configuration. *config.Holder satisfies it.
type ConfigSource interface {
	Get() config.AppConfig
}

type Options struct {
	Config ConfigSource
	Host   livetv.TunerHost
	// Now defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	cfg    ConfigSource
	host   livetv.TunerHost
	now    func() time.Time
	ready  atomic.Bool
	logger zerolog.Logger
}

func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		cfg:    opts.Config,
		host:   opts.Host,
		now:    now,
		logger: log.WithComponent("api"),
	}
}

// SetReady flips the /readyz answer.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// Handler builds the router. Stack options are read from the configuration
// once; tuner lookups read it per request.
func (s *Server) Handler() http.Handler {
	cfg := s.cfg.Get()
	stack := middleware.StackConfig{
		EnableMetrics: true,
		EnableLogging: true,
		RateLimit:     cfg.API.RateLimit,
	}
	if cfg.Telemetry.Enabled {
		stack.TracingService = ServiceName
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Get("/readyz", s.handleReady)
		r.Handle("/metrics", promhttp.Handler())
	})
	r.Group(func(r chi.Router) {
		middleware.ApplyStack(r, stack)
		r.Route("/api/tuners", func(r chi.Router) {
			r.Get("/", s.handleTuners)
			r.Route("/{tuner}", func(r chi.Router) {
				r.Get("/channels", s.handleChannels)
				r.Get("/channels/{channel}/programs", s.handlePrograms)
				r.Get("/channels/{channel}/stream", s.handleStream)
				r.Get("/playlist.m3u", s.handlePlaylist)
				r.Get("/xmltv.xml", s.handleXMLTV)
			})
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
	})
	return r
}
