// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ManuGH/tvmosaic-bridge/internal/config"
	"github.com/ManuGH/tvmosaic-bridge/internal/daemon"
	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

var errAmbiguousTuner = errors.New("several tuners configured, pick one with --tuner")

func (o *rootOptions) loader() *config.Loader {
	return config.NewLoader(o.configPath, version)
}

// load reads the configuration and points logging at stderr so command
// output stays clean.
func (o *rootOptions) load() (config.AppConfig, error) {
	cfg, err := o.loader().Load()
	if err != nil {
		return cfg, err
	}
	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	log.Configure(log.Config{Level: level, Output: os.Stderr, Service: "tvmbridge", Version: version})
	return cfg, nil
}

func (o *rootOptions) tuner(cfg config.AppConfig) (tvserver.Tuner, error) {
	id := o.tunerID
	if id == "" {
		if len(cfg.Tuners) != 1 {
			return tvserver.Tuner{}, errAmbiguousTuner
		}
		id = cfg.Tuners[0].ID
	}
	t, err := cfg.Tuner(id)
	if err != nil {
		return t, fmt.Errorf("tuner %q: %w", id, err)
	}
	return t, nil
}

// session loads the config and resolves the selected tuner together with a
// host that talks to it.
func (o *rootOptions) session() (config.AppConfig, tvserver.Tuner, livetv.TunerHost, error) {
	cfg, err := o.load()
	if err != nil {
		return cfg, tvserver.Tuner{}, nil, err
	}
	t, err := o.tuner(cfg)
	if err != nil {
		return cfg, t, nil, err
	}
	return cfg, t, livetv.NewService(daemon.NewBackend(cfg)), nil
}
