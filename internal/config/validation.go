// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"

	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	platformnet "github.com/ManuGH/tvmosaic-bridge/internal/platform/net"
	"github.com/ManuGH/tvmosaic-bridge/internal/validate"
)

var tunerTypes = []string{"tvmosaic", "dvblink"}

// Validate reports every invalid field in one error.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("logLevel", "must be one of debug, info, warn, error", cfg.LogLevel)
	}

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.NonNegative("api.rateLimit", cfg.API.RateLimit)
	v.Range("api.guideHours", cfg.API.GuideHours, 1, 14*24)
	if strings.TrimSpace(cfg.API.PublicURL) != "" {
		if _, ok := platformnet.ParseDirectHTTPURL(cfg.API.PublicURL); !ok {
			v.AddError("api.publicURL", "must be an http(s) URL without credentials or fragment", platformnet.SanitizeURL(cfg.API.PublicURL))
		}
	}

	if cfg.Metrics.Enabled {
		v.ListenAddr("metrics.listenAddr", cfg.Metrics.ListenAddr)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	v.PositiveDuration("backend.timeout", cfg.Backend.Timeout)
	if cfg.Backend.RateLimit < 0 {
		v.AddError("backend.rateLimit", "value cannot be negative", cfg.Backend.RateLimit)
	}
	v.NonNegative("backend.rateBurst", cfg.Backend.RateBurst)

	if len(cfg.Tuners) == 0 {
		v.AddError("tuners", "at least one tuner is required", nil)
	}
	ids := make([]string, 0, len(cfg.Tuners))
	for i, t := range cfg.Tuners {
		field := func(name string) string { return fmt.Sprintf("tuners[%d].%s", i, name) }
		v.NotEmpty(field("id"), t.ID)
		if strings.ContainsAny(t.ID, "/ ") {
			v.AddError(field("id"), "must not contain '/' or spaces", t.ID)
		}
		v.OneOf(field("type"), strings.ToLower(t.Type), tunerTypes)
		v.URL(field("url"), t.URL, []string{"http", "https"})
		v.Port(field("streamingPort"), t.StreamingPort)
		v.Range(field("version"), t.Version, 1, 99)
		if (t.Username == "") != (t.Password == "") {
			v.AddError(field("username"), "username and password must be set together", t.Username)
		}
		ids = append(ids, t.ID)
	}
	v.Unique("tuners.id", ids)

	if err := v.Err(); err != nil {
		metrics.IncConfigValidationError()
		return err
	}
	return nil
}
