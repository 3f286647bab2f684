// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
)

const envPrefix = "TVMB_"

const (
	EnvConfig         = envPrefix + "CONFIG"
	EnvLogLevel       = envPrefix + "LOG_LEVEL"
	EnvListen         = envPrefix + "LISTEN"
	EnvMetricsListen  = envPrefix + "METRICS_LISTEN"
	EnvURL            = envPrefix + "URL"
	EnvUsername       = envPrefix + "USERNAME"
	EnvPassword       = envPrefix + "PASSWORD"
	EnvStreamingPort  = envPrefix + "STREAMING_PORT"
	EnvVersion        = envPrefix + "VERSION"
	EnvType           = envPrefix + "TYPE"
	EnvBackendTimeout = envPrefix + "BACKEND_TIMEOUT"
)

// tunerEnvKeys select the single tuner shortcut.
var tunerEnvKeys = []string{EnvURL, EnvUsername, EnvPassword, EnvStreamingPort, EnvVersion, EnvType}

func sensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "token")
}

// parseEnv looks key up and converts it. Empty and unparseable values fall
// back to def. The chosen source is logged at debug level; secrets are
// never logged.
func parseEnv[T any](key string, def T, conv func(string) (T, error)) T {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().Str("key", key).Interface("default", def).Str("source", "default").Msg("using default value")
		return def
	}
	out, err := conv(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Interface("default", def).Msg("invalid environment variable, using default")
		return def
	}
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if sensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Interface("value", out)
	}
	ev.Msg("using environment variable")
	return out
}

// ParseString reads a string from the environment or returns the default.
func ParseString(key, def string) string {
	return parseEnv(key, def, func(s string) (string, error) { return s, nil })
}

func ParseInt(key string, def int) int {
	return parseEnv(key, def, strconv.Atoi)
}

func ParseFloat(key string, def float64) float64 {
	return parseEnv(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// ParseDuration accepts Go duration syntax, e.g. "5s".
func ParseDuration(key string, def time.Duration) time.Duration {
	return parseEnv(key, def, time.ParseDuration)
}

// ParseBool accepts true/false, 1/0 and yes/no in any case.
func ParseBool(key string, def bool) bool {
	return parseEnv(key, def, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, strconv.ErrSyntax
	})
}
