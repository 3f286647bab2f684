// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

const DefaultTunerID = "default"

// AppConfig is the effective configuration after defaults, file and env.
type AppConfig struct {
	Version string `yaml:"-"`

	LogLevel  string          `yaml:"logLevel"`
	API       APIConfig       `yaml:"api"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Backend   BackendConfig   `yaml:"backend"`
	Tuners    []TunerConfig   `yaml:"tuners"`
}

type APIConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit int `yaml:"rateLimit"`
	// PublicURL is advertised as x-tvg-url in playlists.
	PublicURL string `yaml:"publicURL"`
	// GuideHours is the default guide window.
	GuideHours int `yaml:"guideHours"`
}

type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listenAddr"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"samplingRate"`
}

type BackendConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit caps outbound requests per second. Zero is unlimited.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

type TunerConfig struct {
	ID            string `yaml:"id"`
	Type          string `yaml:"type"`
	URL           string `yaml:"url"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	StreamingPort int    `yaml:"streamingPort"`
	Version       int    `yaml:"version"`
}

// Tuner converts the entry into the backend connection settings.
func (t TunerConfig) Tuner() (tvserver.Tuner, error) {
	typ, err := tvserver.ParseClientType(t.Type)
	if err != nil {
		return tvserver.Tuner{}, err
	}
	return tvserver.Tuner{
		ID:            t.ID,
		Type:          typ,
		URL:           t.URL,
		Username:      t.Username,
		Password:      t.Password,
		StreamingPort: t.StreamingPort,
		Version:       t.Version,
	}, nil
}

// Tuner looks a tuner up by id.
func (c AppConfig) Tuner(id string) (tvserver.Tuner, error) {
	for _, t := range c.Tuners {
		if t.ID == id {
			return t.Tuner()
		}
	}
	return tvserver.Tuner{}, fmt.Errorf("%w: %q", ErrUnknownTuner, id)
}

// TunerList converts every configured tuner. Entries with an invalid type
// are skipped; Validate rejects them before they get here.
func (c AppConfig) TunerList() []tvserver.Tuner {
	out := make([]tvserver.Tuner, 0, len(c.Tuners))
	for _, t := range c.Tuners {
		if tuner, err := t.Tuner(); err == nil {
			out = append(out, tuner)
		}
	}
	return out
}

func defaultTuner(id string) TunerConfig {
	d := tvserver.DefaultTuner()
	return TunerConfig{
		ID:            id,
		Type:          strings.ToLower(d.Type.String()),
		URL:           d.URL,
		StreamingPort: d.StreamingPort,
		Version:       d.Version,
	}
}

// Defaults returns the configuration used when nothing is set.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel: "info",
		API: APIConfig{
			ListenAddr: ":8080",
			RateLimit:  120,
			GuideHours: 24,
		},
		Metrics: MetricsConfig{ListenAddr: ":9090"},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Environment:  "production",
			SamplingRate: 1.0,
		},
		Backend: BackendConfig{
			Timeout:   30 * time.Second,
			RateBurst: 1,
		},
	}
}

// Loader applies defaults, the YAML file and the environment in order.
type Loader struct {
	configPath string
	version    string
}

func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

func (l *Loader) Path() string { return l.configPath }

// Load builds and validates the configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	fillTunerDefaults(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes the YAML file on top of cfg. Unknown fields are fatal.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- the path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.API.ListenAddr = ParseString(EnvListen, cfg.API.ListenAddr)
	cfg.Metrics.ListenAddr = ParseString(EnvMetricsListen, cfg.Metrics.ListenAddr)
	cfg.Backend.Timeout = ParseDuration(EnvBackendTimeout, cfg.Backend.Timeout)

	if !anyEnvSet(tunerEnvKeys) {
		return
	}
	if len(cfg.Tuners) == 0 {
		cfg.Tuners = []TunerConfig{defaultTuner(DefaultTunerID)}
	}
	t := &cfg.Tuners[0]
	t.URL = ParseString(EnvURL, t.URL)
	t.Username = ParseString(EnvUsername, t.Username)
	t.Password = ParseString(EnvPassword, t.Password)
	t.StreamingPort = ParseInt(EnvStreamingPort, t.StreamingPort)
	t.Version = ParseInt(EnvVersion, t.Version)
	t.Type = ParseString(EnvType, t.Type)
}

func anyEnvSet(keys []string) bool {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			return true
		}
	}
	return false
}

// fillTunerDefaults completes partial tuner entries. Without any tuner the
// local default server is used.
func fillTunerDefaults(cfg *AppConfig) {
	if len(cfg.Tuners) == 0 {
		cfg.Tuners = []TunerConfig{defaultTuner(DefaultTunerID)}
		return
	}
	for i := range cfg.Tuners {
		t := &cfg.Tuners[i]
		d := defaultTuner(t.ID)
		if t.Type == "" {
			t.Type = d.Type
		}
		if t.URL == "" {
			t.URL = d.URL
		}
		if t.StreamingPort == 0 {
			t.StreamingPort = d.StreamingPort
		}
		if t.Version == 0 {
			t.Version = d.Version
		}
	}
}

// Redacted returns a copy safe to log or serve.
func (c AppConfig) Redacted() AppConfig {
	out := c
	out.Tuners = make([]TunerConfig, len(c.Tuners))
	for i, t := range c.Tuners {
		if t.Password != "" {
			t.Password = "***"
		}
		out.Tuners[i] = t
	}
	return out
}

func (c AppConfig) String() string {
	b, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return "config: " + strconv.Quote(err.Error())
	}
	return string(b)
}
