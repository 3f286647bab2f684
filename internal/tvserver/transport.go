// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	"github.com/ManuGH/tvmosaic-bridge/internal/platform/httpx"
)

const (
	// remoteControlPath is the single endpoint every command is posted to.
	remoteControlPath = "/mobile"

	formCommand = "command"
	formParam   = "xml_param"

	defaultPostTimeout = 30 * time.Second
)

// maxResponseBytes caps a single response body. Larger answers fail rather
// than being truncated into a decode error.
var maxResponseBytes int64 = 32 << 20

// Credentials for HTTP Basic auth. They are only sent when both fields are set.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) usable() bool { return c.Username != "" && c.Password != "" }

// Poster performs the single HTTP operation of the protocol.
type Poster interface {
	Post(ctx context.Context, endpoint string, form url.Values, creds Credentials) (string, error)
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(ctx context.Context, endpoint string, form url.Values, creds Credentials) (string, error)

func (f PosterFunc) Post(ctx context.Context, endpoint string, form url.Values, creds Credentials) (string, error) {
	return f(ctx, endpoint, form, creds)
}

// Endpoint derives the remote-control URL from a tuner base URL.
func Endpoint(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasSuffix(strings.ToLower(trimmed), remoteControlPath) {
		return trimmed
	}
	return trimmed + remoteControlPath
}

// PosterOptions configures an HTTPPoster.
type PosterOptions struct {
	Timeout time.Duration
	// RateLimit throttles outbound requests per second. Zero disables it.
	RateLimit float64
	RateBurst int
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
	Logger *zerolog.Logger
}

// HTTPPoster posts form-encoded commands over HTTP.
type HTTPPoster struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewHTTPPoster builds a poster with compression disabled and tracing on.
func NewHTTPPoster(opts PosterOptions) *HTTPPoster {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultPostTimeout
		}
		client = httpx.New(httpx.Options{
			Timeout:            timeout,
			DisableCompression: true,
			Traced:             true,
		})
	}
	p := &HTTPPoster{client: client, logger: log.WithComponent("tvserver.transport")}
	if opts.Logger != nil {
		p.logger = *opts.Logger
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return p
}

// Post sends form to endpoint and returns the trimmed body. Network errors,
// cancellation and non-2xx answers are returned as ErrTransport. Nothing is
// retried.
func (p *HTTPPoster) Post(ctx context.Context, endpoint string, form url.Values, creds Credentials) (string, error) {
	command := form.Get(formCommand)
	logger := log.WithContext(ctx, p.logger).With().
		Str(log.FieldCommand, command).
		Str(log.FieldEndpoint, redactURL(endpoint)).
		Logger()

	start := time.Now()
	body, status, err := p.do(ctx, endpoint, form, creds)
	metrics.RecordBackendRequest(command, status, time.Since(start), err)
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "tvserver.transport_failed").
			Int(log.FieldHTTPStatus, status).
			Dur("duration", time.Since(start)).
			Msg("backend request failed")
		return "", &Error{Sentinel: ErrTransport, Command: command, HTTPStatus: status, Err: err}
	}
	logger.Debug().
		Str(log.FieldEvent, "tvserver.request").
		Int(log.FieldHTTPStatus, status).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("backend request completed")
	return body, nil
}

func (p *HTTPPoster) do(ctx context.Context, endpoint string, form url.Values, creds Credentials) (string, int, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/xml")
	if creds.usable() {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", resp.StatusCode, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > maxResponseBytes {
		return "", resp.StatusCode, fmt.Errorf("response too large: more than %d bytes", maxResponseBytes)
	}
	return strings.TrimSpace(string(raw)), resp.StatusCode, nil
}

// redactURL drops user info so credentials never reach the logs.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = nil
	return u.String()
}
