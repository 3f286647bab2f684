// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvmb_backend_request_total",
			Help: "Total number of backend remote-control requests",
		},
		[]string{"command", "status_class"},
	)
	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tvmb_backend_request_duration_seconds",
			Help:    "Duration of backend remote-control requests",
			Buckets: prometheus.ExponentialBuckets(0.05, 2.0, 8),
		},
		[]string{"command", "status_class"},
	)
	backendStatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvmb_backend_status_total",
			Help: "Backend envelope status codes by command",
		},
		[]string{"command", "status"},
	)
	backendDecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvmb_backend_decode_errors_total",
			Help: "Number of backend payloads that failed to decode",
		},
		[]string{"type"},
	)
	backendQuirkStrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tvmb_backend_quirk_prefix_stripped_total",
			Help: "Number of nested results that carried the legacy '?' prefix",
		},
	)
)

// StatusClass buckets a transport outcome for metric labels.
func StatusClass(err error, status int) string {
	if err != nil {
		return "error"
	}
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	case status > 0:
		return "1xx"
	}
	return "unknown"
}

// RecordBackendRequest records one backend round trip.
func RecordBackendRequest(command string, status int, duration time.Duration, err error) {
	class := StatusClass(err, status)
	backendRequestTotal.WithLabelValues(command, class).Inc()
	backendRequestDuration.WithLabelValues(command, class).Observe(duration.Seconds())
}

// RecordBackendStatus records the envelope status a command returned.
func RecordBackendStatus(command, status string) {
	backendStatusTotal.WithLabelValues(command, status).Inc()
}

func IncBackendDecodeError(typeName string) { backendDecodeErrors.WithLabelValues(typeName).Inc() }

func IncBackendQuirkStrip() { backendQuirkStrips.Inc() }
