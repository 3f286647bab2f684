// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.Handler().ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	return recorder.Body.String()
}

func gather(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not registered", name)
	return nil
}

func labelsOf(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestPromhttpExposure(t *testing.T) {
	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestRecordChannelListing(t *testing.T) {
	metrics.RecordChannelListing("listing-test", 2, 3, 1)

	mf := gather(t, "tvmb_channel_types")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		l := labelsOf(m)
		if l["tuner"] == "listing-test" {
			got[l["type"]] = m.GetGauge().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"hd": 2, "sd": 3, "radio": 1}, got)
	assert.Contains(t, scrape(t), `tvmb_channels_translated{tuner="listing-test"} 6`)
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		err    error
		status int
		want   string
	}{
		{errors.New("dial"), 200, "error"},
		{nil, 200, "2xx"},
		{nil, 302, "3xx"},
		{nil, 404, "4xx"},
		{nil, 503, "5xx"},
		{nil, 101, "1xx"},
		{nil, 0, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.StatusClass(tt.err, tt.status))
	}
}

func TestRecordBackendRequest(t *testing.T) {
	metrics.RecordBackendRequest("metrics_test_cmd", 200, 120*time.Millisecond, nil)
	metrics.RecordBackendRequest("metrics_test_cmd", 0, time.Second, errors.New("refused"))

	mf := gather(t, "tvmb_backend_request_total")
	classes := map[string]float64{}
	for _, m := range mf.GetMetric() {
		l := labelsOf(m)
		if l["command"] == "metrics_test_cmd" {
			classes[l["status_class"]] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, classes["2xx"])
	assert.Equal(t, 1.0, classes["error"])

	body := scrape(t)
	assert.True(t, strings.Contains(body, "tvmb_backend_request_duration_seconds_bucket"))
}

func TestBackendStatusAndDecodeCounters(t *testing.T) {
	metrics.RecordBackendStatus("get_channels", "STATUS_INVALID_DATA")
	metrics.IncBackendDecodeError("tvserver.Channels")
	metrics.IncBackendQuirkStrip()

	body := scrape(t)
	assert.Contains(t, body, `tvmb_backend_status_total{command="get_channels",status="STATUS_INVALID_DATA"}`)
	assert.Contains(t, body, `tvmb_backend_decode_errors_total{type="tvserver.Channels"}`)
	assert.Contains(t, body, "tvmb_backend_quirk_prefix_stripped_total")
}

func TestExportMetrics(t *testing.T) {
	for _, format := range []string{"m3u", "xmltv"} {
		metrics.RecordExport(format, 10)
		metrics.IncExportError(format, "write")
	}
	metrics.IncStreamURLBuild("stream")
	metrics.AddProgramsTranslated("export-test", 4)
	metrics.IncConfigValidationError()

	body := scrape(t)
	for _, want := range []string{
		`tvmb_export_entries_written{format="m3u"} 10`,
		`tvmb_export_entries_written{format="xmltv"} 10`,
		`tvmb_export_errors_total{format="xmltv",stage="write"}`,
		`tvmb_stream_url_build_total{segment="stream"}`,
		`tvmb_programs_translated_total{tuner="export-test"} 4`,
		"tvmb_config_validation_errors_total",
	} {
		assert.Contains(t, body, want)
	}
}
