// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	channelsTranslated = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvmb_channels_translated",
		Help: "Number of channels translated per tuner (last listing)",
	}, []string{"tuner"})

	channelTypes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvmb_channel_types",
		Help: "Channels by type in last listing",
	}, []string{"tuner", "type"}) // type=hd|sd|radio

	programsTranslated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvmb_programs_translated_total",
		Help: "Total number of EPG programs translated",
	}, []string{"tuner"})

	streamURLBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvmb_stream_url_build_total",
		Help: "Direct stream URL generation by path segment",
	}, []string{"segment"}) // segment=stream|dvblink

	exportWritten = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvmb_export_entries_written",
		Help: "Entries written by the last export per format",
	}, []string{"format"}) // format=m3u|xmltv

	exportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvmb_export_errors_total",
		Help: "Total number of export failures by format and stage",
	}, []string{"format", "stage"}) // stage=fetch|write

	configValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvmb_config_validation_errors_total",
		Help: "Total number of configuration validation errors",
	})
)

// RecordChannelListing records the outcome of a translated channel listing.
func RecordChannelListing(tuner string, hd, sd, radio int) {
	channelsTranslated.WithLabelValues(tuner).Set(float64(hd + sd + radio))
	channelTypes.WithLabelValues(tuner, "hd").Set(float64(hd))
	channelTypes.WithLabelValues(tuner, "sd").Set(float64(sd))
	channelTypes.WithLabelValues(tuner, "radio").Set(float64(radio))
}

func AddProgramsTranslated(tuner string, n int) {
	programsTranslated.WithLabelValues(tuner).Add(float64(n))
}

func IncStreamURLBuild(segment string) { streamURLBuildTotal.WithLabelValues(segment).Inc() }

func RecordExport(format string, entries int) {
	exportWritten.WithLabelValues(format).Set(float64(entries))
}

func IncExportError(format, stage string) { exportErrors.WithLabelValues(format, stage).Inc() }

func IncConfigValidationError() { configValidationErrors.Inc() }
