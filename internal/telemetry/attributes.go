// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by backend and API spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	BackendCommandKey  = "tvserver.command"
	BackendEndpointKey = "tvserver.endpoint"
	BackendStatusKey   = "tvserver.status"

	TunerIDKey    = "tuner.id"
	ChannelIDKey  = "tuner.channel_id"
	ChannelsKey   = "epg.channels"
	ProgramsKey   = "epg.programs"
	EPGStartKey   = "epg.start"
	EPGEndKey     = "epg.end"
	ErrorKey      = "error"
	ErrorClassKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// BackendAttributes describes a single remote-control command.
func BackendAttributes(command, endpoint string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if command != "" {
		attrs = append(attrs, attribute.String(BackendCommandKey, command))
	}
	if endpoint != "" {
		attrs = append(attrs, attribute.String(BackendEndpointKey, endpoint))
	}
	return attrs
}

// EPGAttributes describes a guide query window in unix seconds.
func EPGAttributes(channels int, start, end int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(ChannelsKey, channels),
		attribute.Int64(EPGStartKey, start),
		attribute.Int64(EPGEndKey, end),
	}
}

// TunerAttributes identifies the tuner and, optionally, the channel.
func TunerAttributes(tunerID, channelID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(TunerIDKey, tunerID)}
	if channelID != "" {
		attrs = append(attrs, attribute.String(ChannelIDKey, channelID))
	}
	return attrs
}

// ErrorAttributes flags a span as failed with a coarse error class.
func ErrorAttributes(errorClass string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorClassKey, errorClass),
	}
}
