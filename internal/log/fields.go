// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID  = "request_id"
	FieldTunerID    = "tuner_id"
	FieldChannelID  = "channel_id"
	FieldClientType = "client_type"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldCommand   = "command"

	// Backend fields
	FieldStatus     = "status"
	FieldHTTPStatus = "http_status"

	// Path / URL fields
	FieldPath     = "path"
	FieldBaseURL  = "base_url"
	FieldEndpoint = "endpoint"

	// Tracing fields
	FieldTraceID = "trace_id"
	FieldSpanID  = "span_id"
)
