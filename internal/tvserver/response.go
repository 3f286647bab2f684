// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"context"
	"encoding/xml"
	"errors"
	"net/url"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	"github.com/ManuGH/tvmosaic-bridge/internal/telemetry"
)

// Response is the envelope every command answers with. Result holds the
// escaped nested payload and is only meaningful when Status is OK.
type Response struct {
	XMLName xml.Name   `xml:"response"`
	Status  StatusCode `xml:"status_code"`
	Result  string     `xml:"xml_result"`
}

// ResponseObject pairs an envelope with the request that produced it and the
// decoded payload. Result is set only when Status is OK, the payload decoded
// and T is not the envelope itself.
type ResponseObject[T any] struct {
	Response *Response
	Request  Request
	Status   StatusCode
	Result   *T
	// DecodeErr records a logged envelope or payload decode failure.
	DecodeErr error
}

// GetResponse serializes req, posts it to the tuner and decodes the envelope.
// Transport failures are returned as errors. An empty body yields a nil
// envelope; a malformed one yields a nil envelope and an ErrDecode error.
func (c *Client) GetResponse(ctx context.Context, req Request, tuner Tuner) (*Response, error) {
	command, body, err := c.codec.Serialize(req)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, "tvserver."+command,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(telemetry.BackendAttributes(command, redactURL(tuner.Endpoint()))...)
	span.SetAttributes(telemetry.TunerAttributes(tuner.ID, "")...)
	if epg, ok := epgWindow(req); ok {
		span.SetAttributes(telemetry.EPGAttributes(len(epg.ChannelIDs), epg.StartTime, epg.EndTime)...)
	}

	form := url.Values{}
	form.Set(formCommand, command)
	form.Set(formParam, body)

	text, err := c.poster.Post(ctx, tuner.Endpoint(), form, tuner.Credentials())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		span.SetAttributes(telemetry.ErrorAttributes("transport")...)
		return nil, withCommand(err, command)
	}

	resp, err := Decode[Response](c.codec, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		span.SetAttributes(telemetry.ErrorAttributes("decode")...)
		return nil, withCommand(err, command)
	}
	if text == "" {
		return nil, nil
	}

	metrics.RecordBackendStatus(command, resp.Status.String())
	span.SetAttributes(attribute.String(telemetry.BackendStatusKey, resp.Status.String()))
	if !resp.Status.OK() {
		span.SetStatus(codes.Error, resp.Status.String())
		span.SetAttributes(telemetry.ErrorAttributes("status")...)
	}
	return &resp, nil
}

// GetResponseObject runs req and decodes the nested payload into T. A non-OK
// status is not an error here: the object carries the status and no result.
func GetResponseObject[T any](ctx context.Context, c *Client, req Request, tuner Tuner) (*ResponseObject[T], error) {
	resp, err := c.GetResponse(ctx, req, tuner)
	obj := &ResponseObject[T]{Response: resp, Request: req}
	if err != nil {
		if !errors.Is(err, ErrDecode) {
			return nil, err
		}
		obj.DecodeErr = err
		return obj, nil
	}
	if resp == nil {
		return obj, nil
	}

	obj.Status = resp.Status
	if !resp.Status.OK() {
		return obj, nil
	}
	if selfRequest(req) || reflect.TypeFor[T]() == envelopeType {
		return obj, nil
	}

	payload, stripped := StripQuirk(resp.Result)
	if stripped {
		metrics.IncBackendQuirkStrip()
		l := log.WithContext(ctx, c.logger)
		l.Info().
			Str(log.FieldEvent, "tvserver.quirk_stripped").
			Str(log.FieldCommand, req.Command()).
			Str("result", resp.Result).
			Msg("stripped legacy prefix from nested result")
	}
	if payload == "" {
		return obj, nil
	}

	v, err := Decode[T](c.codec, payload)
	if err != nil {
		obj.DecodeErr = withCommand(err, req.Command())
		return obj, nil
	}
	obj.Result = &v
	return obj, nil
}

var envelopeType = reflect.TypeFor[Response]()

// selfRequest reports whether req is itself an envelope, i.e. its type embeds
// Response. Such a request is answered by the envelope alone and has no
// payload to decode.
func selfRequest(req Request) bool {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		if f := t.Field(i); f.Anonymous && f.Type == envelopeType {
			return true
		}
	}
	return false
}

func epgWindow(req Request) (EpgRequest, bool) {
	switch r := req.(type) {
	case EpgRequest:
		return r, true
	case *EpgRequest:
		if r != nil {
			return *r, true
		}
	}
	return EpgRequest{}, false
}

// Check is the strict variant: a missing envelope or, when requireResult is
// set, a missing payload is ErrNullResult; a non-OK status is
// ErrOperationFailed carrying that status.
func Check[T any](obj *ResponseObject[T], requireResult bool) error {
	if obj == nil {
		return &Error{Sentinel: ErrNullResult, Err: errors.New("result is null")}
	}
	command := ""
	if obj.Request != nil {
		command = obj.Request.Command()
	}
	if obj.Response == nil {
		return &Error{Sentinel: ErrNullResult, Command: command, Err: causeOr(obj.DecodeErr, "response is null")}
	}
	if !obj.Status.OK() {
		return &Error{Sentinel: ErrOperationFailed, Command: command, Status: obj.Status, Err: obj.DecodeErr}
	}
	if requireResult && obj.Result == nil {
		return &Error{Sentinel: ErrNullResult, Command: command, Err: causeOr(obj.DecodeErr, "result object is null")}
	}
	return nil
}

func causeOr(err error, msg string) error {
	if err != nil {
		return err
	}
	return errors.New(msg)
}
