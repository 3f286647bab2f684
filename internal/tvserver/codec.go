// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
)

// quirkPrefix is emitted in front of nested results by DVBLink 4.6.
const quirkPrefix = "?"

// Codec serializes requests and decodes envelopes and payloads. Per-type
// codecs are built lazily and shared by concurrent callers.
type Codec struct {
	types  sync.Map // reflect.Type -> *typeCodec
	logger zerolog.Logger
}

// typeCodec holds what we learn once about a Go type.
type typeCodec struct {
	typ  reflect.Type
	name string
	root string
}

// NewCodec returns a codec that logs through logger.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{logger: logger}
}

func (c *Codec) codecFor(t reflect.Type) *typeCodec {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v, ok := c.types.Load(t); ok {
		return v.(*typeCodec)
	}
	// Two first-time callers may both build one; only the stored one survives.
	v, _ := c.types.LoadOrStore(t, newTypeCodec(t))
	return v.(*typeCodec)
}

func newTypeCodec(t reflect.Type) *typeCodec {
	tc := &typeCodec{typ: t, name: t.String(), root: strings.ToLower(t.Name())}
	if t.Kind() != reflect.Struct {
		return tc
	}
	if f, ok := t.FieldByName("XMLName"); ok {
		tag := f.Tag.Get("xml")
		if i := strings.LastIndex(tag, " "); i >= 0 {
			tag = tag[i+1:]
		}
		if tag != "" {
			tc.root = tag
		}
	}
	return tc
}

func (tc *typeCodec) encode(v any) (string, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", tc.name, err)
	}
	return xml.Header + string(out), nil
}

func (tc *typeCodec) decode(text string, v any) error {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true
	// No custom entities: rejects entity expansion payloads.
	dec.Entity = make(map[string]string)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", tc.name, err)
	}
	return nil
}

// Serialize returns the command name and the markup body of req.
func (c *Codec) Serialize(req Request) (command, body string, err error) {
	if req == nil {
		return "", "", fmt.Errorf("serialize: nil request")
	}
	body, err = c.codecFor(reflect.TypeOf(req)).encode(req)
	if err != nil {
		return "", "", err
	}
	return req.Command(), body, nil
}

// Decode parses text into a T. Empty text yields the zero T and no error. A
// parse failure is logged and yields the zero T with an ErrDecode error.
func Decode[T any](c *Codec, text string) (T, error) {
	var zero T
	if strings.TrimSpace(text) == "" {
		return zero, nil
	}
	tc := c.codecFor(reflect.TypeFor[T]())
	var v T
	if err := tc.decode(text, &v); err != nil {
		metrics.IncBackendDecodeError(tc.name)
		c.logger.Error().
			Err(err).
			Str(log.FieldEvent, "tvserver.decode_failed").
			Str("type", tc.name).
			Str("root", tc.root).
			Int("bytes", len(text)).
			Msg("cannot deserialize backend data")
		return zero, &Error{Sentinel: ErrDecode, Err: err}
	}
	return v, nil
}

// StripQuirk removes exactly one leading "?" emitted by DVBLink 4.6.
// Nothing else is repaired.
func StripQuirk(s string) (string, bool) {
	if strings.HasPrefix(s, quirkPrefix) {
		return s[len(quirkPrefix):], true
	}
	return s, false
}
