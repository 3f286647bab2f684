// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transportOf(t *testing.T, c *http.Client) *http.Transport {
	t.Helper()
	tr, ok := c.Transport.(*http.Transport)
	require.Truef(t, ok, "transport type = %T, want *http.Transport", c.Transport)
	return tr
}

func TestNewClient_DefaultTimeoutAndTransport(t *testing.T) {
	client := NewClient(0)
	assert.Equal(t, defaultClientTimeout, client.Timeout)

	tr := transportOf(t, client)
	assert.Equal(t, defaultMaxIdleConns, tr.MaxIdleConns)
	assert.Equal(t, defaultMaxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
	assert.Equal(t, defaultIdleConnTimeout, tr.IdleConnTimeout)
	assert.False(t, tr.DisableCompression)
}

func TestNewClient_CapsDialAndHeaderTimeouts(t *testing.T) {
	tr := transportOf(t, NewClient(10*time.Second))
	assert.Equal(t, defaultDialTimeout, tr.TLSHandshakeTimeout)
	assert.Equal(t, defaultResponseHeaderTimeout, tr.ResponseHeaderTimeout)
}

func TestNewClient_UsesShortTimeoutAsProvided(t *testing.T) {
	want := 1500 * time.Millisecond
	client := NewClient(want)
	tr := transportOf(t, client)
	assert.Equal(t, want, client.Timeout)
	assert.Equal(t, want, tr.TLSHandshakeTimeout)
	assert.Equal(t, want, tr.ResponseHeaderTimeout)
}

func TestNew_DisableCompression(t *testing.T) {
	tr := transportOf(t, New(Options{DisableCompression: true}))
	assert.True(t, tr.DisableCompression)
}

func TestNew_TracedWrapsTransport(t *testing.T) {
	client := New(Options{Traced: true})
	_, plain := client.Transport.(*http.Transport)
	assert.False(t, plain)
	assert.NotNil(t, client.Transport)
}
