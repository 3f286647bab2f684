// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"fmt"
	"strings"
)

// ClientType selects one of the two server personalities sharing the protocol.
type ClientType int

const (
	TVMosaic ClientType = iota
	DVBLink
)

const (
	tvMosaicClientID = "BD4C3582-AA2E-4C89-B816-F0EEF937CAEE"
	dvbLinkClientID  = "61A0D104-2FC1-473A-8954-CD6AAB1BE0D9"
)

func (t ClientType) String() string {
	if t == DVBLink {
		return "DVBLink"
	}
	return "TVMosaic"
}

// ClientID is the client query parameter of direct-stream URLs.
func (t ClientType) ClientID() string {
	if t == DVBLink {
		return dvbLinkClientID
	}
	return tvMosaicClientID
}

// ParseClientType accepts "tvmosaic" or "dvblink" in any case.
func ParseClientType(s string) (ClientType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tvmosaic":
		return TVMosaic, nil
	case "dvblink":
		return DVBLink, nil
	default:
		return TVMosaic, fmt.Errorf("unknown server type %q (want tvmosaic or dvblink)", s)
	}
}

const (
	DefaultURL           = "http://localhost:9270"
	DefaultStreamingPort = 9271
	DefaultVersion       = 7
)

// Tuner is one configured backend connection. The host owns these records;
// the client only reads them.
type Tuner struct {
	ID            string
	Type          ClientType
	URL           string
	Username      string
	Password      string
	StreamingPort int
	Version       int
}

// DefaultTuner returns a tuner pointing at a local TVMosaic server.
func DefaultTuner() Tuner {
	return Tuner{
		Type:          TVMosaic,
		URL:           DefaultURL,
		StreamingPort: DefaultStreamingPort,
		Version:       DefaultVersion,
	}
}

func (t Tuner) Credentials() Credentials {
	return Credentials{Username: t.Username, Password: t.Password}
}

func (t Tuner) Endpoint() string { return Endpoint(t.URL) }
