// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"encoding/xml"
	"time"
)

// Namespace is the default XML namespace of remote-control requests.
const Namespace = "http://www.dvblogic.com"

const (
	CommandGetChannels = "get_channels"
	CommandGetEpg      = "get_epg"
)

// Request is a typed remote-control command. The command name is derived
// from the type and never serialized into the body.
type Request interface {
	Command() string
}

// ChannelsRequest lists every channel known to the server.
type ChannelsRequest struct {
	XMLName xml.Name `xml:"http://www.dvblogic.com channels"`
}

func (ChannelsRequest) Command() string { return CommandGetChannels }

// EpgRequest searches the guide of one or more channels inside a time window
// expressed in unix seconds.
type EpgRequest struct {
	XMLName        xml.Name `xml:"http://www.dvblogic.com epg_searcher"`
	ChannelIDs     []string `xml:"channels_ids>channel_id"`
	ProgramID      string   `xml:"program_id,omitempty"`
	Keywords       string   `xml:"keywords,omitempty"`
	StartTime      int64    `xml:"start_time"`
	EndTime        int64    `xml:"end_time"`
	ShortEpg       bool     `xml:"epg_short,omitempty"`
	RequestedCount int      `xml:"requested_count,omitempty"`
}

func (EpgRequest) Command() string { return CommandGetEpg }

// NewEpgRequest builds a single-channel guide request for [start, end).
func NewEpgRequest(channelID string, start, end time.Time) EpgRequest {
	return EpgRequest{
		ChannelIDs: []string{channelID},
		StartTime:  UnixSeconds(start),
		EndTime:    UnixSeconds(end),
	}
}

// UnixSeconds converts t to epoch seconds in UTC.
func UnixSeconds(t time.Time) int64 { return t.UTC().Unix() }

// FromUnixSeconds converts epoch seconds to a UTC time.
func FromUnixSeconds(s int64) time.Time { return time.Unix(s, 0).UTC() }
