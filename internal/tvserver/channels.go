// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"encoding/xml"
	"strings"
)

// ChannelType is the channel_type enumeration.
type ChannelType int

const (
	ChannelTypeTV    ChannelType = 0
	ChannelTypeRadio ChannelType = 1
	ChannelTypeOther ChannelType = 2
)

func (t ChannelType) String() string {
	switch t {
	case ChannelTypeTV:
		return "tv"
	case ChannelTypeRadio:
		return "radio"
	default:
		return "other"
	}
}

// Channels is the get_channels payload.
type Channels struct {
	XMLName xml.Name  `xml:"channels"`
	Items   []Channel `xml:"channel"`
}

// Channel is a single backend channel record.
type Channel struct {
	DVBLinkID string      `xml:"channel_dvblink_id"`
	ID        string      `xml:"channel_id"`
	Name      string      `xml:"channel_name"`
	Number    int         `xml:"channel_number"`
	SubNumber int         `xml:"channel_subnumber"`
	Type      ChannelType `xml:"channel_type"`
	ChildLock Flag        `xml:"channel_child_lock,omitempty"`
	Logo      string      `xml:"channel_logo,omitempty"`

	// Derived locally, never on the wire.
	HasChannelLogo bool `xml:"-"`
	ServerLogo     bool `xml:"-"`
	IsHD           bool `xml:"-"`
}

// NameIsHD reports whether a channel name advertises HD.
func NameIsHD(name string) bool {
	return strings.Contains(strings.ToLower(name), "hd")
}

// Find returns the channel with the given backend id.
func (c *Channels) Find(id string) (Channel, bool) {
	if c == nil {
		return Channel{}, false
	}
	for _, ch := range c.Items {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}
