// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package livetv exposes TVMosaic / DVBLink tuners through a generic channel
// guide model.
package livetv

import "time"

type ChannelType string

const (
	ChannelTypeTV    ChannelType = "TV"
	ChannelTypeRadio ChannelType = "Radio"
)

// ChannelInfo is a channel as the host sees it.
type ChannelInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Number      string      `json:"number"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	ChannelType ChannelType `json:"channelType"`
	IsHD        bool        `json:"isHd"`
	TunerHostID string      `json:"tunerHostId,omitempty"`
}

// ProgramInfo is a guide entry. Unknown numbers are nil, never zero.
type ProgramInfo struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channelId"`
	Name         string    `json:"name"`
	EpisodeTitle string    `json:"episodeTitle,omitempty"`
	Overview     string    `json:"overview,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`

	IsRepeat      bool `json:"isRepeat"`
	IsPremiere    bool `json:"isPremiere"`
	IsHD          bool `json:"isHd"`
	IsMovie       bool `json:"isMovie"`
	IsNews        bool `json:"isNews"`
	IsSeries      bool `json:"isSeries"`
	IsSports      bool `json:"isSports"`
	IsKids        bool `json:"isKids"`
	IsEducational bool `json:"isEducational"`

	ProductionYear *int     `json:"productionYear,omitempty"`
	SeasonNumber   *int     `json:"seasonNumber,omitempty"`
	EpisodeNumber  *int     `json:"episodeNumber,omitempty"`
	Genres         []string `json:"genres,omitempty"`
}

type MediaProtocol string

const ProtocolHTTP MediaProtocol = "Http"

type MediaStreamType string

const (
	MediaStreamVideo MediaStreamType = "Video"
	MediaStreamAudio MediaStreamType = "Audio"
)

// MediaStream describes one elementary stream. Index -1 means the position
// inside the container is unknown.
type MediaStream struct {
	Type         MediaStreamType `json:"type"`
	Index        int             `json:"index"`
	IsInterlaced bool            `json:"isInterlaced,omitempty"`
}

// MediaSourceInfo tells the host how to open a live channel.
type MediaSourceInfo struct {
	ID                   string        `json:"id"`
	Path                 string        `json:"path"`
	Protocol             MediaProtocol `json:"protocol"`
	MediaStreams         []MediaStream `json:"mediaStreams"`
	RequiresOpening      bool          `json:"requiresOpening"`
	RequiresClosing      bool          `json:"requiresClosing"`
	SupportsDirectPlay   bool          `json:"supportsDirectPlay"`
	SupportsDirectStream bool          `json:"supportsDirectStream"`
	SupportsTranscoding  bool          `json:"supportsTranscoding"`
	IsInfiniteStream     bool          `json:"isInfiniteStream"`
}
