// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"encoding/xml"
	"strings"
	"time"
)

// Flag is a presence flag: <hdtv/> means true. A flag element whose text is
// "false" or "0" is false.
type Flag bool

func (f *Flag) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0":
		*f = false
	default:
		*f = true
	}
	return nil
}

func (f Flag) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if !f {
		return nil
	}
	return e.EncodeElement("", start)
}

// EpgSearcher is the get_epg payload.
type EpgSearcher struct {
	XMLName  xml.Name     `xml:"epg_searcher"`
	Channels []ChannelEpg `xml:"channel_epg"`
}

// ChannelEpg is the guide of one channel.
type ChannelEpg struct {
	ChannelID string    `xml:"channel_id"`
	Programs  []Program `xml:"dvblink_epg>program"`
}

// First returns the first channel block, or nil.
func (e *EpgSearcher) First() *ChannelEpg {
	if e == nil || len(e.Channels) == 0 {
		return nil
	}
	return &e.Channels[0]
}

// Program is a single guide entry.
type Program struct {
	ID          string `xml:"program_id"`
	Name        string `xml:"name"`
	Subname     string `xml:"subname,omitempty"`
	ShortDesc   string `xml:"short_desc,omitempty"`
	Image       string `xml:"image,omitempty"`
	StartTime   int64  `xml:"start_time"`
	Duration    int64  `xml:"duration"`
	Year        int    `xml:"year,omitempty"`
	EpisodeNum  int    `xml:"episode_num,omitempty"`
	SeasonNum   int    `xml:"season_num,omitempty"`
	Categories  string `xml:"categories,omitempty"`
	Language    string `xml:"language,omitempty"`
	Actors      string `xml:"actors,omitempty"`
	Directors   string `xml:"directors,omitempty"`
	HDTV        Flag   `xml:"hdtv,omitempty"`
	Premiere    Flag   `xml:"premiere,omitempty"`
	Repeat      Flag   `xml:"repeat,omitempty"`
	IsSeries    Flag   `xml:"is_series,omitempty"`
	Movie       Flag   `xml:"cat_movie,omitempty"`
	News        Flag   `xml:"cat_news,omitempty"`
	Sports      Flag   `xml:"cat_sports,omitempty"`
	Kids        Flag   `xml:"cat_kids,omitempty"`
	Educational Flag   `xml:"cat_educational,omitempty"`
}

func (p Program) Start() time.Time { return FromUnixSeconds(p.StartTime) }

// End is start_time + duration.
func (p Program) End() time.Time { return FromUnixSeconds(p.StartTime + p.Duration) }
