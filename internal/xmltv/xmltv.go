// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package xmltv renders translated channels and programs as an XMLTV guide.
package xmltv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	unorm "golang.org/x/text/unicode/norm"

	"github.com/ManuGH/tvmosaic-bridge/internal/fsutil"
	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
)

const (
	generatorName = "tvmosaic-bridge"
	timeLayout    = "20060102150405 -0700"
)

type TV struct {
	XMLName   xml.Name    `xml:"tv"`
	Generator string      `xml:"generator-info-name,attr,omitempty"`
	Channels  []Channel   `xml:"channel"`
	Programs  []Programme `xml:"programme"`
}

type Channel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
	Icon        *Icon    `xml:"icon,omitempty"`
}

type Icon struct {
	Src string `xml:"src,attr"`
}

type Programme struct {
	Start           string       `xml:"start,attr"`
	Stop            string       `xml:"stop,attr"`
	Channel         string       `xml:"channel,attr"`
	Title           string       `xml:"title"`
	SubTitle        string       `xml:"sub-title,omitempty"`
	Desc            string       `xml:"desc,omitempty"`
	Date            string       `xml:"date,omitempty"`
	Categories      []string     `xml:"category,omitempty"`
	Icon            *Icon        `xml:"icon,omitempty"`
	EpisodeNums     []EpisodeNum `xml:"episode-num,omitempty"`
	Video           *Video       `xml:"video,omitempty"`
	PreviouslyShown *struct{}    `xml:"previously-shown,omitempty"`
	Premiere        *struct{}    `xml:"premiere,omitempty"`
}

type EpisodeNum struct {
	System string `xml:"system,attr"`
	Value  string `xml:",chardata"`
}

type Video struct {
	Quality string `xml:"quality,omitempty"`
}

// Entry is one channel with the programs fetched for it.
type Entry struct {
	Channel  livetv.ChannelInfo
	Programs []livetv.ProgramInfo
}

// Build converts entries into a guide. Programme elements reference the
// channel id of their entry.
func Build(entries []Entry) *TV {
	tv := &TV{Generator: generatorName, Channels: []Channel{}, Programs: []Programme{}}
	for _, e := range entries {
		ch := Channel{ID: e.Channel.ID, DisplayName: []string{displayName(e.Channel.Name)}}
		if e.Channel.Number != "" {
			ch.DisplayName = append(ch.DisplayName, e.Channel.Number)
		}
		if e.Channel.ImageURL != "" {
			ch.Icon = &Icon{Src: e.Channel.ImageURL}
		}
		tv.Channels = append(tv.Channels, ch)

		for _, p := range e.Programs {
			tv.Programs = append(tv.Programs, programme(e.Channel.ID, p))
		}
	}
	return tv
}

func displayName(s string) string {
	return unorm.NFC.String(strings.TrimSpace(s))
}

func programme(channelID string, p livetv.ProgramInfo) Programme {
	out := Programme{
		Start:      formatTime(p.StartDate),
		Stop:       formatTime(p.EndDate),
		Channel:    channelID,
		Title:      p.Name,
		SubTitle:   p.EpisodeTitle,
		Desc:       p.Overview,
		Categories: categories(p),
	}
	if p.ProductionYear != nil {
		out.Date = strconv.Itoa(*p.ProductionYear)
	}
	if p.ImageURL != "" {
		out.Icon = &Icon{Src: p.ImageURL}
	}
	if p.SeasonNumber != nil || p.EpisodeNumber != nil {
		out.EpisodeNums = episodeNums(p.SeasonNumber, p.EpisodeNumber)
	}
	if p.IsHD {
		out.Video = &Video{Quality: "HDTV"}
	}
	if p.IsRepeat {
		out.PreviouslyShown = &struct{}{}
	}
	if p.IsPremiere {
		out.Premiere = &struct{}{}
	}
	return out
}

func formatTime(t time.Time) string { return t.Format(timeLayout) }

// categories keeps backend genres first, then adds the flag derived ones
// that are not already present.
func categories(p livetv.ProgramInfo) []string {
	out := append([]string(nil), p.Genres...)
	seen := make(map[string]bool, len(out))
	for _, g := range out {
		seen[strings.ToLower(g)] = true
	}
	add := func(ok bool, name string) {
		if ok && !seen[strings.ToLower(name)] {
			seen[strings.ToLower(name)] = true
			out = append(out, name)
		}
	}
	add(p.IsMovie, "Movie")
	add(p.IsSeries, "Series")
	add(p.IsNews, "News")
	add(p.IsSports, "Sports")
	add(p.IsKids, "Kids")
	add(p.IsEducational, "Educational")
	return out
}

// episodeNums renders xmltv_ns (zero based) and onscreen numbering.
func episodeNums(season, episode *int) []EpisodeNum {
	part := func(n *int) string {
		if n == nil || *n < 1 {
			return ""
		}
		return strconv.Itoa(*n - 1)
	}
	nums := []EpisodeNum{{System: "xmltv_ns", Value: part(season) + "." + part(episode) + "."}}

	var onscreen strings.Builder
	if season != nil {
		fmt.Fprintf(&onscreen, "S%02d", *season)
	}
	if episode != nil {
		fmt.Fprintf(&onscreen, "E%02d", *episode)
	}
	nums = append(nums, EpisodeNum{System: "onscreen", Value: onscreen.String()})
	return nums
}

// Encode writes tv as an indented XMLTV document.
func Encode(w io.Writer, tv *TV) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(tv); err != nil {
		return fmt.Errorf("encode xmltv: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile atomically replaces path with the encoded guide.
func WriteFile(ctx context.Context, path string, tv *TV) error {
	err := fsutil.WriteAtomic(ctx, path, func(w io.Writer) error {
		return Encode(w, tv)
	})
	if err != nil {
		metrics.IncExportError("xmltv", "write")
		return err
	}
	metrics.RecordExport("xmltv", len(tv.Programs))
	return nil
}
