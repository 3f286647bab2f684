// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package livetv

import (
	"strconv"
	"strings"

	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

// ChannelInfoFrom translates a backend channel. HD comes from the name, the
// upstream flag is ignored. The logo is kept only for server-provided logos.
func ChannelInfoFrom(ch tvserver.Channel) ChannelInfo {
	info := ChannelInfo{
		ID:          ch.DVBLinkID,
		Name:        ch.Name,
		Number:      strconv.Itoa(ch.Number),
		ChannelType: channelType(ch.Type),
		IsHD:        tvserver.NameIsHD(ch.Name),
	}
	if ch.HasChannelLogo && ch.ServerLogo {
		info.ImageURL = ch.Logo
	}
	return info
}

func channelType(t tvserver.ChannelType) ChannelType {
	if t == tvserver.ChannelTypeRadio {
		return ChannelTypeRadio
	}
	return ChannelTypeTV
}

// ProgramInfoFrom translates a backend program of channelID.
func ProgramInfoFrom(channelID string, p tvserver.Program) ProgramInfo {
	info := ProgramInfo{ChannelID: channelID}
	info.Apply(p)
	return info
}

// Apply copies p onto info. Name and EpisodeTitle keep their previous value
// when p leaves them empty.
func (info *ProgramInfo) Apply(p tvserver.Program) {
	info.ID = p.ID
	info.Overview = p.ShortDesc
	info.ImageURL = p.Image
	info.StartDate = p.Start()
	info.EndDate = p.End()

	info.IsRepeat = bool(p.Repeat)
	info.IsPremiere = bool(p.Premiere)
	info.IsHD = bool(p.HDTV)
	info.IsMovie = bool(p.Movie)
	info.IsNews = bool(p.News)
	info.IsSeries = bool(p.IsSeries)
	info.IsSports = bool(p.Sports)
	info.IsKids = bool(p.Kids)
	info.IsEducational = bool(p.Educational)

	info.ProductionYear = positive(p.Year)
	info.SeasonNumber = positive(p.SeasonNum)
	info.EpisodeNumber = positive(p.EpisodeNum)

	if p.Name != "" {
		info.Name = p.Name
	}
	if p.Subname != "" {
		info.EpisodeTitle = p.Subname
	}
	if p.Categories != "" {
		info.Genres = strings.Split(p.Categories, "/")
	} else {
		info.Genres = nil
	}
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
