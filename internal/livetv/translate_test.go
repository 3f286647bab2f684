// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package livetv

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

func intPtr(n int) *int { return &n }

func TestChannelInfoFrom_HDFromName(t *testing.T) {
	tests := []struct {
		name   string
		in     tvserver.Channel
		wantHD bool
	}{
		{"hd suffix", tvserver.Channel{Name: "BBC HD"}, true},
		{"lower case", tvserver.Channel{Name: "arte hd"}, true},
		{"upstream flag ignored", tvserver.Channel{Name: "BBC One", IsHD: true}, false},
		{"upstream false ignored", tvserver.Channel{Name: "BBC HD", IsHD: false}, true},
		{"substring", tvserver.Channel{Name: "Shdw"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantHD, ChannelInfoFrom(tt.in).IsHD)
		})
	}
}

func TestChannelInfoFrom_Logo(t *testing.T) {
	base := tvserver.Channel{Name: "ZDF", Logo: "http://host/logo.png"}

	both := base
	both.HasChannelLogo, both.ServerLogo = true, true
	assert.Equal(t, "http://host/logo.png", ChannelInfoFrom(both).ImageURL)

	onlyHas := base
	onlyHas.HasChannelLogo = true
	assert.Empty(t, ChannelInfoFrom(onlyHas).ImageURL)

	onlyServer := base
	onlyServer.ServerLogo = true
	assert.Empty(t, ChannelInfoFrom(onlyServer).ImageURL)
}

func TestChannelInfoFrom_Fields(t *testing.T) {
	got := ChannelInfoFrom(tvserver.Channel{
		DVBLinkID: "1002",
		ID:        "43",
		Name:      "Radio 4",
		Number:    704,
		SubNumber: 1,
		Type:      tvserver.ChannelTypeRadio,
	})
	want := ChannelInfo{ID: "1002", Name: "Radio 4", Number: "704", ChannelType: ChannelTypeRadio}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ChannelInfoFrom mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, ChannelTypeTV, ChannelInfoFrom(tvserver.Channel{Type: tvserver.ChannelTypeOther}).ChannelType)
}

func TestProgramInfoFrom_NumbersAndGenres(t *testing.T) {
	start := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	p := tvserver.Program{
		ID:          "9001",
		Name:        "Match of the Day",
		Subname:     "Highlights",
		ShortDesc:   "Goals from today.",
		Image:       "http://host/img.jpg",
		StartTime:   start.Unix(),
		Duration:    3600,
		Year:        0,
		SeasonNum:   -1,
		EpisodeNum:  5,
		Categories:  "Sports/News",
		HDTV:        true,
		Sports:      true,
		Premiere:    true,
		Educational: true,
	}

	got := ProgramInfoFrom("42", p)
	want := ProgramInfo{
		ID:            "9001",
		ChannelID:     "42",
		Name:          "Match of the Day",
		EpisodeTitle:  "Highlights",
		Overview:      "Goals from today.",
		ImageURL:      "http://host/img.jpg",
		StartDate:     start,
		EndDate:       start.Add(time.Hour),
		IsHD:          true,
		IsSports:      true,
		IsPremiere:    true,
		IsEducational: true,
		EpisodeNumber: intPtr(5),
		Genres:        []string{"Sports", "News"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProgramInfoFrom mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.ProductionYear)
	assert.Nil(t, got.SeasonNumber)
}

func TestProgramInfoFrom_EmptyCategoriesYieldNoGenres(t *testing.T) {
	got := ProgramInfoFrom("42", tvserver.Program{Categories: ""})
	assert.Nil(t, got.Genres)

	got = ProgramInfoFrom("42", tvserver.Program{Categories: "Drama"})
	assert.Equal(t, []string{"Drama"}, got.Genres)

	got = ProgramInfoFrom("42", tvserver.Program{Year: 1999, SeasonNum: 2})
	assert.Equal(t, intPtr(1999), got.ProductionYear)
	assert.Equal(t, intPtr(2), got.SeasonNumber)
	assert.Nil(t, got.EpisodeNumber)
}

func TestProgramInfo_ApplyKeepsDefaults(t *testing.T) {
	info := ProgramInfo{Name: "Unknown programme", EpisodeTitle: "n/a"}
	info.Apply(tvserver.Program{ID: "1"})
	assert.Equal(t, "Unknown programme", info.Name)
	assert.Equal(t, "n/a", info.EpisodeTitle)

	info.Apply(tvserver.Program{ID: "1", Name: "News", Subname: "Late"})
	assert.Equal(t, "News", info.Name)
	assert.Equal(t, "Late", info.EpisodeTitle)
}

func TestProgramInfo_ApplyEmptyCategoriesClearsGenres(t *testing.T) {
	info := ProgramInfo{Genres: []string{"Stale"}}
	info.Apply(tvserver.Program{ID: "1", Categories: "Film/Drama"})
	assert.Equal(t, []string{"Film", "Drama"}, info.Genres)

	info.Apply(tvserver.Program{ID: "2"})
	assert.Nil(t, info.Genres)
}
