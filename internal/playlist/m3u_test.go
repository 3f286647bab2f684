// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

func TestWriteM3UTable(t *testing.T) {
	tests := []struct {
		name    string
		items   []Item
		xTvgURL string
		expect  []string
	}{
		{
			name: "basic with logo and channel number",
			items: []Item{{
				Name: "BBC One HD", TvgID: "lr_1001", Group: "TV", TvgLogo: "http://host/42.png", TvgChNo: "101",
				URL: "http://host:9271/stream/direct?client=C1&channel=1001",
			}},
			expect: []string{
				"#EXTM3U\n",
				`tvg-id="lr_1001"`,
				`group-title="TV"`,
				`tvg-logo="http://host/42.png"`,
				`tvg-chno="101"`,
				",BBC One HD\n",
				"http://host:9271/stream/direct?client=C1&channel=1001\n",
			},
		},
		{
			name:    "radio with guide url",
			items:   []Item{{Name: "Radio 4", TvgID: "lr_1002", Group: "Radio", Radio: true, URL: "http://x"}},
			xTvgURL: "http://bridge/api/tuners/lr/xmltv.xml",
			expect: []string{
				`#EXTM3U x-tvg-url="http://bridge/api/tuners/lr/xmltv.xml"`,
				`tvg-logo=""`,
				`radio="true",Radio 4`,
			},
		},
		{
			name:   "quotes and newlines are neutralised",
			items:  []Item{{Name: "Evil\n#EXTINF:-1,x", TvgID: `a"b`, URL: "http://x\nhttp://y"}},
			expect: []string{`tvg-id="a'b"`, ",Evil#EXTINF:-1,x\n", "http://xhttp://y\n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			require.NoError(t, WriteM3U(&b, tc.items, tc.xTvgURL))
			out := b.String()
			for _, want := range tc.expect {
				assert.Contains(t, out, want)
			}
			assert.Equal(t, len(tc.items), strings.Count(out, "\n#EXTINF:"))
		})
	}
}

type fakeHost struct {
	livetv.TunerHost
	channels []livetv.ChannelInfo
	err      error
}

func (f fakeHost) GetChannels(context.Context, tvserver.Tuner) ([]livetv.ChannelInfo, error) {
	return f.channels, f.err
}

func (f fakeHost) GetChannelStreamMediaSources(_ context.Context, tuner tvserver.Tuner, channelID string) ([]livetv.MediaSourceInfo, error) {
	if channelID == "broken" {
		return nil, errors.New("no source")
	}
	return []livetv.MediaSourceInfo{{Path: tvserver.DirectStreamURL(tuner, "C1", channelID)}}, nil
}

func (f fakeHost) GetPrograms(context.Context, tvserver.Tuner, string, time.Time, time.Time) ([]livetv.ProgramInfo, error) {
	return nil, nil
}

func TestBuild(t *testing.T) {
	host := fakeHost{channels: []livetv.ChannelInfo{
		{ID: "1001", Name: "BBC One HD", Number: "101", ChannelType: livetv.ChannelTypeTV},
		{ID: "broken", Name: "Gone"},
		{ID: "1002", Name: "Radio 4", Number: "704", ChannelType: livetv.ChannelTypeRadio},
	}}

	items, err := Build(context.Background(), host, tvserver.DefaultTuner())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "http://localhost:9271/stream/direct?client=C1&channel=1001", items[0].URL)
	assert.Equal(t, "TV", items[0].Group)
	assert.True(t, items[1].Radio)
	assert.Equal(t, "Radio", items[1].Group)
}

func TestBuild_ChannelError(t *testing.T) {
	_, err := Build(context.Background(), fakeHost{err: tvserver.ErrTransport}, tvserver.DefaultTuner())
	assert.ErrorIs(t, err, tvserver.ErrTransport)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.m3u")
	require.NoError(t, WriteFile(context.Background(), path, []Item{{Name: "A", URL: "http://a"}}, ""))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "#EXTM3U\n"))
	assert.Contains(t, string(raw), "http://a\n")
}
