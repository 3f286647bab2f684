// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playlist

import (
	"context"
	"io"

	"github.com/ManuGH/tvmosaic-bridge/internal/fsutil"
	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

const (
	groupTV    = "TV"
	groupRadio = "Radio"
)

// Build lists the channels of tuner with their direct stream URLs. Channels
// whose media source cannot be resolved are skipped.
func Build(ctx context.Context, host livetv.TunerHost, tuner tvserver.Tuner) ([]Item, error) {
	logger := log.WithContext(ctx, log.WithComponent("playlist"))

	channels, err := host.GetChannels(ctx, tuner)
	if err != nil {
		metrics.IncExportError("m3u", "fetch")
		return nil, err
	}

	items := make([]Item, 0, len(channels))
	for _, ch := range channels {
		sources, err := host.GetChannelStreamMediaSources(ctx, tuner, ch.ID)
		if err != nil || len(sources) == 0 {
			metrics.IncExportError("m3u", "fetch")
			logger.Warn().Err(err).Str(log.FieldChannelID, ch.ID).Msg("skipping channel without stream source")
			continue
		}
		group := groupTV
		if ch.ChannelType == livetv.ChannelTypeRadio {
			group = groupRadio
		}
		items = append(items, Item{
			Name:    ch.Name,
			TvgID:   ch.ID,
			TvgChNo: ch.Number,
			TvgLogo: ch.ImageURL,
			Group:   group,
			Radio:   ch.ChannelType == livetv.ChannelTypeRadio,
			URL:     sources[0].Path,
		})
	}
	return items, nil
}

// WriteFile atomically replaces path with the playlist.
func WriteFile(ctx context.Context, path string, items []Item, xTvgURL string) error {
	err := fsutil.WriteAtomic(ctx, path, func(w io.Writer) error {
		return WriteM3U(w, items, xTvgURL)
	})
	if err != nil {
		metrics.IncExportError("m3u", "write")
		return err
	}
	metrics.RecordExport("m3u", len(items))
	return nil
}
