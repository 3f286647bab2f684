// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package xmltv

import (
	"context"
	"time"

	"github.com/ManuGH/tvmosaic-bridge/internal/livetv"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

// Collect fetches the channel list and the guide of every channel between
// start and end. Channels are queried one at a time; a channel whose guide
// fails is kept without programs.
func Collect(ctx context.Context, host livetv.TunerHost, tuner tvserver.Tuner, start, end time.Time) ([]Entry, error) {
	logger := log.WithContext(ctx, log.WithComponent("xmltv"))

	channels, err := host.GetChannels(ctx, tuner)
	if err != nil {
		metrics.IncExportError("xmltv", "fetch")
		return nil, err
	}

	entries := make([]Entry, 0, len(channels))
	for _, ch := range channels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := Entry{Channel: ch}
		if host.SupportsGuideData(tuner) {
			programs, err := host.GetPrograms(ctx, tuner, ch.ID, start, end)
			if err != nil {
				metrics.IncExportError("xmltv", "fetch")
				logger.Warn().Err(err).Str(log.FieldChannelID, ch.ID).Msg("guide fetch failed, channel exported without programs")
			} else {
				entry.Programs = programs
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
