// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package livetv

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

// TunerHost is what a media host needs from a live TV provider.
type TunerHost interface {
	Type() string
	Name() string
	DefaultTuner() tvserver.Tuner
	SupportsGuideData(tuner tvserver.Tuner) bool
	GetChannels(ctx context.Context, tuner tvserver.Tuner) ([]ChannelInfo, error)
	GetPrograms(ctx context.Context, tuner tvserver.Tuner, channelID string, start, end time.Time) ([]ProgramInfo, error)
	GetChannelStreamMediaSources(ctx context.Context, tuner tvserver.Tuner, channelID string) ([]MediaSourceInfo, error)
}

// Backend is the subset of *tvserver.Client the service uses.
type Backend interface {
	GetChannels(ctx context.Context, tuner tvserver.Tuner) (*tvserver.Channels, error)
	GetEpg(ctx context.Context, tuner tvserver.Tuner, channelID string, start, end time.Time) (*tvserver.EpgSearcher, error)
	UpdateChannels(channels *tvserver.Channels) *tvserver.Channels
	DirectStreamURL(tuner tvserver.Tuner, clientID, channelID string) string
}

const (
	serviceType = "tvmosaic"
	serviceName = "TVMosaic"
)

// Service implements TunerHost on top of the remote-control client.
type Service struct {
	backend Backend
	logger  zerolog.Logger
}

var _ TunerHost = (*Service)(nil)

func NewService(backend Backend) *Service {
	return &Service{backend: backend, logger: log.WithComponent("livetv")}
}

func (s *Service) Type() string { return serviceType }
func (s *Service) Name() string { return serviceName }

func (s *Service) DefaultTuner() tvserver.Tuner { return tvserver.DefaultTuner() }

func (s *Service) SupportsGuideData(tvserver.Tuner) bool { return true }

// HostChannelID prefixes a backend channel id with the tuner id.
func HostChannelID(tuner tvserver.Tuner, backendID string) string {
	return tuner.ID + "_" + backendID
}

// BackendChannelID reverses HostChannelID. Ids without the tuner prefix are
// returned unchanged.
func BackendChannelID(tuner tvserver.Tuner, hostID string) string {
	return strings.TrimPrefix(hostID, tuner.ID+"_")
}

// GetChannels lists and translates the channels of tuner.
func (s *Service) GetChannels(ctx context.Context, tuner tvserver.Tuner) ([]ChannelInfo, error) {
	logger := s.loggerFor(ctx, tuner)

	result, err := s.backend.GetChannels(ctx, tuner)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("count", len(result.Items)).Msg("channels found on server")

	result = s.backend.UpdateChannels(result)

	channels := make([]ChannelInfo, 0, len(result.Items))
	var hd, sd, radio int
	for _, ch := range result.Items {
		info := ChannelInfoFrom(ch)
		info.TunerHostID = tuner.ID
		info.ID = HostChannelID(tuner, info.ID)
		channels = append(channels, info)

		switch {
		case info.ChannelType == ChannelTypeRadio:
			radio++
		case info.IsHD:
			hd++
		default:
			sd++
		}
	}
	metrics.RecordChannelListing(tuner.ID, hd, sd, radio)
	return channels, nil
}

// GetPrograms returns the guide of a backend channel between start and end.
// Only the first channel block of the answer is used.
func (s *Service) GetPrograms(ctx context.Context, tuner tvserver.Tuner, channelID string, start, end time.Time) ([]ProgramInfo, error) {
	logger := s.loggerFor(ctx, tuner).With().Str(log.FieldChannelID, channelID).Logger()
	channelID = BackendChannelID(tuner, channelID)

	result, err := s.backend.GetEpg(ctx, tuner, channelID, start, end)
	if err != nil {
		return nil, err
	}

	var programs []tvserver.Program
	if first := result.First(); first != nil {
		programs = first.Programs
	}
	logger.Info().Int("count", len(programs)).Msg("programs found for channel")

	out := make([]ProgramInfo, 0, len(programs))
	for _, p := range programs {
		out = append(out, ProgramInfoFrom(channelID, p))
	}
	metrics.AddProgramsTranslated(tuner.ID, len(out))
	return out, nil
}

// GetChannelStreamMediaSources describes the single live source of a channel.
// No network call is made.
func (s *Service) GetChannelStreamMediaSources(_ context.Context, tuner tvserver.Tuner, channelID string) ([]MediaSourceInfo, error) {
	channelID = BackendChannelID(tuner, channelID)
	source := MediaSourceInfo{
		ID:       strings.ToLower(tuner.Type.String()) + "_" + channelID,
		Path:     s.backend.DirectStreamURL(tuner, tuner.Type.ClientID(), channelID),
		Protocol: ProtocolHTTP,
		MediaStreams: []MediaStream{
			{Type: MediaStreamVideo, Index: -1, IsInterlaced: true},
			{Type: MediaStreamAudio, Index: -1},
		},
		RequiresOpening:      true,
		RequiresClosing:      true,
		SupportsDirectPlay:   false,
		SupportsDirectStream: true,
		SupportsTranscoding:  true,
		IsInfiniteStream:     true,
	}
	return []MediaSourceInfo{source}, nil
}

func (s *Service) loggerFor(ctx context.Context, tuner tvserver.Tuner) zerolog.Logger {
	return log.WithContext(ctx, s.logger).With().
		Str(log.FieldTunerID, tuner.ID).
		Str(log.FieldClientType, tuner.Type.String()).
		Logger()
}
