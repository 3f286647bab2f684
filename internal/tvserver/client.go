// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package tvserver is a typed client for the TVMosaic / DVBLink remote-control
// API: XML commands posted as a form, answered with a status envelope that
// wraps an escaped XML payload.
package tvserver

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/metrics"
	platformnet "github.com/ManuGH/tvmosaic-bridge/internal/platform/net"
)

// Client issues one round trip per operation. It is safe for concurrent use
// across tuners.
type Client struct {
	codec  *Codec
	poster Poster
	logger zerolog.Logger
}

// Options configures a Client.
type Options struct {
	// Poster overrides the HTTP transport.
	Poster Poster
	// Timeout and rate limit for the default HTTPPoster.
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// New creates a client. Without a Poster it talks HTTP.
func New(opts Options) *Client {
	logger := log.WithComponent("tvserver")
	poster := opts.Poster
	if poster == nil {
		poster = NewHTTPPoster(PosterOptions{
			Timeout:   opts.Timeout,
			RateLimit: opts.RateLimit,
			RateBurst: opts.RateBurst,
		})
	}
	return &Client{
		codec:  NewCodec(logger),
		poster: poster,
		logger: logger,
	}
}

// GetChannels lists the channels of a tuner.
func (c *Client) GetChannels(ctx context.Context, tuner Tuner) (*Channels, error) {
	obj, err := GetResponseObject[Channels](ctx, c, ChannelsRequest{}, tuner)
	if err == nil {
		err = Check(obj, true)
	}
	if err != nil {
		c.logFailure(ctx, tuner, CommandGetChannels, err)
		return nil, err
	}
	return obj.Result, nil
}

// GetEpg fetches the guide of one channel between start and end.
func (c *Client) GetEpg(ctx context.Context, tuner Tuner, channelID string, start, end time.Time) (*EpgSearcher, error) {
	obj, err := GetResponseObject[EpgSearcher](ctx, c, NewEpgRequest(channelID, start, end), tuner)
	if err == nil {
		err = Check(obj, true)
	}
	if err != nil {
		c.logFailure(ctx, tuner, CommandGetEpg, err)
		return nil, err
	}
	return obj.Result, nil
}

func (c *Client) logFailure(ctx context.Context, tuner Tuner, command string, err error) {
	l := log.WithContext(ctx, c.logger)
	evt := l.Warn().
		Err(err).
		Str(log.FieldEvent, "tvserver.command_failed").
		Str(log.FieldTunerID, tuner.ID).
		Str(log.FieldBaseURL, platformnet.SanitizeURL(tuner.URL)).
		Str(log.FieldCommand, command)
	if status, ok := StatusOf(err); ok {
		evt = evt.Str(log.FieldStatus, status.String())
	}
	evt.Msg("backend command failed")
}

// UpdateChannels fills the locally derived channel flags.
func (c *Client) UpdateChannels(channels *Channels) *Channels {
	if channels != nil {
		c.logger.Debug().Int("channels", len(channels.Items)).Msg("deriving channel logo and HD flags")
	}
	return UpdateChannels(channels)
}

// UpdateChannels marks every logo as served by the backend and reads HD from
// the channel name.
func UpdateChannels(channels *Channels) *Channels {
	if channels == nil {
		return nil
	}
	for i := range channels.Items {
		ch := &channels.Items[i]
		ch.ServerLogo = true
		ch.IsHD = NameIsHD(ch.Name)
		ch.HasChannelLogo = ch.Logo != ""
	}
	return channels
}

// DirectStreamURL builds the live stream URL of a channel. It performs no
// network call: the tuner URL gets the streaming port and a version specific
// path.
func (c *Client) DirectStreamURL(tuner Tuner, clientID, channelID string) string {
	return DirectStreamURL(tuner, clientID, channelID)
}

// DirectStreamURL is the pure form of Client.DirectStreamURL.
func DirectStreamURL(tuner Tuner, clientID, channelID string) string {
	base := strings.TrimSpace(tuner.URL)
	if u, err := url.Parse(base); err == nil && u.Scheme != "" && u.Host != "" {
		if tuner.StreamingPort > 0 {
			u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(tuner.StreamingPort))
		}
		base = u.String()
	}
	base = strings.TrimRight(base, "/")

	segment := "dvblink"
	if tuner.Version > 6 {
		segment = "stream"
	}
	metrics.IncStreamURLBuild(segment)

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("/")
	b.WriteString(segment)
	b.WriteString("/direct?client=")
	b.WriteString(url.QueryEscape(clientID))
	b.WriteString("&channel=")
	b.WriteString(url.QueryEscape(channelID))
	return b.String()
}
