// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	platformnet "github.com/ManuGH/tvmosaic-bridge/internal/platform/net"
	"github.com/ManuGH/tvmosaic-bridge/internal/playlist"
	"github.com/ManuGH/tvmosaic-bridge/internal/telemetry"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
	"github.com/ManuGH/tvmosaic-bridge/internal/xmltv"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type tunerView struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	URL           string `json:"url"`
	StreamingPort int    `json:"streamingPort"`
	Version       int    `json:"version"`
	Authenticated bool   `json:"authenticated"`
}

func (s *Server) handleTuners(w http.ResponseWriter, _ *http.Request) {
	tuners := s.cfg.Get().TunerList()
	out := make([]tunerView, 0, len(tuners))
	for _, t := range tuners {
		out = append(out, tunerView{
			ID:            t.ID,
			Type:          strings.ToLower(t.Type.String()),
			URL:           platformnet.SanitizeURL(t.URL),
			StreamingPort: t.StreamingPort,
			Version:       t.Version,
			Authenticated: t.Username != "" && t.Password != "",
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// tuner resolves the {tuner} path parameter and tags the request context.
func (s *Server) tuner(r *http.Request) (tvserver.Tuner, *http.Request, error) {
	id := chi.URLParam(r, "tuner")
	t, err := s.cfg.Get().Tuner(id)
	if err != nil {
		return t, r, err
	}
	ctx := log.ContextWithTunerID(r.Context(), t.ID)
	trace.SpanFromContext(ctx).SetAttributes(telemetry.TunerAttributes(t.ID, chi.URLParam(r, "channel"))...)
	return t, r.WithContext(ctx), nil
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	t, r, err := s.tuner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	channels, err := s.host.GetChannels(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	t, r, err := s.tuner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, end, err := s.window(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	programs, err := s.host.GetPrograms(r.Context(), t, chi.URLParam(r, "channel"), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

// window parses start/end (RFC3339). Missing values default to now and
// now plus the configured guide hours.
func (s *Server) window(q url.Values) (time.Time, time.Time, error) {
	start := s.now()
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("start: %v", err)
		}
		start = t
	}
	end := start.Add(time.Duration(s.cfg.Get().API.GuideHours) * time.Hour)
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("end: %v", err)
		}
		end = t
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, badRequest("end must be after start")
	}
	return start, end, nil
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	t, r, err := s.tuner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sources, err := s.host.GetChannelStreamMediaSources(r.Context(), t, chi.URLParam(r, "channel"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("redirect") == "true" && len(sources) > 0 {
		http.Redirect(w, r, sources[0].Path, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	t, r, err := s.tuner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := playlist.Build(r.Context(), s.host, t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var guideURL string
	if base := strings.TrimRight(s.cfg.Get().API.PublicURL, "/"); base != "" {
		guideURL = base + "/api/tuners/" + url.PathEscape(t.ID) + "/xmltv.xml"
	}

	var buf bytes.Buffer
	if err := playlist.WriteM3U(&buf, items, guideURL); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleXMLTV(w http.ResponseWriter, r *http.Request) {
	t, r, err := s.tuner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, end, err := s.window(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := xmltv.Collect(r.Context(), s.host, t, start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := xmltv.Encode(&buf, xmltv.Build(entries)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = buf.WriteTo(w)
}
