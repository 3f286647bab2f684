// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const channelsXML = `<?xml version="1.0" encoding="utf-8"?>
<channels xmlns="http://www.dvblogic.com">
  <channel>
    <channel_dvblink_id>1001</channel_dvblink_id>
    <channel_id>42</channel_id>
    <channel_name>BBC One HD</channel_name>
    <channel_number>101</channel_number>
    <channel_subnumber>0</channel_subnumber>
    <channel_type>0</channel_type>
    <channel_logo>http://host:9270/logo/42.png</channel_logo>
  </channel>
  <channel>
    <channel_dvblink_id>1002</channel_dvblink_id>
    <channel_id>43</channel_id>
    <channel_name>Radio 4</channel_name>
    <channel_number>704</channel_number>
    <channel_subnumber>1</channel_subnumber>
    <channel_type>1</channel_type>
    <channel_child_lock/>
  </channel>
</channels>`

const epgXML = `<?xml version="1.0" encoding="utf-8"?>
<epg_searcher xmlns="http://www.dvblogic.com">
  <channel_epg>
    <channel_id>42</channel_id>
    <dvblink_epg>
      <program>
        <program_id>9001</program_id>
        <name>Match of the Day</name>
        <subname>Highlights</subname>
        <short_desc>Goals from today.</short_desc>
        <start_time>1700000000</start_time>
        <duration>3600</duration>
        <year>0</year>
        <episode_num>5</episode_num>
        <season_num>-1</season_num>
        <categories>Sports/News</categories>
        <hdtv/>
        <cat_sports/>
        <repeat>false</repeat>
      </program>
      <program>
        <program_id>9002</program_id>
        <name>Late News</name>
        <start_time>1700003600</start_time>
        <duration>1800</duration>
        <cat_news/>
      </program>
    </dvblink_epg>
  </channel_epg>
</epg_searcher>`

// envelope wraps inner as the escaped xml_result of a response.
func envelope(t *testing.T, status StatusCode, inner string) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?><response xmlns="http://www.dvblogic.com"><status_code>`)
	buf.WriteString(strconv.Itoa(int(status)))
	buf.WriteString(`</status_code><xml_result>`)
	require.NoError(t, xml.EscapeText(&buf, []byte(inner)))
	buf.WriteString(`</xml_result></response>`)
	return buf.String()
}

type recordedPost struct {
	endpoint string
	form     url.Values
	creds    Credentials
}

// stubPoster answers every post with body and records what it was sent.
type stubPoster struct {
	mu    sync.Mutex
	body  string
	err   error
	posts []recordedPost
}

func (s *stubPoster) Post(_ context.Context, endpoint string, form url.Values, creds Credentials) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, recordedPost{endpoint: endpoint, form: form, creds: creds})
	return s.body, s.err
}

func (s *stubPoster) last(t *testing.T) recordedPost {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.posts)
	return s.posts[len(s.posts)-1]
}

// fakeBackend serves the remote-control endpoint with canned payloads per
// command.
type fakeBackend struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	replies  map[string]string
	requests []url.Values
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, replies: map[string]string{}}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) reply(command, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.replies[command] = body
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/mobile" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fb.mu.Lock()
	fb.requests = append(fb.requests, r.PostForm)
	body, ok := fb.replies[r.PostForm.Get("command")]
	fb.mu.Unlock()
	if !ok {
		http.Error(w, "unknown command", http.StatusNotImplemented)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	_, _ = w.Write([]byte("\n" + body + "\n"))
}

func (fb *fakeBackend) lastRequest() url.Values {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(fb.t, fb.requests)
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) tuner() Tuner {
	tuner := DefaultTuner()
	tuner.ID = "test"
	tuner.URL = fb.srv.URL + "/"
	return tuner
}
