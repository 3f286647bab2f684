// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package playlist renders tuner channels as an M3U playlist.
package playlist

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

type Item struct {
	Name    string
	TvgID   string
	TvgChNo string
	TvgLogo string
	Group   string
	Radio   bool
	URL     string
}

var attrReplacer = strings.NewReplacer(`"`, "'", "\r", " ", "\n", " ")

// attr makes a value safe inside a quoted EXTINF attribute.
func attr(s string) string { return attrReplacer.Replace(s) }

// line strips line breaks so a value cannot start a new playlist entry.
func line(s string) string { return strings.NewReplacer("\r", "", "\n", "").Replace(s) }

// WriteM3U writes items as an extended M3U. xTvgURL, when set, points
// players at the matching XMLTV guide.
func WriteM3U(w io.Writer, items []Item, xTvgURL string) error {
	buf := &bytes.Buffer{}
	if xTvgURL != "" {
		fmt.Fprintf(buf, "#EXTM3U x-tvg-url=%q\n", attr(xTvgURL))
	} else {
		buf.WriteString("#EXTM3U\n")
	}
	for _, it := range items {
		fmt.Fprintf(buf,
			`#EXTINF:-1 tvg-chno="%s" tvg-id="%s" tvg-logo="%s" group-title="%s"`,
			attr(it.TvgChNo), attr(it.TvgID), attr(it.TvgLogo), attr(it.Group),
		)
		if it.Radio {
			buf.WriteString(` radio="true"`)
		}
		buf.WriteString("," + line(it.Name) + "\n")
		buf.WriteString(line(it.URL) + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}
