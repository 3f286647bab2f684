// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/tvmosaic-bridge/internal/playlist"
	"github.com/ManuGH/tvmosaic-bridge/internal/xmltv"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write playlist or guide files for a tuner",
	}
	cmd.AddCommand(exportM3UCmd(opts), exportXMLTVCmd(opts))
	return cmd
}

func exportM3UCmd(opts *rootOptions) *cobra.Command {
	var out, guideURL string
	cmd := &cobra.Command{
		Use:   "m3u",
		Short: "Write an M3U playlist of the tuner's channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, tuner, host, err := opts.session()
			if err != nil {
				return err
			}
			items, err := playlist.Build(cmd.Context(), host, tuner)
			if err != nil {
				return err
			}
			if err := playlist.WriteFile(cmd.Context(), out, items, guideURL); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d channels to %s\n", len(items), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "playlist.m3u", "output file")
	cmd.Flags().StringVar(&guideURL, "guide-url", "", "x-tvg-url written into the playlist header")
	return cmd
}

func exportXMLTVCmd(opts *rootOptions) *cobra.Command {
	var (
		out   string
		hours int
	)
	cmd := &cobra.Command{
		Use:   "xmltv",
		Short: "Write an XMLTV guide of the tuner's channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, tuner, host, err := opts.session()
			if err != nil {
				return err
			}
			if hours <= 0 {
				hours = cfg.API.GuideHours
			}
			start := time.Now()
			entries, err := xmltv.Collect(cmd.Context(), host, tuner, start, start.Add(time.Duration(hours)*time.Hour))
			if err != nil {
				return err
			}
			tv := xmltv.Build(entries)
			if err := xmltv.WriteFile(cmd.Context(), out, tv); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d channels and %d programmes to %s\n", len(tv.Channels), len(tv.Programs), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "guide.xml", "output file")
	cmd.Flags().IntVar(&hours, "hours", 0, "guide window in hours (default api.guideHours)")
	return cmd
}
