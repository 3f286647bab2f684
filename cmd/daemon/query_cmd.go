// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func channelsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List the channels of a tuner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, tuner, host, err := opts.session()
			if err != nil {
				return err
			}
			channels, err := host.GetChannels(cmd.Context(), tuner)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), channels)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNUMBER\tNAME\tTYPE\tHD")
			for _, ch := range channels {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", ch.ID, ch.Number, ch.Name, ch.ChannelType, ch.IsHD)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func epgCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		start  string
		hours  int
	)
	cmd := &cobra.Command{
		Use:   "epg CHANNEL_ID",
		Short: "Show the guide of one channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tuner, host, err := opts.session()
			if err != nil {
				return err
			}

			from := time.Now()
			if start != "" {
				if from, err = time.Parse(time.RFC3339, start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			if hours <= 0 {
				hours = cfg.API.GuideHours
			}
			to := from.Add(time.Duration(hours) * time.Hour)

			programs, err := host.GetPrograms(cmd.Context(), tuner, args[0], from, to)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), programs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "START\tEND\tTITLE\tEPISODE")
			for _, p := range programs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					p.StartDate.Local().Format("2006-01-02 15:04"),
					p.EndDate.Local().Format("15:04"),
					p.Name, p.EpisodeTitle)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&start, "start", "", "window start (RFC3339, default now)")
	cmd.Flags().IntVar(&hours, "hours", 0, "window length in hours (default api.guideHours)")
	return cmd
}

func streamURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stream-url CHANNEL_ID",
		Short: "Print the direct stream URL of a channel",
		Long: `Print the direct stream URL of a channel. CHANNEL_ID is either the
backend DVBLink id or the bridge id prefixed with the tuner id. The backend
is not contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tuner, host, err := opts.session()
			if err != nil {
				return err
			}
			sources, err := host.GetChannelStreamMediaSources(cmd.Context(), tuner, args[0])
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return errors.New("no media source for channel")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sources[0].Path)
			return err
		},
	}
}
