// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ManuGH/tvmosaic-bridge/internal/daemon"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP bridge",
		Long: `Serve channels, guide data, stream URLs, M3U playlists and XMLTV
guides for every configured tuner. The config file is watched and SIGHUP
forces a reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := daemon.Bootstrap(ctx, opts.loader())
			if err != nil {
				return err
			}
			logger := log.WithComponent("main")
			logger.Info().
				Str("version", version).
				Str("commit", commit).
				Str("build_date", buildDate).
				Msg("starting tvmbridge")
			return app.Run(ctx)
		},
	}
}
