// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func configCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(configValidateCmd(opts), configDumpCmd(opts))
	return cmd
}

func configValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := opts.loader()
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			source := loader.Path()
			if source == "" {
				source = "defaults and environment"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d tuners)\n", source, len(cfg.Tuners))
			return err
		},
	}
}

func configDumpCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loader().Load()
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				_, err = io.WriteString(cmd.OutOrStdout(), cfg.String())
				return err
			case "json":
				return writeJSON(cmd.OutOrStdout(), cfg.Redacted())
			default:
				return fmt.Errorf("unsupported format %q (use yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
