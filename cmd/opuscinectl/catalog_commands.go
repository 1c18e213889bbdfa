// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the bulk OTT catalog",
	}

	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))
	catalogCmd.AddCommand(newCatalogWarmCommand(ctx))

	return catalogCmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counts and file status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalog(cmd.Context())
			if err != nil {
				return err
			}
			stats := store.Stats()
			if ctx.jsonOutput() {
				return writeJSON(cmd, stats)
			}

			rows := [][]string{
				{"movies", strconv.Itoa(stats.Movies), yesNo(stats.MoviesFound), stats.MoviesPath},
				{"tv", strconv.Itoa(stats.Series), yesNo(stats.SeriesFound), stats.SeriesPath},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Collection", "Entries", "Found", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			if stats.Skipped > 0 {
				fmt.Fprintf(out, "Skipped records: %d\n", stats.Skipped)
			}
			return nil
		},
	}
}

func newCatalogWarmCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Write every catalog entry's links to the link cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver(cmd.Context())
			if err != nil {
				return err
			}
			result, warmErr := resolver.Warm(cmd.Context())
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return warmErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Movies", "Series", "Written", "Empty", "Failed"},
				[][]string{{
					strconv.Itoa(result.Movies),
					strconv.Itoa(result.Series),
					strconv.Itoa(result.Written),
					strconv.Itoa(result.Empty),
					strconv.Itoa(result.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return warmErr
		},
	}
}
