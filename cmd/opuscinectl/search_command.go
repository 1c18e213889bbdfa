// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the metadata provider by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.provider()
			if err != nil {
				return err
			}
			if err := client.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("metadata provider unavailable: %w", err)
			}
			result, err := client.SearchMovies(cmd.Context(), strings.Join(args, " "), page)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}

			rows := make([][]string, 0, len(result.Results))
			for _, movie := range result.Results {
				rows = append(rows, []string{
					strconv.Itoa(movie.ID),
					movie.Title,
					movie.ReleaseDate,
					strconv.FormatFloat(movie.VoteAverage, 'f', 1, 64),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Released", "Rating"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Page %d of %d (%d results)\n", result.Page, result.TotalPages, result.TotalResults)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	return cmd
}
