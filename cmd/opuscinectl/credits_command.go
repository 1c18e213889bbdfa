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

// newCreditsCommand prints directors and top-billed cast with their person
// ids, which are the values the director lexicon maps names to.
func newCreditsCommand(ctx *commandContext) *cobra.Command {
	var castLimit int

	cmd := &cobra.Command{
		Use:   "credits <movie-id>",
		Short: "Show directors and cast of a movie with person ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			client, err := ctx.provider()
			if err != nil {
				return err
			}
			credits, err := client.Credits(cmd.Context(), id)
			if err != nil {
				return err
			}
			if castLimit > 0 && len(credits.Cast) > castLimit {
				credits.Cast = credits.Cast[:castLimit]
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, credits)
			}

			rows := make([][]string, 0, len(credits.Cast)+1)
			for _, director := range credits.Directors() {
				rows = append(rows, []string{strconv.Itoa(director.ID), director.Name, "Director"})
			}
			for _, member := range credits.Cast {
				rows = append(rows, []string{strconv.Itoa(member.ID), member.Name, member.Character})
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No credits for movie %d\n", id)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Person ID", "Name", "Role"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&castLimit, "cast", 10, "Maximum cast members to show (0 for all)")
	return cmd
}
