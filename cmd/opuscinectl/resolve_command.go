// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/opuscine/internal/models"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <movie|tv> <id>",
		Short: "Resolve the streaming links for a title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseMediaKind(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("resolve: id must be a positive integer, got %q", args[1])
			}

			resolver, err := ctx.resolver(cmd.Context())
			if err != nil {
				return err
			}
			res := resolver.ResolveDetailed(cmd.Context(), kind, id)

			if ctx.jsonOutput() {
				return writeJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d answered by %s\n", kind, id, res.Tier)
			if len(res.Links) == 0 {
				fmt.Fprintln(out, "No streaming links")
				return nil
			}
			rows := make([][]string, 0, len(res.Links))
			for _, link := range res.Links {
				rows = append(rows, []string{
					strconv.Itoa(link.DisplayPriority),
					link.ProviderName,
					strconv.Itoa(link.ProviderID),
					link.Link,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Provider", "Provider ID", "Link"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
