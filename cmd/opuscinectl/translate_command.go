// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/opuscine/internal/models"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var rulesOnly bool

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate a natural-language request into discover parameters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("translate: text is empty")
			}

			translator, err := ctx.translator(rulesOnly)
			if err != nil {
				return err
			}
			defer translator.Close()

			var result models.TranslationResult
			if rulesOnly {
				result = translator.TranslateRules(text)
			} else {
				result = translator.Translate(cmd.Context(), text)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			printTranslation(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "Skip the model and use the keyword rules")
	return cmd
}

func printTranslation(cmd *cobra.Command, result models.TranslationResult) {
	out := cmd.OutOrStdout()

	keys := make([]string, 0, len(result.Parameters))
	for key := range result.Parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, formatParam(result.Parameters[key])})
	}
	fmt.Fprintln(out, renderTable([]string{"Parameter", "Value"}, rows, nil))

	fmt.Fprintf(out, "Method:     %s\n", result.Method)
	fmt.Fprintf(out, "Confidence: %.2f\n", result.Confidence)
	if result.FallbackReason != "" {
		fmt.Fprintf(out, "Fallback:   %s\n", result.FallbackReason)
	}
}

func formatParam(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
