// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-harvest/internal/logging"
	"github.com/pdiddy/arxiv-harvest/internal/metrics"
	"github.com/pdiddy/arxiv-harvest/internal/page"
)

var pageCmd = &cobra.Command{
	Use:   "page <url>",
	Short: "Print the readable text of a paper page",
	Long: `Page fetches a single page (e.g. https://arxiv.org/abs/2301.07041) with a
10 second timeout and prints its main text with navigation, scripts, and
styling removed. With --raw the HTML is printed unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("raw")

		s := page.New(cfg.Page, logging.Component(logger, "page"), metrics.New())
		text, ok := s.Fetch(cmd.Context(), args[0], !raw)
		if !ok {
			return fmt.Errorf("could not fetch %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	pageCmd.Flags().Bool("raw", false, "print the page HTML without extraction")

	rootCmd.AddCommand(pageCmd)
}
