// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-harvest/internal/fetch"
	"github.com/pdiddy/arxiv-harvest/internal/harvest"
	"github.com/pdiddy/arxiv-harvest/internal/logging"
	"github.com/pdiddy/arxiv-harvest/internal/metrics"
	"github.com/pdiddy/arxiv-harvest/internal/output"
	"github.com/pdiddy/arxiv-harvest/internal/prompt"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [category]",
	Short: "Fetch paper metadata for an arXiv category",
	Long: `Harvest pages through the arXiv API for the given category (e.g. cs.CL),
newest submissions first, up to --count papers. Calls are made one at a time
with a fixed pause between them. Without a category argument, harvest
prompts for the category and count.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHarvestCmd,
}

func init() {
	harvestCmd.Flags().Int("count", types.DefaultCount, "number of papers to fetch")
	harvestCmd.Flags().Duration("delay", types.DefaultDelay, "pause between API calls")
	harvestCmd.Flags().Duration("timeout", 0, "HTTP timeout per API call (0 means none)")
	harvestCmd.Flags().String("base-url", types.DefaultBaseURL, "arXiv API query endpoint")
	harvestCmd.Flags().String("output-dir", ".", "directory for the output file")
	harvestCmd.Flags().String("format", string(types.FormatJSON), "output format: json, yaml, or sqlite")
	harvestCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile after the run")
	harvestCmd.Flags().Bool("sample", false, "print the first paper after saving")

	viper.BindPFlag("harvest.count", harvestCmd.Flags().Lookup("count"))
	viper.BindPFlag("harvest.batch_delay", harvestCmd.Flags().Lookup("delay"))
	viper.BindPFlag("harvest.timeout", harvestCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("harvest.base_url", harvestCmd.Flags().Lookup("base-url"))
	viper.BindPFlag("output.dir", harvestCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("output.format", harvestCmd.Flags().Lookup("format"))
	viper.BindPFlag("output.metrics_file", harvestCmd.Flags().Lookup("metrics-file"))

	rootCmd.AddCommand(harvestCmd)
}

func runHarvestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var category string
	if len(args) == 1 {
		category = strings.TrimSpace(args[0])
	} else {
		category, cfg.Harvest.Count, err = prompt.Ask(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Harvest.Count)
		if errors.Is(err, prompt.ErrQuit) {
			fmt.Fprintln(cmd.OutOrStdout(), "Exiting...")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
	if category == "" {
		return fmt.Errorf("provide an arXiv category, e.g. cs.CL")
	}

	sample, _ := cmd.Flags().GetBool("sample")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = runHarvest(ctx, cfg, category, sample, logger, cmd.OutOrStdout(), time.Now)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "\nInterrupted by user. Exiting...")
		return nil
	}
	return err
}

// runHarvest collects papers for category and saves them. Nothing is written
// if the harvest fails. Metrics, when configured, are written either way.
func runHarvest(ctx context.Context, cfg types.Config, category string, sample bool, log zerolog.Logger, w io.Writer, now func() time.Time) (err error) {
	rec := metrics.New()
	if cfg.Output.MetricsFile != "" {
		defer func() {
			if mErr := rec.WriteTextfile(cfg.Output.MetricsFile); mErr != nil {
				log.Warn().Err(mErr).Str("path", cfg.Output.MetricsFile).Msg("writing metrics failed")
			}
		}()
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Category: %s\n", category)
	fmt.Fprintf(w, "Max results: %d\n", cfg.Harvest.Count)
	fmt.Fprintln(w, rule)

	client := fetch.New(cfg.Harvest, logging.Component(log, "fetch"), rec)
	h := harvest.New(client, cfg.Harvest.BatchDelay, logging.Component(log, "harvest"))

	papers, err := h.Run(ctx, category, cfg.Harvest.Count)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal papers fetched: %d\n", len(papers))

	res, err := output.Save(cfg.Output, papers, now())
	if err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	outLog := logging.Component(log, "output")
	outLog.Info().
		Str("path", res.Path).
		Int64("bytes", res.Bytes).
		Int("count", res.Count).
		Msg("results saved")

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Results saved to: %s\n", res.Path)
	fmt.Fprintf(w, "File size: %.2f MB\n", res.SizeMB())
	fmt.Fprintf(w, "Number of papers: %d\n", res.Count)
	fmt.Fprintln(w, rule)

	if sample && len(papers) > 0 {
		fmt.Fprintln(w, "Sample Paper:")
		if err := output.WriteSample(w, papers[0]); err != nil {
			return fmt.Errorf("writing sample: %w", err)
		}
	}
	return nil
}
