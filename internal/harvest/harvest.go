// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest collects papers for a category by paging through the
// arXiv API one batch at a time.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-harvest/internal/fetch"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// ErrInvalidTarget is returned when the requested paper count is not positive.
var ErrInvalidTarget = errors.New("target count must be positive")

// Harvester drives a Fetcher with advancing offsets. It is sequential: one
// request is in flight at a time and Delay separates consecutive requests.
type Harvester struct {
	Fetcher  fetch.Fetcher
	Delay    time.Duration
	MaxBatch int
	Logger   zerolog.Logger

	// wait blocks for d or until ctx is done. Tests replace it.
	wait func(ctx context.Context, d time.Duration) error
}

// New returns a Harvester using fetch.MaxBatch as the per-call limit.
func New(f fetch.Fetcher, delay time.Duration, logger zerolog.Logger) *Harvester {
	return &Harvester{
		Fetcher:  f,
		Delay:    delay,
		MaxBatch: fetch.MaxBatch,
		Logger:   logger,
	}
}

// Run collects up to target papers in category. Each call asks for
// min(MaxBatch, remaining) papers at an offset equal to the number already
// collected. Run stops early when a batch comes back empty and never waits
// after its final call. A Fetcher error aborts the run; the papers gathered
// before it are discarded.
func (h *Harvester) Run(ctx context.Context, category string, target int) ([]types.Paper, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	maxBatch := h.MaxBatch
	if maxBatch <= 0 {
		maxBatch = fetch.MaxBatch
	}
	wait := h.wait
	if wait == nil {
		wait = sleep
	}

	log := h.Logger.With().Str("category", category).Int("target", target).Logger()
	log.Info().Msg("starting harvest")

	var all []types.Paper
	for len(all) < target {
		size := min(maxBatch, target-len(all))
		papers, err := h.Fetcher.Fetch(ctx, category, size, len(all))
		if err != nil {
			log.Error().Err(err).Int("collected", len(all)).Msg("harvest aborted")
			return nil, fmt.Errorf("fetching batch at offset %d: %w", len(all), err)
		}
		if len(papers) == 0 {
			log.Info().Int("collected", len(all)).Msg("source exhausted")
			break
		}
		papers = papers[:min(len(papers), size)]
		all = append(all, papers...)

		if len(all) < target {
			log.Info().Int("collected", len(all)).Dur("delay", h.Delay).Msg("waiting before next batch")
			if err := wait(ctx, h.Delay); err != nil {
				return nil, err
			}
		}
	}

	log.Info().Int("collected", len(all)).Msg("harvest complete")
	return all, nil
}

// sleep blocks for d, returning early with ctx.Err() if ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
