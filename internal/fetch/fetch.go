// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch issues one bounded category query against the arXiv API and
// converts the Atom feed into Paper records.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-harvest/internal/httputil"
	"github.com/pdiddy/arxiv-harvest/internal/metrics"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// MaxBatch is the largest max_results the arXiv API accepts per call.
const MaxBatch = 200

var (
	// ErrEmptyCategory is returned when Fetch is called without a category.
	ErrEmptyCategory = errors.New("empty category")

	// ErrInvalidSize is returned when the requested batch size is not positive.
	ErrInvalidSize = errors.New("batch size must be positive")
)

// Fetcher returns one batch of papers for a category, starting at offset start.
type Fetcher interface {
	Fetch(ctx context.Context, category string, size, start int) ([]types.Paper, error)
}

// Client is the arXiv API Fetcher.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Logger    zerolog.Logger
	Metrics   *metrics.Recorder
}

// New builds a Client from cfg. A zero cfg.Timeout leaves the batch request
// without a timeout.
func New(cfg types.HarvestConfig, logger zerolog.Logger, rec *metrics.Recorder) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		BaseURL:   base,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
		Metrics:   rec,
	}
}

// Fetch requests up to size papers (capped at MaxBatch) in category, newest
// submissions first. Malformed entries are skipped with a warning; any
// transport, status, or decode failure aborts the call.
func (c *Client) Fetch(ctx context.Context, category string, size, start int) ([]types.Paper, error) {
	if category == "" {
		return nil, ErrEmptyCategory
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size > MaxBatch {
		size = MaxBatch
	}
	if start < 0 {
		start = 0
	}

	reqURL := c.queryURL(category, size, start)
	log := c.Logger.With().Str("category", category).Int("start", start).Int("size", size).Logger()
	log.Debug().Str("url", reqURL).Msg("fetching papers")

	began := time.Now()
	resp, err := httputil.Get(ctx, c.HTTP, reqURL, c.UserAgent)
	if err != nil {
		c.Metrics.ObserveBatchError(time.Since(began))
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	papers, skipped, err := parseFeed(resp.Body, log)
	elapsed := time.Since(began)
	if err != nil {
		c.Metrics.ObserveBatchError(elapsed)
		return nil, err
	}
	c.Metrics.ObserveBatch(elapsed, len(papers), skipped)

	log.Info().
		Int("received", len(papers)).
		Int("skipped", skipped).
		Dur("duration", elapsed).
		Msg("batch received")
	return papers, nil
}

// queryURL renders the search URL for one batch.
func (c *Client) queryURL(category string, size, start int) string {
	v := url.Values{}
	v.Set("search_query", "cat:"+category)
	v.Set("start", strconv.Itoa(start))
	v.Set("max_results", strconv.Itoa(size))
	v.Set("sortBy", "submittedDate")
	v.Set("sortOrder", "descending")
	return c.BaseURL + "?" + v.Encode()
}
