// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package page fetches a single paper page and reduces its HTML to text.
package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/pdiddy/arxiv-harvest/internal/httputil"
	"github.com/pdiddy/arxiv-harvest/internal/metrics"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// maxPageBytes bounds how much of a page is read.
const maxPageBytes = 8 << 20

// noiseSelector matches elements that never carry article text.
const noiseSelector = "script, style, noscript, nav, header, footer, aside, form, iframe, svg, template"

// contentSelectors are tried in order; the first that yields text wins.
var contentSelectors = []string{
	"#abs",
	"article",
	"main",
	"#content",
	"body",
}

// blockSelector matches elements whose text should start on a new line.
const blockSelector = "p, div, h1, h2, h3, h4, h5, h6, li, blockquote, pre, tr, br, dt, dd"

// lineBreak marks block boundaries. Newlines already in the markup are
// ordinary whitespace, so a separate rune is used.
const lineBreak = "\u2029"

// Scraper fetches pages with a bounded timeout.
type Scraper struct {
	Client    *http.Client
	UserAgent string
	Logger    zerolog.Logger
	Metrics   *metrics.Recorder
}

// New builds a Scraper from cfg, defaulting the timeout to 10s.
func New(cfg types.PageConfig, logger zerolog.Logger, rec *metrics.Recorder) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultPageWait
	}
	return &Scraper{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: cfg.UserAgent,
		Logger:    logger,
		Metrics:   rec,
	}
}

// Fetch returns the text of the page at url. With extract set it returns
// the extracted main text, falling back to the raw HTML when extraction
// finds nothing; otherwise it returns the raw HTML. Any failure is logged
// and reported as ok == false.
func (s *Scraper) Fetch(ctx context.Context, url string, extract bool) (text string, ok bool) {
	body, err := s.get(ctx, url)
	if err != nil {
		s.Logger.Warn().Str("url", url).Err(err).Msg("page fetch failed")
		s.Metrics.ObservePage("error")
		return "", false
	}
	s.Metrics.ObservePage("ok")

	if !extract {
		return string(body), true
	}
	extracted, err := ExtractText(bytes.NewReader(body))
	if err != nil || extracted == "" {
		s.Logger.Debug().Str("url", url).Msg("extraction empty, returning raw HTML")
		return string(body), true
	}
	return extracted, true
}

func (s *Scraper) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := httputil.Get(ctx, s.Client, url, s.UserAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return body, nil
}

// ExtractText parses HTML from r and returns the readable text of its main
// content: boilerplate elements are dropped, block elements become lines,
// whitespace is collapsed and blank lines removed.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.PrependNodes(breakNode())
		sel.AppendNodes(breakNode())
	})

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := cleanLines(sel.Text()); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func breakNode() *html.Node {
	return &html.Node{Type: html.TextNode, Data: lineBreak}
}

// cleanLines splits s at block boundaries, collapses whitespace within each
// line, and drops empty lines.
func cleanLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, lineBreak) {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
