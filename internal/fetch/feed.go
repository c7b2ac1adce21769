// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

const absBase = "https://arxiv.org/abs/"

// errorIDMarker appears in the id of the single entry arXiv returns when it
// rejects a query.
const errorIDMarker = "/api/errors"

// APIError is an error the arXiv API reported inside the feed itself.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "arXiv API error: " + e.Message
}

// arXiv Atom feed XML structures. Pointer fields distinguish a missing
// element from an empty one.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        *string       `xml:"id"`
	Title     *string       `xml:"title"`
	Summary   *string       `xml:"summary"`
	Published *string       `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name *string `xml:"name"`
}

// parseFeed decodes an Atom feed and returns its well-formed entries in feed
// order along with the number of entries it dropped.
func parseFeed(r io.Reader, log zerolog.Logger) ([]types.Paper, int, error) {
	var feed arxivFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, 0, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.Paper, 0, len(feed.Entries))
	skipped := 0
	for i, entry := range feed.Entries {
		if entry.ID != nil && strings.Contains(*entry.ID, errorIDMarker) {
			return nil, 0, &APIError{Message: strings.TrimSpace(deref(entry.Summary))}
		}
		p, err := entry.toPaper()
		if err != nil {
			log.Warn().Int("entry", i).Err(err).Msg("skipping malformed entry")
			skipped++
			continue
		}
		papers = append(papers, p)
	}
	return papers, skipped, nil
}

var (
	errMissingID        = errors.New("missing id")
	errMissingTitle     = errors.New("missing title")
	errMissingSummary   = errors.New("missing summary")
	errMissingPublished = errors.New("missing published")
	errMissingAuthor    = errors.New("author without name")
)

// toPaper normalizes one entry. Every field the record needs must be present.
func (e arxivEntry) toPaper() (types.Paper, error) {
	switch {
	case e.ID == nil:
		return types.Paper{}, errMissingID
	case e.Title == nil:
		return types.Paper{}, errMissingTitle
	case e.Summary == nil:
		return types.Paper{}, errMissingSummary
	case e.Published == nil:
		return types.Paper{}, errMissingPublished
	}

	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if a.Name == nil {
			return types.Paper{}, errMissingAuthor
		}
		authors = append(authors, strings.TrimSpace(*a.Name))
	}

	return types.Paper{
		URL:      absURL(*e.ID),
		Title:    strings.Join(strings.Fields(*e.Title), " "),
		Abstract: strings.TrimSpace(*e.Summary),
		Authors:  authors,
		Date:     strings.TrimSpace(*e.Published),
	}, nil
}

// absURL maps an entry id (e.g. "http://arxiv.org/abs/2301.07041v1") to its
// https abstract page. The version suffix is kept. Old-style ids such as
// "hep-th/9901001v1" keep their archive prefix.
func absURL(id string) string {
	id = strings.TrimSpace(id)
	const marker = "/abs/"
	if idx := strings.Index(id, marker); idx >= 0 {
		return absBase + id[idx+len(marker):]
	}
	return absBase + id[strings.LastIndex(id, "/")+1:]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
