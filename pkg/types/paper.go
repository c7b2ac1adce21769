// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for arxiv-harvest.
// The Paper record is produced by the fetch stage, collected by the harvest
// stage, and written whole by the output stage.
package types

// Paper holds the bibliographic metadata for one arXiv entry. A Paper is
// built once during feed parsing and never modified afterwards; URL is its
// only identity.
type Paper struct {
	// URL is the abstract page, e.g. "https://arxiv.org/abs/2301.07041v1".
	URL string `json:"url" yaml:"url"`

	// Title is the paper title with wrapped whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the trimmed summary text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Date is the publication timestamp exactly as the feed returned it.
	Date string `json:"date" yaml:"date"`
}
