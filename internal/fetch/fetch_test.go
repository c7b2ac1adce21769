// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-harvest/internal/httputil"
	"github.com/pdiddy/arxiv-harvest/internal/metrics"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query: search_query=cat:cs.CL</title>
  <id>http://arxiv.org/api/abc</id>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <published>2023-01-17T18:58:28Z</published>
    <title>Attention Over
      Attention</title>
    <summary>  First abstract.
Second line.  </summary>
    <author><name>Alice Smith</name></author>
    <author><name> Bob Jones </name></author>
    <arxiv:primary_category term="cs.CL"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2301.00002v2</id>
    <published>2023-01-16T10:00:00Z</published>
    <summary>No title here.</summary>
    <author><name>Carol White</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <published>1999-01-01T00:00:00Z</published>
    <title>Old Style</title>
    <summary>Legacy id.</summary>
  </entry>
</feed>`

const errorFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#max_results_must_be_non-negative</id>
    <title>Error</title>
    <summary>max_results must be non-negative</summary>
  </entry>
</feed>`

func newTestClient(ts *httptest.Server) *Client {
	return &Client{
		HTTP:      ts.Client(),
		BaseURL:   ts.URL + "/api/query",
		UserAgent: "test/0.1",
		Logger:    zerolog.Nop(),
	}
}

func TestFetchQueryParameters(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	papers, err := newTestClient(ts).Fetch(context.Background(), "cs.CL", 5, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(papers), 5)

	require.NotNil(t, got)
	q := got.URL.Query()
	assert.Equal(t, "/api/query", got.URL.Path)
	assert.Equal(t, "cat:cs.CL", q.Get("search_query"))
	assert.Equal(t, "0", q.Get("start"))
	assert.Equal(t, "5", q.Get("max_results"))
	assert.Equal(t, "submittedDate", q.Get("sortBy"))
	assert.Equal(t, "descending", q.Get("sortOrder"))
	assert.Equal(t, "test/0.1", got.Header.Get("User-Agent"))
}

func TestFetchCapsBatchSize(t *testing.T) {
	var maxResults string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		maxResults = r.URL.Query().Get("max_results")
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Fetch(context.Background(), "cs.AI", 1000, 400)
	require.NoError(t, err)
	assert.Equal(t, "200", maxResults)
}

func TestFetchNormalizesAndSkipsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	var logBuf bytes.Buffer
	c := newTestClient(ts)
	c.Logger = zerolog.New(&logBuf)
	c.Metrics = metrics.New()

	papers, err := c.Fetch(context.Background(), "cs.CL", 10, 0)
	require.NoError(t, err)
	require.Len(t, papers, 2, "entry without title is dropped, siblings kept")

	assert.Equal(t, types.Paper{
		URL:      "https://arxiv.org/abs/2301.07041v1",
		Title:    "Attention Over Attention",
		Abstract: "First abstract.\nSecond line.",
		Authors:  []string{"Alice Smith", "Bob Jones"},
		Date:     "2023-01-17T18:58:28Z",
	}, papers[0])

	assert.Equal(t, "https://arxiv.org/abs/hep-th/9901001v1", papers[1].URL)
	assert.Empty(t, papers[1].Authors)

	assert.Contains(t, logBuf.String(), "skipping malformed entry")
	assert.Contains(t, logBuf.String(), "missing title")
}

const validEntry = `<entry>
    <id>http://arxiv.org/abs/2301.09999v1</id>
    <published>2023-01-20T08:00:00Z</published>
    <title>Valid Sibling</title>
    <summary>Kept.</summary>
    <author><name>Dana Lee</name></author>
  </entry>`

func TestFetchSkipsEachMalformedKind(t *testing.T) {
	tests := []struct {
		name   string
		entry  string
		reason string
	}{
		{
			name: "missing id",
			entry: `<entry>
    <published>2023-01-16T10:00:00Z</published>
    <title>No Id</title>
    <summary>Abstract.</summary>
  </entry>`,
			reason: "missing id",
		},
		{
			name: "missing title",
			entry: `<entry>
    <id>http://arxiv.org/abs/2301.00002v1</id>
    <published>2023-01-16T10:00:00Z</published>
    <summary>Abstract.</summary>
  </entry>`,
			reason: "missing title",
		},
		{
			name: "missing summary",
			entry: `<entry>
    <id>http://arxiv.org/abs/2301.00003v1</id>
    <published>2023-01-16T10:00:00Z</published>
    <title>No Summary</title>
  </entry>`,
			reason: "missing summary",
		},
		{
			name: "missing published",
			entry: `<entry>
    <id>http://arxiv.org/abs/2301.00004v1</id>
    <title>No Date</title>
    <summary>Abstract.</summary>
  </entry>`,
			reason: "missing published",
		},
		{
			name: "author without name",
			entry: `<entry>
    <id>http://arxiv.org/abs/2301.00005v1</id>
    <published>2023-01-16T10:00:00Z</published>
    <title>Nameless Author</title>
    <summary>Abstract.</summary>
    <author><name>Eve Park</name></author>
    <author><affiliation>Somewhere</affiliation></author>
  </entry>`,
			reason: "author without name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := `<feed xmlns="http://www.w3.org/2005/Atom">` + validEntry + tt.entry + validEntry + `</feed>`
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, feed)
			}))
			defer ts.Close()

			var logBuf bytes.Buffer
			c := newTestClient(ts)
			c.Logger = zerolog.New(&logBuf)

			papers, err := c.Fetch(context.Background(), "cs.CL", 10, 0)
			require.NoError(t, err)
			require.Len(t, papers, 2)
			for _, p := range papers {
				assert.Equal(t, "https://arxiv.org/abs/2301.09999v1", p.URL)
				assert.Equal(t, []string{"Dana Lee"}, p.Authors)
			}

			logged := logBuf.String()
			assert.Contains(t, logged, "skipping malformed entry")
			assert.Contains(t, logged, tt.reason)
			assert.Contains(t, logged, `"entry":1`)
		})
	}
}

func TestFetchEmptyFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer ts.Close()

	papers, err := newTestClient(ts).Fetch(context.Background(), "cs.CL", 200, 10000)
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Fetch(context.Background(), "cs.CL", 5, 0)
	require.Error(t, err)

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestFetchMalformedXML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<feed><entry>")
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Fetch(context.Background(), "cs.CL", 5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing arXiv response")
}

func TestFetchAPIErrorEntry(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, errorFeed)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Fetch(context.Background(), "cs.CL", 5, 0)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "max_results must be non-negative", apiErr.Message)
}

func TestFetchInvalidArguments(t *testing.T) {
	c := &Client{HTTP: http.DefaultClient, BaseURL: "http://127.0.0.1:0", Logger: zerolog.Nop()}

	_, err := c.Fetch(context.Background(), "", 5, 0)
	assert.ErrorIs(t, err, ErrEmptyCategory)

	_, err = c.Fetch(context.Background(), "cs.CL", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestAbsURL(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "https://arxiv.org/abs/2301.07041v1"},
		{"  http://arxiv.org/abs/2301.07041v3\n", "https://arxiv.org/abs/2301.07041v3"},
		{"http://arxiv.org/abs/math/0601001v2", "https://arxiv.org/abs/math/0601001v2"},
		{"urn:something/2301.1", "https://arxiv.org/abs/2301.1"},
		{"2301.07041", "https://arxiv.org/abs/2301.07041"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.want, absURL(tt.id))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(types.HarvestConfig{}, zerolog.Nop(), nil)
	assert.Equal(t, types.DefaultBaseURL, c.BaseURL)
	assert.Zero(t, c.HTTP.Timeout)
}
