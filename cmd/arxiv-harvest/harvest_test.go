// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// feedServer serves `available` synthetic entries, honoring start and max_results.
func feedServer(t *testing.T, available int, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		size, _ := strconv.Atoi(r.URL.Query().Get("max_results"))

		var b strings.Builder
		b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">`)
		for i := start; i < start+size && i < available; i++ {
			fmt.Fprintf(&b, `<entry><id>http://arxiv.org/abs/2601.%05dv1</id><title>Paper %d</title>`+
				`<summary>Abstract %d</summary><published>2026-01-01T00:00:00Z</published>`+
				`<author><name>Author %d</name></author></entry>`, i, i, i, i)
		}
		b.WriteString(`</feed>`)
		fmt.Fprint(w, b.String())
	}))
}

func testConfig(baseURL, dir string) types.Config {
	cfg := types.DefaultConfig()
	cfg.Harvest.BaseURL = baseURL
	cfg.Harvest.BatchDelay = 0
	cfg.Output.Dir = dir
	return cfg
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local)
}

func TestRunHarvestWritesJSON(t *testing.T) {
	var calls int32
	ts := feedServer(t, 1000, &calls)
	defer ts.Close()

	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)
	cfg.Harvest.Count = 250
	cfg.Output.MetricsFile = filepath.Join(dir, "harvest.prom")

	var out bytes.Buffer
	err := runHarvest(context.Background(), cfg, "cs.CL", true, zerolog.Nop(), &out, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	path := filepath.Join(dir, "arxiv_clean_20261014_120000.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var papers []types.Paper
	require.NoError(t, json.Unmarshal(data, &papers))
	require.Len(t, papers, 250)
	assert.Equal(t, "https://arxiv.org/abs/2601.00000v1", papers[0].URL)
	assert.Equal(t, "Paper 249", papers[249].Title)

	assert.Contains(t, out.String(), "Results saved to: "+path)
	assert.Contains(t, out.String(), "Number of papers: 250")
	assert.Contains(t, out.String(), "Sample Paper:")

	prom, err := os.ReadFile(cfg.Output.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "arxiv_harvest_batches_total 2")
}

func TestRunHarvestFailureWritesNothing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	dir := t.TempDir()
	var out bytes.Buffer
	err := runHarvest(context.Background(), testConfig(ts.URL, dir), "cs.CL", false, zerolog.Nop(), &out, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v, types.DefaultConfig())

	cfg, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)

	v.Set("harvest.count", 5)
	v.Set("harvest.batch_delay", "500ms")
	v.Set("output.format", "sqlite")
	cfg, err = decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Harvest.Count)
	assert.Equal(t, 500*time.Millisecond, cfg.Harvest.BatchDelay)
	assert.Equal(t, types.FormatSQLite, cfg.Output.Format)
	assert.Equal(t, types.DefaultUserAgent, cfg.Harvest.UserAgent)
}

func TestDecodeConfigRejectsBadCount(t *testing.T) {
	v := viper.New()
	setDefaults(v, types.DefaultConfig())
	v.Set("harvest.count", 0)

	_, err := decodeConfig(v)
	assert.ErrorContains(t, err, "harvest.count")
}
