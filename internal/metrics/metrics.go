// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records Prometheus metrics for a harvest run. A CLI run is
// short-lived, so metrics are written once to a node_exporter textfile
// rather than served.
//
// Metrics:
//   - arxiv_harvest_batches_total (Counter): API calls that returned a feed
//   - arxiv_harvest_batch_errors_total (Counter): API calls that failed
//   - arxiv_harvest_records_total (Counter): records returned across batches
//   - arxiv_harvest_skipped_entries_total (Counter): malformed entries dropped
//   - arxiv_harvest_batch_duration_seconds (Histogram): API call latency
//   - arxiv_harvest_page_fetches_total{result} (Counter): single-page fetches
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the metrics for one process. The zero value is not usable;
// a nil *Recorder is, and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	batches       prometheus.Counter
	batchErrors   prometheus.Counter
	records       prometheus.Counter
	skipped       prometheus.Counter
	batchDuration prometheus.Histogram
	pageFetches   *prometheus.CounterVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arxiv_harvest_batches_total",
			Help: "arXiv API calls that returned a feed",
		}),
		batchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arxiv_harvest_batch_errors_total",
			Help: "arXiv API calls that failed",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arxiv_harvest_records_total",
			Help: "Paper records returned across all batches",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arxiv_harvest_skipped_entries_total",
			Help: "Malformed feed entries dropped during parsing",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arxiv_harvest_batch_duration_seconds",
			Help:    "arXiv API call latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		pageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arxiv_harvest_page_fetches_total",
			Help: "Single-page fetches by result",
		}, []string{"result"}),
	}
	reg.MustRegister(r.batches, r.batchErrors, r.records, r.skipped, r.batchDuration, r.pageFetches)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveBatch records one successful API call.
func (r *Recorder) ObserveBatch(d time.Duration, received, skipped int) {
	if r == nil {
		return
	}
	r.batches.Inc()
	r.batchDuration.Observe(d.Seconds())
	r.records.Add(float64(received))
	r.skipped.Add(float64(skipped))
}

// ObserveBatchError records one failed API call.
func (r *Recorder) ObserveBatchError(d time.Duration) {
	if r == nil {
		return
	}
	r.batchErrors.Inc()
	r.batchDuration.Observe(d.Seconds())
}

// ObservePage records a single-page fetch; result is "ok" or "error".
func (r *Recorder) ObservePage(result string) {
	if r == nil {
		return
	}
	r.pageFetches.WithLabelValues(result).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
