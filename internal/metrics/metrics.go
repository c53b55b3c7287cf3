// Package metrics exposes Prometheus collectors for ingestion and search.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/pricecompare/internal/core"
)

const namespace = "pricecompare"

// Metrics implements core.Recorder on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	uploads        *prometheus.CounterVec
	rows           *prometheus.CounterVec
	uploadDuration prometheus.Histogram
	searches       *prometheus.CounterVec
	searchGroups   prometheus.Histogram
	warehouses     prometheus.Gauge
	mergedRecords  prometheus.Gauge
}

// New creates and registers the collectors. When withRuntime is set the Go
// runtime and process collectors are registered too.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Files processed, by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Data rows seen in committed uploads, by result.",
		}, []string{"result"}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Time spent decoding and validating a committed upload.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Product searches, by result.",
		}, []string{"result"}),
		searchGroups: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_groups",
			Help:      "Product groups returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		warehouses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "warehouses",
			Help:      "Warehouses currently loaded.",
		}),
		mergedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "merged_records",
			Help:      "Records in the merged index.",
		}),
	}

	m.registry.MustRegister(
		m.uploads, m.rows, m.uploadDuration,
		m.searches, m.searchGroups,
		m.warehouses, m.mergedRecords,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) UploadProcessed(res *core.UploadResult) {
	m.uploads.WithLabelValues("ok").Inc()
	valid := res.Stats.ValidRows
	invalid := res.Stats.ErrorRows - res.Stats.DuplicateRows
	m.rows.WithLabelValues("valid").Add(float64(valid))
	m.rows.WithLabelValues("invalid").Add(float64(invalid))
	m.rows.WithLabelValues("duplicate").Add(float64(res.Stats.DuplicateRows))
	m.uploadDuration.Observe(res.Duration.Seconds())
}

func (m *Metrics) UploadFailed(err error) {
	m.uploads.WithLabelValues(core.MapError(err).Code).Inc()
}

func (m *Metrics) Searched(res core.SearchResult) {
	switch {
	case !res.Searched:
		m.searches.WithLabelValues("empty_query").Inc()
		return
	case len(res.Groups) == 0:
		m.searches.WithLabelValues("miss").Inc()
	default:
		m.searches.WithLabelValues("hit").Inc()
	}
	m.searchGroups.Observe(float64(len(res.Groups)))
}

func (m *Metrics) RepositoryChanged(ev core.Event) {
	m.warehouses.Set(float64(ev.Warehouses))
	m.mergedRecords.Set(float64(ev.MergedSize))
}
