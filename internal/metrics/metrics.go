// Package metrics defines the Prometheus collectors of the retrieval service
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcbaptista/abstract-retrieval/model"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	SearchResultsCount  *prometheus.HistogramVec
	CollectionDocuments *prometheus.GaugeVec
	CollectionTerms     *prometheus.GaugeVec
	JobsTotal           *prometheus.CounterVec
	JobDuration         *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the global registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by collection, mode, and outcome (hit, zero_result, error).",
			},
			[]string{"collection", "mode", "outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search evaluation latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"mode"},
		),
		SearchResultsCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of documents returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"mode"},
		),
		CollectionDocuments: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "collection_document_count",
				Help: "Number of catalog documents per loaded collection.",
			},
			[]string{"collection"},
		),
		CollectionTerms: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "collection_term_count",
				Help: "Number of distinct index terms per loaded collection.",
			},
			[]string{"collection"},
		),
		JobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_total",
				Help: "Finished background jobs by type and terminal status.",
			},
			[]string{"type", "status"},
		),
		JobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "job_duration_seconds",
				Help:    "Background job run time in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"type"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CollectionDocuments,
		m.CollectionTerms,
		m.JobsTotal,
		m.JobDuration,
	)
	return m
}

// ObserveSearch records one evaluated query. err != nil counts as an error outcome.
func (m *Metrics) ObserveSearch(collection, mode string, results int, duration time.Duration, err error) {
	outcome := "hit"
	switch {
	case err != nil:
		outcome = "error"
	case results == 0:
		outcome = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(collection, mode, outcome).Inc()
	if err != nil {
		return
	}
	m.SearchLatency.WithLabelValues(mode).Observe(duration.Seconds())
	m.SearchResultsCount.WithLabelValues(mode).Observe(float64(results))
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetCollection publishes the size of a loaded collection.
func (m *Metrics) SetCollection(name string, documents, terms int) {
	m.CollectionDocuments.WithLabelValues(name).Set(float64(documents))
	m.CollectionTerms.WithLabelValues(name).Set(float64(terms))
}

// SetCollectionDocuments publishes the document count of a loaded collection.
func (m *Metrics) SetCollectionDocuments(name string, documents int) {
	m.CollectionDocuments.WithLabelValues(name).Set(float64(documents))
}

// DeleteCollection drops the gauges of an unloaded collection.
func (m *Metrics) DeleteCollection(name string) {
	m.CollectionDocuments.DeleteLabelValues(name)
	m.CollectionTerms.DeleteLabelValues(name)
}

// ObserveJob records a finished background job. It matches jobs.Observer.
func (m *Metrics) ObserveJob(job model.Job) {
	m.JobsTotal.WithLabelValues(string(job.Type), string(job.Status)).Inc()
	if job.Status == model.JobStatusCompleted {
		m.JobDuration.WithLabelValues(string(job.Type)).Observe(job.Duration().Seconds())
	}
}

// Handler returns the Prometheus scrape HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
