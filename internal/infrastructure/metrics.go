package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of a salespulse process.
type Metrics struct {
	registry *prometheus.Registry

	rowsRead         prometheus.Counter
	rowsAdmitted     prometheus.Counter
	rowsDropped      *prometheus.CounterVec
	loadDuration     prometheus.Histogram
	profileFailures  *prometheus.CounterVec
	artifactsWritten *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		rowsRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "sales_ingest_rows_read_total",
			Help: "Total number of data rows read from sales sources",
		}),
		rowsAdmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sales_ingest_rows_admitted_total",
			Help: "Total number of rows admitted into the canonical table",
		}),
		rowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_ingest_rows_dropped_total",
			Help: "Total number of rows trimmed during ingestion",
		}, []string{"reason"}),
		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sales_ingest_duration_seconds",
			Help:    "Duration of sales source ingestion",
			Buckets: prometheus.DefBuckets,
		}),
		profileFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_ingest_profile_failures_total",
			Help: "Format profiles that failed to parse a source",
		}, []string{"profile"}),
		artifactsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_report_artifacts_total",
			Help: "Report artifacts written",
		}, []string{"artifact", "status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_http_requests_total",
			Help: "Total number of dashboard API requests",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sales_http_request_duration_seconds",
			Help:    "Dashboard API request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordLoad records the outcome of one ingestion call.
func (m *Metrics) RecordLoad(read, admitted, droppedBadDate, droppedBadMeasure int, elapsed time.Duration) {
	m.rowsRead.Add(float64(read))
	m.rowsAdmitted.Add(float64(admitted))
	m.rowsDropped.WithLabelValues("bad_date").Add(float64(droppedBadDate))
	m.rowsDropped.WithLabelValues("bad_measure").Add(float64(droppedBadMeasure))
	m.loadDuration.Observe(elapsed.Seconds())
}

// RecordProfileFailure counts a format profile that could not parse a source.
func (m *Metrics) RecordProfileFailure(profile string) {
	m.profileFailures.WithLabelValues(profile).Inc()
}

// RecordArtifact counts a written (or failed) report artifact.
func (m *Metrics) RecordArtifact(artifact string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.artifactsWritten.WithLabelValues(artifact, status).Inc()
}

// RecordHTTPRequest records one served API request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
