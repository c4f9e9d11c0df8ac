package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the authorization gate and the status job.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	gateDecisions   *prometheus.CounterVec
	jobUpdated      *prometheus.CounterVec
	jobRuns         prometheus.Counter
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	gateDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_decisions_total",
		Help: "Authorization gate decisions by area and rule",
	}, []string{"area", "rule"})

	jobUpdated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "status_job_records_updated_total",
		Help: "Records updated by the status job per pass",
	}, []string{"pass"})

	jobRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "status_job_runs_total",
		Help: "Total status job invocations",
	})

	registry.MustRegister(requestDuration, requestTotal, gateDecisions, jobUpdated, jobRuns)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		gateDecisions:   gateDecisions,
		jobUpdated:      jobUpdated,
		jobRuns:         jobRuns,
	}
}

// Handler exposes the /metrics scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveGateDecision records one authorization gate outcome.
func (m *MetricsService) ObserveGateDecision(area, rule string) {
	m.gateDecisions.WithLabelValues(area, rule).Inc()
}

// ObserveJobPass records how many records a status job pass updated.
func (m *MetricsService) ObserveJobPass(pass string, updated int) {
	m.jobUpdated.WithLabelValues(pass).Add(float64(updated))
}

// ObserveJobRun counts one status job invocation.
func (m *MetricsService) ObserveJobRun() {
	m.jobRuns.Inc()
}
