// Package metrics exposes Prometheus collectors for HTTP traffic, LLM calls
// and quiz attempts on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and every collector.
type Metrics struct {
	registry *prometheus.Registry

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	llmRequests     *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
	attempts        *prometheus.CounterVec
	scores          prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizvault_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quizvault_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"method", "endpoint"},
		),
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizvault_llm_requests_total",
				Help: "LLM provider calls by purpose and outcome",
			},
			[]string{"purpose", "status"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quizvault_llm_request_duration_seconds",
				Help:    "Latency of LLM provider calls",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"purpose"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizvault_quiz_attempts_total",
				Help: "Graded quiz attempts by how they were submitted",
			},
			[]string{"source"},
		),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quizvault_quiz_score_percent",
			Help:    "Distribution of graded quiz scores",
			Buckets: []float64{20, 40, 60, 80, 100},
		}),
	}

	m.registry.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.llmRequests,
		m.llmDuration,
		m.attempts,
		m.scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveLLMRequest implements llm.Observer.
func (m *Metrics) ObserveLLMRequest(purpose string, success bool, elapsed time.Duration) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.llmRequests.WithLabelValues(purpose, status).Inc()
	m.llmDuration.WithLabelValues(purpose).Observe(elapsed.Seconds())
}

// ObserveAttempt records one graded attempt.
func (m *Metrics) ObserveAttempt(source string, score float64) {
	m.attempts.WithLabelValues(source).Inc()
	m.scores.Observe(score)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by chi route pattern so IDs do not explode
// label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
