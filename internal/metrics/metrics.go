// Package metrics exposes Prometheus counters for statement conversions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statement_reader"

// Recorder is what the statement processor reports into.
type Recorder interface {
	ObserveParse(format string, fallback bool, transactions int, elapsed time.Duration)
	ObserveEmpty()
}

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry     *prometheus.Registry
	statements   *prometheus.CounterVec
	fallbacks    prometheus.Counter
	empty        prometheus.Counter
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers the statement collectors plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_parsed_total",
			Help:      "Statements parsed, by detected format.",
		}, []string{"format"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "format_fallbacks_total",
			Help:      "Statements whose first candidate format produced no transactions.",
		}),
		empty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_statements_total",
			Help:      "Statements for which no format produced a transaction.",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions extracted, by format.",
		}, []string{"format"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one statement text.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		m.statements,
		m.fallbacks,
		m.empty,
		m.transactions,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveParse(format string, fallback bool, transactions int, elapsed time.Duration) {
	m.statements.WithLabelValues(format).Inc()
	m.transactions.WithLabelValues(format).Add(float64(transactions))
	m.duration.WithLabelValues(format).Observe(elapsed.Seconds())
	if fallback {
		m.fallbacks.Inc()
	}
}

func (m *Metrics) ObserveEmpty() {
	m.empty.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and for callers adding their own collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveParse(string, bool, int, time.Duration) {}
func (Nop) ObserveEmpty()                                 {}
