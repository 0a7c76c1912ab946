// Package metrics exposes Prometheus metrics for the refresh cycles.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yieldscan"

// Metrics holds every collector of the scanner. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal       prometheus.Counter
	PoolFailuresTotal *prometheus.CounterVec
	Pools             *prometheus.GaugeVec
	CycleDuration     prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge
}

// New creates a Metrics instance with all collectors registered, plus the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of refresh cycles run",
		}),
		PoolFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_failures_total",
			Help:      "Total number of pools that could not be computed, by chain",
		}, []string{"chain"}),
		Pools: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pools",
			Help:      "Number of pools published by the last cycle, by chain",
		}, []string{"chain"}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of refresh cycles",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last completed cycle",
		}),
	}
}

// ObserveCycle records one completed cycle. pools and failures are counted per chain.
func (m *Metrics) ObserveCycle(duration time.Duration, pools, failures map[string]int) {
	m.CyclesTotal.Inc()
	m.CycleDuration.Observe(duration.Seconds())
	m.LastSuccessfulRun.SetToCurrentTime()

	m.Pools.Reset()
	for chain, n := range pools {
		m.Pools.WithLabelValues(chain).Set(float64(n))
	}
	for chain, n := range failures {
		m.PoolFailuresTotal.WithLabelValues(chain).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and for embedding extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
