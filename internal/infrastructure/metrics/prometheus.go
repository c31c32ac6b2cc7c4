// Package metrics exposes simulation telemetry as Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements port.MetricsRecorder.
type Collector struct {
	registry           *prometheus.Registry
	simulations        *prometheus.CounterVec
	simulationDuration prometheus.Histogram
	batches            *prometheus.CounterVec
	batchSize          prometheus.Histogram
}

// NewCollector registers the simulator series on registry. A nil registry
// gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		simulations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_simulations_total",
			Help: "Simulations evaluated, by outcome",
		}, []string{"outcome"}),
		simulationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "credit_simulation_duration_seconds",
			Help:    "Time spent evaluating one simulation request",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_batches_total",
			Help: "Batches received, by processing mode",
		}, []string{"mode"}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "credit_batch_size",
			Help:    "Number of simulations per batch",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
	}
}

// ObserveSimulation counts one simulation. A non-positive elapsed is counted
// but not timed.
func (c *Collector) ObserveSimulation(outcome string, elapsed time.Duration) {
	c.simulations.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		c.simulationDuration.Observe(elapsed.Seconds())
	}
}

func (c *Collector) ObserveBatch(mode string, size int) {
	c.batches.WithLabelValues(mode).Inc()
	c.batchSize.Observe(float64(size))
}

// Registry returns the registry the series live on.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
