// Package metrics exposes Prometheus instruments for the attack engine and
// its HTTP shell.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flowattack"

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Attack Metrics
	AttacksTotal       *prometheus.CounterVec
	AttackDuration     *prometheus.HistogramVec
	CapacityRemoved    *prometheus.CounterVec
	BudgetUnspent      prometheus.Histogram
	MultiStepsExecuted prometheus.Histogram
	FlowDropRatio      prometheus.Histogram
	RestoresTotal      *prometheus.CounterVec

	// Graph Metrics
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	GraphCapacity      prometheus.Gauge
	GraphMaxFlow       prometheus.Gauge
	GraphLoadsTotal    *prometheus.CounterVec
	GraphRejectedLines prometheus.Counter

	// Path and history Metrics
	PathSearchesTotal      prometheus.Counter
	PathsFound             prometheus.Histogram
	HistoryDepth           prometheus.Gauge
	HistoryCompressedBytes prometheus.Gauge

	// Event Metrics
	EventsPublishedTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds prometheus.Gauge
	GoRoutines    prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.initHTTPMetrics()
	r.initAttackMetrics()
	r.initGraphMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
