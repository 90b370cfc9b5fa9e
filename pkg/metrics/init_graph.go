package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the loaded graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges in the loaded graph",
		},
	)

	r.GraphCapacity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_capacity",
			Help:      "Sum of all edge capacities",
		},
	)

	r.GraphMaxFlow = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_max_flow",
			Help:      "Maximum flow between the focus source and target",
		},
	)

	r.GraphLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_loads_total",
			Help:      "Graph description loads, by outcome",
		},
		[]string{"status"},
	)

	r.GraphRejectedLines = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_rejected_lines_total",
			Help:      "Graph description lines rejected while loading",
		},
	)

	r.PathSearchesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_searches_total",
			Help:      "Bounded path enumerations run",
		},
	)

	r.PathsFound = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "paths_found",
			Help:      "Paths returned per enumeration",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 64},
		},
	)

	r.HistoryDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_depth",
			Help:      "Snapshots on the undo stack",
		},
	)

	r.HistoryCompressedBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_compressed_bytes",
			Help:      "Bytes held by compressed snapshots",
		},
	)

	r.EventsPublishedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events sent on the publish socket, by topic and outcome",
		},
		[]string{"topic", "status"},
	)
}
