package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAttackMetrics() {
	r.AttacksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attacks_total",
			Help:      "Attacks applied, by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	r.AttackDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attack_duration_seconds",
			Help:      "Time to apply an attack including its flow measurement",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)

	r.CapacityRemoved = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capacity_removed_total",
			Help:      "Edge capacity removed by attacks",
		},
		[]string{"kind"},
	)

	r.BudgetUnspent = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "budget_unspent",
			Help:      "Budget left over after a budgeted attack",
			Buckets:   []float64{0, 1, 10, 50, 100, 300, 1000},
		},
	)

	r.MultiStepsExecuted = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "multi_steps_executed",
			Help:      "Steps a multi-step attack ran before finishing or stopping early",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 64},
		},
	)

	r.FlowDropRatio = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_drop_ratio",
			Help:      "Fractional drop of source-to-target max flow per attack",
			Buckets:   []float64{0, 0.1, 0.3, 0.5, 0.75, 1},
		},
	)

	r.RestoresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restores_total",
			Help:      "Restore requests, by outcome",
		},
		[]string{"status"},
	)
}
