package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncHTTPRequestsInFlight marks a request as started
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks a request as finished
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordAttack records a successful attack
func (r *Registry) RecordAttack(kind string, removed int64, duration time.Duration) {
	r.AttacksTotal.WithLabelValues(kind, "success").Inc()
	r.AttackDuration.WithLabelValues(kind).Observe(duration.Seconds())
	r.CapacityRemoved.WithLabelValues(kind).Add(float64(removed))
}

// RecordAttackFailure records an attack refused by validation
func (r *Registry) RecordAttackFailure(kind string) {
	r.AttacksTotal.WithLabelValues(kind, "error").Inc()
}

// RecordRestore records a restore outcome
func (r *Registry) RecordRestore(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.RestoresTotal.WithLabelValues(status).Inc()
}

// RecordLoad records a graph load with the number of rejected lines
func (r *Registry) RecordLoad(rejected int, err error) {
	switch {
	case err != nil && rejected == 0:
		r.GraphLoadsTotal.WithLabelValues("error").Inc()
	case rejected > 0:
		r.GraphLoadsTotal.WithLabelValues("partial").Inc()
		r.GraphRejectedLines.Add(float64(rejected))
	default:
		r.GraphLoadsTotal.WithLabelValues("success").Inc()
	}
}

// RecordPathSearch records one path enumeration
func (r *Registry) RecordPathSearch(found int) {
	r.PathSearchesTotal.Inc()
	r.PathsFound.Observe(float64(found))
}

// RecordEvent records a publish attempt
func (r *Registry) RecordEvent(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}

// UpdateGraphMetrics refreshes the graph gauges
func (r *Registry) UpdateGraphMetrics(nodes, edges int, capacity, maxFlow int64) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.GraphCapacity.Set(float64(capacity))
	r.GraphMaxFlow.Set(float64(maxFlow))
}

// UpdateHistoryMetrics refreshes the undo stack gauges
func (r *Registry) UpdateHistoryMetrics(depth, compressedBytes int) {
	r.HistoryDepth.Set(float64(depth))
	r.HistoryCompressedBytes.Set(float64(compressedBytes))
}
