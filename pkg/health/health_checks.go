package health

import (
	"fmt"
	"runtime"
)

// DefaultHistoryLimit is the compressed snapshot footprint above which the
// history probe reports degraded.
const DefaultHistoryLimit = 256 << 20

// SimpleCheck always reports healthy. Used as the liveness probe: a process
// that can answer is alive.
func SimpleCheck() Check {
	return Check{Status: StatusHealthy}
}

// GraphCheck reports unhealthy for a graph without nodes and degraded for
// one without edges, since no attack can do anything there.
func GraphCheck(stats func() (nodes, edges int)) CheckFunc {
	return func() Check {
		nodes, edges := stats()
		check := Check{
			Status:  StatusHealthy,
			Details: map[string]any{"nodes": nodes, "edges": edges},
		}
		switch {
		case nodes == 0:
			check.Status = StatusUnhealthy
			check.Message = "graph is empty"
		case edges == 0:
			check.Status = StatusDegraded
			check.Message = "graph has no edges"
		}
		return check
	}
}

// FlowCheck probes the focus pair. An error from maxFlow (missing or equal
// endpoints) is unhealthy; a zero flow is degraded because the source is
// already cut off from the target.
func FlowCheck(maxFlow func() (int64, error)) CheckFunc {
	return func() Check {
		value, err := maxFlow()
		if err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		check := Check{
			Status:  StatusHealthy,
			Details: map[string]any{"max_flow": value},
		}
		if value == 0 {
			check.Status = StatusDegraded
			check.Message = "no flow between source and target"
		}
		return check
	}
}

// HistoryCheck reports degraded once the compressed snapshots held for undo
// exceed limitBytes. limitBytes <= 0 means DefaultHistoryLimit.
func HistoryCheck(stats func() (depth, compressedBytes int), limitBytes int) CheckFunc {
	if limitBytes <= 0 {
		limitBytes = DefaultHistoryLimit
	}
	return func() Check {
		depth, size := stats()
		check := Check{
			Status: StatusHealthy,
			Details: map[string]any{
				"depth":            depth,
				"compressed_bytes": size,
			},
		}
		if size > limitBytes {
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("undo history holds %d bytes, limit %d", size, limitBytes)
		}
		return check
	}
}

// MemoryCheck reports degraded when the heap exceeds maxHeapBytes.
func MemoryCheck(maxHeapBytes uint64) CheckFunc {
	return func() Check {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		check := Check{
			Status: StatusHealthy,
			Details: map[string]any{
				"heap_alloc_bytes": m.HeapAlloc,
				"goroutines":       runtime.NumGoroutine(),
			},
		}
		if maxHeapBytes > 0 && m.HeapAlloc > maxHeapBytes {
			check.Status = StatusDegraded
			check.Message = "heap above limit"
		}
		return check
	}
}
