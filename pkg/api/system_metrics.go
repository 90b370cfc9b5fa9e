package api

import (
	"context"
	"runtime"
	"time"
)

// updateMetricsPeriodically refreshes uptime and goroutine gauges every
// interval until ctx ends.
func (s *Server) updateMetricsPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateSystemMetrics()
		}
	}
}

func (s *Server) updateSystemMetrics() {
	s.metrics.UptimeSeconds.Set(time.Since(s.startTime).Seconds())
	s.metrics.GoRoutines.Set(float64(runtime.NumGoroutine()))
}
