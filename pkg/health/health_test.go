package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegisterChecks(t *testing.T) {
	hc := NewHealthChecker()

	called := map[string]int{}
	probe := func(name string) CheckFunc {
		return func() Check {
			called[name]++
			return Check{Status: StatusHealthy}
		}
	}
	hc.RegisterCheck("full", probe("full"))
	hc.RegisterReadinessCheck("ready", probe("ready"))
	hc.RegisterLivenessCheck("live", probe("live"))

	resp := hc.Check()
	if len(resp.Checks) != 2 || called["full"] != 1 || called["ready"] != 1 {
		t.Errorf("Check ran %v, want full and ready", called)
	}
	if called["live"] != 0 {
		t.Error("liveness probe should not run in the full set")
	}
	if got := resp.Checks["ready"].Name; got != "ready" {
		t.Errorf("check name = %q, want the registered name", got)
	}

	if resp := hc.CheckReadiness(); len(resp.Checks) != 1 {
		t.Errorf("readiness ran %d checks, want 1", len(resp.Checks))
	}
	if resp := hc.CheckLiveness(); len(resp.Checks) != 1 || called["live"] != 1 {
		t.Errorf("liveness ran %d checks", len(resp.Checks))
	}
}

func TestStatusAggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"none", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, s := range tt.statuses {
				s := s
				hc.RegisterCheck(string(rune('a'+i)), func() Check { return Check{Status: s} })
			}
			if got := hc.Check().Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGraphCheck(t *testing.T) {
	tests := []struct {
		nodes, edges int
		want         Status
	}{
		{0, 0, StatusUnhealthy},
		{4, 0, StatusDegraded},
		{4, 3, StatusHealthy},
	}
	for _, tt := range tests {
		check := GraphCheck(func() (int, int) { return tt.nodes, tt.edges })()
		if check.Status != tt.want {
			t.Errorf("GraphCheck(%d, %d) = %s, want %s", tt.nodes, tt.edges, check.Status, tt.want)
		}
		if check.Details["nodes"] != tt.nodes {
			t.Errorf("details = %v", check.Details)
		}
	}
}

func TestFlowCheck(t *testing.T) {
	if c := FlowCheck(func() (int64, error) { return 0, errors.New("source not found") })(); c.Status != StatusUnhealthy || c.Message != "source not found" {
		t.Errorf("error probe = %+v", c)
	}
	if c := FlowCheck(func() (int64, error) { return 0, nil })(); c.Status != StatusDegraded {
		t.Errorf("zero flow = %s, want degraded", c.Status)
	}
	c := FlowCheck(func() (int64, error) { return 15, nil })()
	if c.Status != StatusHealthy || c.Details["max_flow"] != int64(15) {
		t.Errorf("positive flow = %+v", c)
	}
}

func TestHistoryCheck(t *testing.T) {
	small := HistoryCheck(func() (int, int) { return 3, 1024 }, 4096)()
	if small.Status != StatusHealthy || small.Details["depth"] != 3 {
		t.Errorf("small history = %+v", small)
	}
	big := HistoryCheck(func() (int, int) { return 90, 8192 }, 4096)()
	if big.Status != StatusDegraded || big.Message == "" {
		t.Errorf("large history = %+v", big)
	}
	if c := HistoryCheck(func() (int, int) { return 1, 8192 }, 0)(); c.Status != StatusHealthy {
		t.Errorf("default limit should accept 8 KiB, got %s", c.Status)
	}
}

func TestMemoryCheck(t *testing.T) {
	if c := MemoryCheck(0)(); c.Status != StatusHealthy {
		t.Errorf("unlimited heap = %s", c.Status)
	}
	if c := MemoryCheck(1)(); c.Status != StatusDegraded {
		t.Errorf("1 byte heap limit = %s, want degraded", c.Status)
	}
}

func TestHandlers(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterLivenessCheck("process", func() Check { return SimpleCheck() })
	hc.RegisterReadinessCheck("flow", func() Check { return Check{Status: StatusDegraded} })

	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    int
		status  Status
	}{
		{"full set degraded still 200", hc.HTTPHandler(), http.StatusOK, StatusDegraded},
		{"readiness is binary", hc.ReadinessHandler(), http.StatusServiceUnavailable, StatusDegraded},
		{"liveness", hc.LivenessHandler(), http.StatusOK, StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.status {
				t.Errorf("status = %s, want %s", resp.Status, tt.status)
			}
		})
	}
}
