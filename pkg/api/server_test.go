package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/health"
	"github.com/dd0wney/flowattack/pkg/metrics"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/visualization"
)

const scenarioGraph = `0: (1,10,1.0,1) (2,10,1.0,1)
1: (2,5,1.0,1)
`

// setupTestServer creates a server over the three node scenario graph with
// N1 as source and N3 as target.
func setupTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()

	g, err := graph.LoadString(scenarioGraph)
	require.NoError(t, err)

	reg := metrics.NewRegistry()
	sess, err := session.New(g, session.Options{Source: 0, Target: 2, Metrics: reg})
	require.NoError(t, err)

	server, err := NewServer(sess, Options{
		Port:     8080,
		Defaults: config.Default().Attack,
		Metrics:  reg,
	})
	require.NoError(t, err)
	return server, sess
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	server, sess := setupTestServer(t)

	rec := do(t, server.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, sess.ID(), resp.SessionID)
	assert.Equal(t, 3, resp.Nodes)
	assert.Equal(t, 3, resp.Edges)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthProbes(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	live := do(t, h, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, live.Code)

	ready := decode[health.Response](t, do(t, h, http.MethodGet, "/health/ready", ""))
	assert.Equal(t, health.StatusHealthy, ready.Status)
	assert.Contains(t, ready.Checks, "graph")
	assert.Contains(t, ready.Checks, "flow")

	checks := decode[health.Response](t, do(t, h, http.MethodGet, "/health/checks", ""))
	assert.Len(t, checks.Checks, 4)

	// cutting every source edge leaves the focus pair disconnected
	rec := do(t, h, http.MethodPost, "/attack/budgeted",
		`{"targets":[{"from":0,"to":1},{"from":0,"to":2}],"budget":25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	ready = decode[health.Response](t, rec)
	assert.Equal(t, health.StatusDegraded, ready.Checks["flow"].Status)
}

func TestGraphAndDetails(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	rec := do(t, h, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[visualization.GraphData](t, rec)
	assert.Len(t, data.Nodes, 3)
	assert.Len(t, data.Links, 3)

	rec = do(t, h, http.MethodGet, "/nodes/N2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[visualization.NodeInfo](t, rec)
	assert.Equal(t, "N2", info.Node.Label)
	assert.Len(t, info.Outgoing, 1)
	assert.Len(t, info.Incoming, 1)

	rec = do(t, h, http.MethodGet, "/edges/N1/N2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	edge := decode[visualization.EdgeInfo](t, rec)
	assert.Equal(t, int64(10), edge.Capacity)
	assert.Nil(t, edge.Previous)
}

func TestLookupErrors(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown node", "/nodes/N99", http.StatusNotFound},
		{"malformed node", "/nodes/bogus", http.StatusBadRequest},
		{"missing edge", "/edges/N3/N1", http.StatusNotFound},
		{"bad max", "/paths?max=0", http.StatusBadRequest},
		{"unknown path endpoint", "/paths?from=N40", http.StatusNotFound},
		{"unrouted", "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestPathsAndFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	rec := do(t, h, http.MethodGet, "/paths", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ps := decode[PathsResponse](t, rec)
	assert.Equal(t, "N1", ps.From)
	assert.Equal(t, "N3", ps.To)
	require.Equal(t, 2, ps.Count)
	assert.Equal(t, "N1 → N2 → N3", ps.Paths[0].Text)
	assert.Equal(t, []string{"N1", "N3"}, ps.Paths[1].Nodes)

	rec = do(t, h, http.MethodGet, "/paths?from=N2&to=N3&max=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[PathsResponse](t, rec).Count)

	rec = do(t, h, http.MethodGet, "/flow", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fl := decode[FlowResponse](t, rec)
	assert.Equal(t, int64(15), fl.Value)
	assert.Len(t, fl.Carrier, 3)
}

func TestAttackRestoreCycle(t *testing.T) {
	server, sess := setupTestServer(t)
	h := server.Handler()

	rec := do(t, h, http.MethodPost, "/attack/budgeted",
		`{"targets":[{"from":0,"to":1},{"from":0,"to":2}],"budget":15}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[attack.Result](t, rec)
	assert.Equal(t, attack.KindBudgeted, res.Kind)
	assert.Equal(t, int64(15), res.TotalReduction())
	require.NotNil(t, res.Impact)
	assert.Equal(t, int64(15), res.Impact.FlowBefore)
	assert.Equal(t, int64(5), res.Impact.FlowAfter)
	assert.Equal(t, 1, sess.HistoryLen())

	rec = do(t, h, http.MethodGet, "/highlights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hl := decode[HighlightsResponse](t, rec)
	assert.Equal(t, []string{"N1→N2", "N1→N3"}, hl.Attacked)

	rec = do(t, h, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[visualization.CapacityReport](t, rec)
	assert.Equal(t, int64(15), report.Reduction)

	rec = do(t, h, http.MethodPost, "/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[FocusResponse](t, rec).HistoryDepth)

	rec = do(t, h, http.MethodPost, "/restore", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMultiStepAttack(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	rec := do(t, h, http.MethodPost, "/attack/multi-step", `{"targets":[{"from":1,"to":2}],"steps":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[attack.Result](t, rec)
	assert.Equal(t, 2, res.StepsExecuted)
	require.Len(t, res.Reductions, 1)
	assert.Equal(t, int64(1), res.Reductions[0].After)

	rec = do(t, h, http.MethodGet, "/report/affected", "")
	require.Equal(t, http.StatusOK, rec.Code)
	affected := decode[[]visualization.AffectedPath](t, rec)
	assert.Len(t, affected, 1)
}

func TestAttackRequestErrors(t *testing.T) {
	server, sess := setupTestServer(t)
	h := server.Handler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed json", "/attack/budgeted", `{"budget":`, http.StatusBadRequest},
		{"unknown field", "/attack/budgeted", `{"budgett":3}`, http.StatusBadRequest},
		{"negative budget", "/attack/budgeted", `{"budget":-1}`, http.StatusBadRequest},
		{"unknown strategy", "/attack/budgeted", `{"select":"random"}`, http.StatusBadRequest},
		{"strategy with targets", "/attack/budgeted", `{"select":"flow","targets":[{"from":0,"to":1}]}`, http.StatusBadRequest},
		{"explicit without targets", "/attack/budgeted", `{"select":"explicit"}`, http.StatusUnprocessableEntity},
		{"too many steps", "/attack/multi-step", `{"steps":1000}`, http.StatusBadRequest},
		{"missing target edge", "/attack/budgeted", `{"targets":[{"from":2,"to":0}]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Code)
		})
	}
	assert.Equal(t, 0, sess.HistoryLen(), "rejected attacks must not push history")
}

func TestJump(t *testing.T) {
	server, sess := setupTestServer(t)
	h := server.Handler()

	rec := do(t, h, http.MethodPost, "/jump", `{"node":"N2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "N2", decode[FocusResponse](t, rec).Center)
	assert.Equal(t, graph.NodeID(1), sess.Focus().Center)

	rec = do(t, h, http.MethodPost, "/jump", `{"node":"target"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "N3", decode[FocusResponse](t, rec).Center)

	rec = do(t, h, http.MethodPost, "/jump", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/jump", `{"node":"N50"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodRouting(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/attack/budgeted", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/graph", "{}").Code)
}

func TestGraphQLEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := do(t, server.Handler(), http.MethodPost, "/graphql", `{"query":"{ maxFlow focus { source target } }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"maxFlow":15,"focus":{"source":"N1","target":"N3"}}}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	do(t, h, http.MethodGet, "/nodes/N1", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `path="GET /nodes/{id}"`), "route pattern label missing")
	assert.True(t, strings.Contains(body, "flowattack_graph_nodes"), "graph gauge missing")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{attack.ErrInsufficientTargets, http.StatusUnprocessableEntity},
		{attack.ErrInvalidBudget, http.StatusBadRequest},
		{session.ErrUnknownNode, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	server, _ := setupTestServer(t)
	server.updateSystemMetrics()

	rec := do(t, server.Handler(), http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), "flowattack_goroutines")
	assert.Contains(t, rec.Body.String(), "flowattack_uptime_seconds")
}
