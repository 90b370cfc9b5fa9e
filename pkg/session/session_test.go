package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/events"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
)

const scenarioGraph = `0: (1,10,1.0,1) (2,10,1.0,1)
1: (2,5,1.0,1)
`

// recordingPublisher keeps every event it is handed.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ts []string
	for _, ev := range p.events {
		ts = append(ts, ev.Topic)
	}
	return ts
}

func newSession(t *testing.T, text string) (*Session, *recordingPublisher, *metrics.Registry) {
	t.Helper()
	g, err := graph.LoadString(text)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	pub := &recordingPublisher{}
	reg := metrics.NewRegistry()
	s, err := New(g, Options{Source: 0, Target: g.MaxNodeID(), Publisher: pub, Metrics: reg})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, pub, reg
}

func capacity(s *Session, from, to graph.NodeID) int64 {
	var c int64
	s.Read(func(st State) {
		a, _ := st.Graph.Edge(graph.EdgeKey{From: from, To: to})
		c = a.Capacity
	})
	return c
}

func TestNew_UnknownFocus(t *testing.T) {
	g, _ := graph.LoadString(scenarioGraph)
	if _, err := New(g, Options{Source: 0, Target: 9}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("got %v, want ErrUnknownNode", err)
	}
}

func TestBudgetedAttack_WithImpact(t *testing.T) {
	s, pub, reg := newSession(t, scenarioGraph)
	ctx := context.Background()

	targets := []graph.EdgeKey{{From: 0, To: 1}, {From: 0, To: 2}}
	res, err := s.BudgetedAttack(ctx, Explicit(targets), 15)
	if err != nil {
		t.Fatalf("BudgetedAttack failed: %v", err)
	}
	if capacity(s, 0, 1) != 0 || capacity(s, 0, 2) != 5 || res.BudgetRemaining != 0 {
		t.Errorf("unexpected state after attack: %+v", res)
	}

	// max flow 0 -> 2 goes from 15 to 5
	if res.Impact == nil || res.Impact.FlowBefore != 15 || res.Impact.FlowAfter != 5 {
		t.Fatalf("Impact = %+v", res.Impact)
	}
	if res.Impact.Severity != attack.SeverityHigh {
		t.Errorf("Severity = %s, want High", res.Impact.Severity)
	}

	if s.LastAttack() != res || s.HistoryLen() != 1 {
		t.Error("session did not record the attack")
	}
	if got := pub.topics(); len(got) != 1 || got[0] != events.TopicAttack {
		t.Errorf("published %v", got)
	}

	var m dto.Metric
	reg.AttacksTotal.WithLabelValues("budgeted", "success").Write(&m)
	if m.Counter.GetValue() != 1 {
		t.Errorf("attacks_total = %v", m.Counter.GetValue())
	}
}

func TestAttack_FailureLeavesNoTrace(t *testing.T) {
	s, pub, _ := newSession(t, scenarioGraph)
	ctx := context.Background()

	_, err := s.BudgetedAttack(ctx, Explicit(nil), 10)
	if !errors.Is(err, attack.ErrInsufficientTargets) {
		t.Fatalf("got %v, want ErrInsufficientTargets", err)
	}
	_, err = s.MultiStepAttack(ctx, Explicit([]graph.EdgeKey{{From: 2, To: 1}}), 3)
	if !errors.Is(err, graph.ErrInvalidEdge) {
		t.Fatalf("got %v, want ErrInvalidEdge", err)
	}

	if s.HistoryLen() != 0 || s.LastAttack() != nil || len(pub.topics()) != 0 {
		t.Error("failed attacks left traces")
	}
}

func TestRestore(t *testing.T) {
	s, pub, _ := newSession(t, scenarioGraph)
	ctx := context.Background()

	if err := s.Restore(ctx); !errors.Is(err, history.ErrEmptyHistory) {
		t.Fatalf("Restore on fresh session = %v, want ErrEmptyHistory", err)
	}

	if _, err := s.MultiStepAttack(ctx, Explicit([]graph.EdgeKey{{From: 1, To: 2}}), 3); err != nil {
		t.Fatalf("MultiStepAttack failed: %v", err)
	}
	if capacity(s, 1, 2) != 0 {
		t.Fatalf("(1,2) = %d, want 0", capacity(s, 1, 2))
	}

	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if capacity(s, 1, 2) != 5 {
		t.Errorf("(1,2) after restore = %d, want 5", capacity(s, 1, 2))
	}
	if s.LastAttack() != nil {
		t.Error("restore should clear the last attack")
	}
	if got := pub.topics(); len(got) != 2 || got[1] != events.TopicRestore {
		t.Errorf("published %v", got)
	}
}

func TestStrategies(t *testing.T) {
	s, _, _ := newSession(t, "0: (1,4,1,1) (2,9,1,0)\n1: (3,4,1,1)\n2: (3,1,1,1)")
	ctx := context.Background()

	sel, err := Strategy("flow", 16, 10, 1)
	if err != nil {
		t.Fatalf("Strategy failed: %v", err)
	}
	res, err := s.BudgetedAttack(ctx, sel, 3)
	if err != nil {
		t.Fatalf("BudgetedAttack failed: %v", err)
	}
	// flow edges with flag 1, ascending: (0,1) (1,3) (2,3); (0,2) has flag 0
	want := []graph.EdgeKey{{From: 0, To: 1}, {From: 1, To: 3}, {From: 2, To: 3}}
	if len(res.Targets) != len(want) {
		t.Fatalf("Targets = %v, want %v", res.Targets, want)
	}
	for i := range want {
		if res.Targets[i] != want[i] {
			t.Errorf("Targets[%d] = %v, want %v", i, res.Targets[i], want[i])
		}
	}

	sel, _ = Strategy("capacity", 16, 1, -1)
	res, err = s.MultiStepAttack(ctx, sel, 1)
	if err != nil {
		t.Fatalf("MultiStepAttack failed: %v", err)
	}
	if len(res.Targets) != 1 || res.Targets[0] != (graph.EdgeKey{From: 0, To: 2}) {
		t.Errorf("capacity targets = %v", res.Targets)
	}

	if _, err := Strategy("random", 16, 1, -1); err == nil {
		t.Error("unknown strategy should fail")
	}
}

func TestJump(t *testing.T) {
	s, pub, _ := newSession(t, scenarioGraph)
	ctx := context.Background()

	if _, err := s.JumpTo(ctx, 42); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("got %v, want ErrUnknownNode", err)
	}
	f, err := s.JumpTo(ctx, 1)
	if err != nil || f.Center != 1 {
		t.Errorf("JumpTo(1) = %+v, %v", f, err)
	}
	if f := s.JumpToTarget(ctx); f.Center != 2 {
		t.Errorf("JumpToTarget center = %d, want 2", f.Center)
	}
	if f := s.JumpToSource(ctx); f.Center != 0 {
		t.Errorf("JumpToSource center = %d, want 0", f.Center)
	}
	if s.HistoryLen() != 0 {
		t.Error("jumps must not push history")
	}
	if len(pub.topics()) != 3 {
		t.Errorf("published %v", pub.topics())
	}
}

func TestResolveHighlights(t *testing.T) {
	s, _, _ := newSession(t, scenarioGraph)

	before := s.ResolveHighlights(0, 2)
	if before.Count(highlight.Attacked) != 0 || before.Count(highlight.ContextForward) != 3 {
		t.Errorf("before attack: %v", before)
	}

	s.BudgetedAttack(context.Background(), Explicit([]graph.EdgeKey{{From: 1, To: 2}}), 2)
	after := s.ResolveHighlights(0, 2)
	if after.Of(graph.EdgeKey{From: 1, To: 2}) != highlight.Attacked {
		t.Errorf("(1,2) = %s, want attacked", after.Of(graph.EdgeKey{From: 1, To: 2}))
	}
}

func TestReplace(t *testing.T) {
	s, pub, _ := newSession(t, scenarioGraph)
	ctx := context.Background()
	s.BudgetedAttack(ctx, Explicit([]graph.EdgeKey{{From: 0, To: 1}}), 1)

	small, _ := graph.LoadString("0: (1,1,1,1)")
	if err := s.Replace(ctx, small); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("reload without focus target: %v", err)
	}

	bigger, _ := graph.LoadString(scenarioGraph + "2: (3,7,1,1)")
	if err := s.Replace(ctx, bigger); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if s.HistoryLen() != 0 || s.LastAttack() != nil {
		t.Error("reload should drop history")
	}
	if got := pub.topics(); got[len(got)-1] != events.TopicReload {
		t.Errorf("published %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s, _, _ := newSession(t, scenarioGraph)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.MultiStepAttack(ctx, Explicit([]graph.EdgeKey{{From: 0, To: 1}}), 1)
				s.Restore(ctx)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.FindPaths(0, 2, 0)
				s.ResolveHighlights(0, 2)
				s.Read(func(st State) { _ = st.Graph.TotalCapacity() })
			}
		}()
	}
	wg.Wait()

	// every attack was paired with a restore
	if got := capacity(s, 0, 1); got != 10 {
		t.Errorf("(0,1) = %d after paired attack/restore, want 10", got)
	}
}

func TestLogsOperations(t *testing.T) {
	g, _ := graph.LoadString(scenarioGraph)
	var buf bytes.Buffer
	s, err := New(g, Options{Source: 0, Target: 2, Logger: logging.NewJSONLogger(&buf, logging.InfoLevel)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.BudgetedAttack(context.Background(), Explicit([]graph.EdgeKey{{From: 0, To: 1}}), 4)
	s.Restore(context.Background())
	s.Restore(context.Background())

	out := buf.String()
	for _, msg := range []string{"session started", "attack applied", "graph restored", "restore refused"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log is missing %q:\n%s", msg, out)
		}
	}
	if !strings.Contains(out, s.ID()) {
		t.Error("log lines should carry the session id")
	}
}

func TestViews(t *testing.T) {
	s, _, _ := newSession(t, scenarioGraph)

	if len(s.AffectedPaths()) != 0 || len(s.Report().Edges) != 0 {
		t.Error("fresh session should have nothing to report")
	}

	s.BudgetedAttack(context.Background(), Explicit([]graph.EdgeKey{{From: 1, To: 2}}), 5)

	data := s.GraphData()
	for _, l := range data.Links {
		if l.Key() == (graph.EdgeKey{From: 1, To: 2}) && l.Category != highlight.Attacked {
			t.Errorf("(1,2) category = %s", l.Category)
		}
	}
	if !data.Nodes[0].IsSource || !data.Nodes[0].IsFocus {
		t.Errorf("node 0 = %+v", data.Nodes[0])
	}

	info, ok := s.EdgeInfo(graph.EdgeKey{From: 1, To: 2})
	if !ok || info.Capacity != 0 || info.Previous == nil || *info.Previous != 5 {
		t.Errorf("EdgeInfo = %+v", info)
	}
	if n, ok := s.NodeInfo(2); !ok || len(n.Incoming) != 2 {
		t.Errorf("NodeInfo(2) = %+v", n)
	}

	ap := s.AffectedPaths()
	if len(ap) != 1 || len(ap[0].Nodes) != 3 {
		t.Errorf("AffectedPaths = %+v", ap)
	}
	if rep := s.Report(); rep.Reduction != 5 || len(rep.Edges) != 1 {
		t.Errorf("Report = %+v", rep)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.txt")
	if err := os.WriteFile(path, []byte("0: (1,4,1,1)\nbroken line\n1: (2,3,1,0)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)
	reg := metrics.NewRegistry()

	g, err := LoadFile(path, logger, reg)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if !strings.Contains(buf.String(), `"graph line rejected"`) || !strings.Contains(buf.String(), `"line":2`) {
		t.Errorf("rejected line not logged: %s", buf.String())
	}

	m := &dto.Metric{}
	if err := reg.GraphLoadsTotal.WithLabelValues("partial").Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetCounter().GetValue() != 1 {
		t.Errorf("partial loads = %v, want 1", m.GetCounter().GetValue())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.txt"), nil, reg); err == nil {
		t.Error("missing file should fail")
	}
}
