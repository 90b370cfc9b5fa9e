package visualization

import (
	"math"
	"reflect"
	"testing"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/history"
)

const scenarioGraph = `0: (1,10,1.0,1) (2,10,1.0,1)
1: (2,5,1.0,1)
`

func load(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.LoadString(scenarioGraph)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	return g
}

func attacked(t *testing.T, g *graph.Graph) (*attack.Result, map[graph.EdgeKey]graph.EdgeAttrs) {
	t.Helper()
	before := g.Attrs()
	res, err := attack.ApplyBudgeted(g, nil, []graph.EdgeKey{{From: 0, To: 1}, {From: 0, To: 2}}, 15)
	if err != nil {
		t.Fatalf("ApplyBudgeted failed: %v", err)
	}
	return res, before
}

func TestBaseColor(t *testing.T) {
	tests := []struct {
		capacity int64
		want     string
	}{
		{40, "#222"},
		{25, "#222"},
		{24, "#555"},
		{15, "#555"},
		{14, "#999"},
		{0, "#999"},
	}
	for _, tt := range tests {
		if got := BaseColor(tt.capacity); got != tt.want {
			t.Errorf("BaseColor(%d) = %s, want %s", tt.capacity, got, tt.want)
		}
	}
}

func TestNormCapacity(t *testing.T) {
	if got := NormCapacity(5, 10); got != 0.5 {
		t.Errorf("NormCapacity(5,10) = %v", got)
	}
	if got := NormCapacity(0, 10); got != 0.1 {
		t.Errorf("zero capacity should clamp to 0.1, got %v", got)
	}
	if got := NormCapacity(0, 0); got != 0.1 {
		t.Errorf("all-zero graph should clamp to 0.1, got %v", got)
	}
}

func TestBuildGraphData(t *testing.T) {
	g := load(t)
	focus := history.Focus{Source: 0, Target: 2, Center: 1}

	data := BuildGraphData(g, focus, nil)
	if len(data.Nodes) != 3 || len(data.Links) != 3 {
		t.Fatalf("got %d nodes and %d links", len(data.Nodes), len(data.Links))
	}

	want := Node{ID: 1, Label: "N2", IsFocus: true}
	if data.Nodes[1] != want {
		t.Errorf("node 1 = %+v, want %+v", data.Nodes[1], want)
	}
	if !data.Nodes[0].IsSource || !data.Nodes[2].IsTarget {
		t.Error("source and target flags missing")
	}

	l := data.Links[2]
	if l.Key() != (graph.EdgeKey{From: 1, To: 2}) || l.NormCapacity != 0.5 || l.Color != "#999" {
		t.Errorf("link (1,2) = %+v", l)
	}
	if l.Category != highlight.Untouched || l.CategoryColor != "" {
		t.Errorf("link without highlights = %+v", l)
	}
}

func TestBuildGraphData_Highlights(t *testing.T) {
	g := load(t)
	_, before := attacked(t, g)
	hl := highlight.Resolve(g, before, 0, 2, 16)

	data := BuildGraphData(g, history.Focus{Source: 0, Target: 2}, hl)
	colors := map[graph.EdgeKey]string{}
	for _, l := range data.Links {
		colors[l.Key()] = l.CategoryColor
	}
	if colors[graph.EdgeKey{From: 0, To: 1}] != "red" || colors[graph.EdgeKey{From: 0, To: 2}] != "red" {
		t.Errorf("attacked links should be red: %v", colors)
	}

	sub := data.Subgraph([]graph.EdgeKey{{From: 0, To: 1}})
	if len(sub.Nodes) != 2 || len(sub.Links) != 1 || sub.Links[0].CategoryColor != "red" {
		t.Errorf("Subgraph = %+v", sub)
	}
}

func TestDescribeNode(t *testing.T) {
	g := load(t)
	_, before := attacked(t, g)

	info, ok := DescribeNode(g, 1, history.Focus{Source: 0, Target: 2}, before, nil)
	if !ok {
		t.Fatal("node 1 not found")
	}
	if len(info.Outgoing) != 1 || len(info.Incoming) != 1 {
		t.Fatalf("info = %+v", info)
	}
	in := info.Incoming[0]
	if in.FromLabel != "N1" || in.Capacity != 0 || in.Previous == nil || *in.Previous != 10 {
		t.Errorf("incoming edge = %+v", in)
	}
	if info.Outgoing[0].Previous != nil {
		t.Error("unchanged edge should have no previous capacity")
	}

	if _, ok := DescribeNode(g, 9, history.Focus{}, nil, nil); ok {
		t.Error("unknown node should not be described")
	}
}

func TestDescribeEdge(t *testing.T) {
	g := load(t)
	info, ok := DescribeEdge(g, graph.EdgeKey{From: 1, To: 2}, nil, nil)
	if !ok || info.Capacity != 5 || info.ToLabel != "N3" {
		t.Errorf("DescribeEdge = %+v, %v", info, ok)
	}
	if _, ok := DescribeEdge(g, graph.EdgeKey{From: 2, To: 1}, nil, nil); ok {
		t.Error("missing edge should not be described")
	}
}

func TestAffectedPaths(t *testing.T) {
	g := load(t)
	res, _ := attacked(t, g)

	got := AffectedPaths(g, res, 0, 2)
	want := []AffectedPath{
		{
			Attacked: graph.EdgeKey{From: 0, To: 1},
			Color:    "green",
			Nodes:    []graph.NodeID{0, 1, 2},
			Edges: []PathEdge{
				{Edge: graph.EdgeKey{From: 0, To: 1}, Color: "red"},
				{Edge: graph.EdgeKey{From: 1, To: 2}, Color: "green"},
			},
		},
		{
			Attacked: graph.EdgeKey{From: 0, To: 2},
			Color:    "blue",
			Nodes:    []graph.NodeID{0, 2},
			Edges:    []PathEdge{{Edge: graph.EdgeKey{From: 0, To: 2}, Color: "red"}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AffectedPaths = %+v\nwant %+v", got, want)
	}

	if AffectedPaths(g, nil, 0, 2) != nil {
		t.Error("no attack should give no paths")
	}
}

func TestAffectedPaths_Cap(t *testing.T) {
	g := graph.New()
	var targets []graph.EdgeKey
	for i := 1; i <= 8; i++ {
		k := graph.EdgeKey{From: 0, To: graph.NodeID(i)}
		g.PutEdge(k, graph.EdgeAttrs{Capacity: 4})
		g.PutEdge(graph.EdgeKey{From: graph.NodeID(i), To: 9}, graph.EdgeAttrs{Capacity: 4})
		targets = append(targets, k)
	}
	res, err := attack.ApplyMultiStep(g, nil, targets, 1)
	if err != nil {
		t.Fatalf("ApplyMultiStep failed: %v", err)
	}

	got := AffectedPaths(g, res, 0, 9)
	if len(got) != MaxAffectedPaths {
		t.Fatalf("got %d paths, want %d", len(got), MaxAffectedPaths)
	}
	if got[5].Color != "magenta" {
		t.Errorf("sixth path color = %s", got[5].Color)
	}
}

func TestReport(t *testing.T) {
	g := load(t)
	res, _ := attacked(t, g)

	rep := Report(res)
	if rep.TotalBefore != 25 || rep.TotalAfter != 10 || rep.Reduction != 15 || math.Abs(rep.Percent-60) > 1e-9 {
		t.Errorf("report totals = %+v", rep)
	}
	if len(rep.Edges) != 2 || rep.Edges[0].Reduction != 10 || rep.Edges[1].Label != "N1→N3" {
		t.Errorf("report edges = %+v", rep.Edges)
	}

	if empty := Report(nil); len(empty.Edges) != 0 || empty.Reduction != 0 {
		t.Errorf("Report(nil) = %+v", empty)
	}
}
