package visualization

import (
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/history"
)

// minNormCapacity keeps thin edges visible.
const minNormCapacity = 0.1

// BaseColor shades an edge by capacity: heavier edges are darker.
func BaseColor(capacity int64) string {
	switch {
	case capacity >= 25:
		return "#222"
	case capacity >= 15:
		return "#555"
	default:
		return "#999"
	}
}

// CategoryColor is the overlay color for a highlight category. Untouched
// edges have none and keep their base color.
func CategoryColor(c highlight.Category) string {
	switch c {
	case highlight.Attacked:
		return "red"
	case highlight.ContextForward:
		return "green"
	case highlight.ContextBackward:
		return "purple"
	}
	return ""
}

// NormCapacity scales capacity into [0.1, 1] against the largest capacity in
// the graph.
func NormCapacity(capacity, maxCapacity int64) float64 {
	if maxCapacity <= 0 {
		maxCapacity = 1
	}
	return max(float64(capacity)/float64(maxCapacity), minNormCapacity)
}

// BuildGraphData renders every node and edge of g. hl may be nil, in which
// case every link is untouched.
func BuildGraphData(g *graph.Graph, focus history.Focus, hl highlight.Set) GraphData {
	maxCap := g.MaxCapacity()

	nodes := g.Nodes()
	data := GraphData{
		Nodes: make([]Node, 0, len(nodes)),
		Links: make([]Link, 0, g.EdgeCount()),
	}
	for _, id := range nodes {
		data.Nodes = append(data.Nodes, newNode(id, focus))
	}
	for _, e := range g.Edges() {
		data.Links = append(data.Links, newLink(e, maxCap, hl.Of(e.EdgeKey)))
	}
	return data
}

func newNode(id graph.NodeID, focus history.Focus) Node {
	return Node{
		ID:       id,
		Label:    graph.Label(id),
		IsSource: id == focus.Source,
		IsTarget: id == focus.Target,
		IsFocus:  id == focus.Center,
	}
}

func newLink(e graph.Edge, maxCap int64, cat highlight.Category) Link {
	return Link{
		Source:        e.From,
		Target:        e.To,
		Capacity:      e.Capacity,
		Weight:        e.Weight,
		Flag:          e.Flag,
		Color:         BaseColor(e.Capacity),
		NormCapacity:  NormCapacity(e.Capacity, maxCap),
		Category:      cat,
		CategoryColor: CategoryColor(cat),
	}
}

// Subgraph keeps only the nodes and links that touch the given edges. Links
// keep their colors.
func (d GraphData) Subgraph(keys []graph.EdgeKey) GraphData {
	want := make(map[graph.EdgeKey]bool, len(keys))
	nodes := make(map[graph.NodeID]bool)
	for _, k := range keys {
		want[k] = true
		nodes[k.From] = true
		nodes[k.To] = true
	}

	var out GraphData
	for _, n := range d.Nodes {
		if nodes[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, l := range d.Links {
		if want[l.Key()] {
			out.Links = append(out.Links, l)
		}
	}
	return out
}
