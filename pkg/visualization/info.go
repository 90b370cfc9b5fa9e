package visualization

import (
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/history"
)

// DescribeNode lists id's outgoing and incoming edges in ascending order.
// previous and hl may be nil.
func DescribeNode(g *graph.Graph, id graph.NodeID, focus history.Focus,
	previous map[graph.EdgeKey]graph.EdgeAttrs, hl highlight.Set) (NodeInfo, bool) {
	if !g.HasNode(id) {
		return NodeInfo{}, false
	}

	info := NodeInfo{
		Node:     newNode(id, focus),
		Outgoing: []EdgeInfo{},
		Incoming: []EdgeInfo{},
	}
	for _, e := range g.OutEdges(id) {
		info.Outgoing = append(info.Outgoing, edgeInfo(e, previous, hl))
	}
	for _, e := range g.InEdges(id) {
		info.Incoming = append(info.Incoming, edgeInfo(e, previous, hl))
	}
	return info, true
}

// DescribeEdge reports the edge's attributes and whether the last attack
// changed it.
func DescribeEdge(g *graph.Graph, key graph.EdgeKey,
	previous map[graph.EdgeKey]graph.EdgeAttrs, hl highlight.Set) (EdgeInfo, bool) {
	attrs, ok := g.Edge(key)
	if !ok {
		return EdgeInfo{}, false
	}
	return edgeInfo(graph.Edge{EdgeKey: key, EdgeAttrs: attrs}, previous, hl), true
}

func edgeInfo(e graph.Edge, previous map[graph.EdgeKey]graph.EdgeAttrs, hl highlight.Set) EdgeInfo {
	info := EdgeInfo{
		From:      e.From,
		To:        e.To,
		FromLabel: graph.Label(e.From),
		ToLabel:   graph.Label(e.To),
		Capacity:  e.Capacity,
		Weight:    e.Weight,
		Flag:      e.Flag,
		Category:  hl.Of(e.EdgeKey),
	}
	if prev, ok := previous[e.EdgeKey]; ok && prev.Capacity != e.Capacity {
		c := prev.Capacity
		info.Previous = &c
	}
	return info
}
