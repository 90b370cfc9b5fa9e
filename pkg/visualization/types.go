// Package visualization builds the display payloads a front end renders:
// the colored graph, node and edge details, affected paths and the
// capacity report.
package visualization

import (
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
)

// Node is one vertex of the rendered graph.
type Node struct {
	ID       graph.NodeID `json:"id"`
	Label    string       `json:"label"`
	IsSource bool         `json:"isSource"`
	IsTarget bool         `json:"isTarget"`
	IsFocus  bool         `json:"isFocus"`
}

// Link is one edge of the rendered graph.
type Link struct {
	Source        graph.NodeID       `json:"source"`
	Target        graph.NodeID       `json:"target"`
	Capacity      int64              `json:"capacity"`
	Weight        float64            `json:"weight"`
	Flag          int                `json:"flag"`
	Color         string             `json:"color"`
	NormCapacity  float64            `json:"normCapacity"`
	Category      highlight.Category `json:"category"`
	CategoryColor string             `json:"categoryColor,omitempty"`
}

// Key returns the edge the link draws.
func (l Link) Key() graph.EdgeKey {
	return graph.EdgeKey{From: l.Source, To: l.Target}
}

// GraphData is the complete render payload.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// EdgeInfo describes one edge for a details panel.
type EdgeInfo struct {
	From      graph.NodeID       `json:"from"`
	To        graph.NodeID       `json:"to"`
	FromLabel string             `json:"fromLabel"`
	ToLabel   string             `json:"toLabel"`
	Capacity  int64              `json:"capacity"`
	Weight    float64            `json:"weight"`
	Flag      int                `json:"flag"`
	Category  highlight.Category `json:"category"`
	// Previous is the capacity before the last attack, set only when that
	// attack changed it.
	Previous *int64 `json:"previous,omitempty"`
}

// NodeInfo describes one node and its incident edges.
type NodeInfo struct {
	Node     Node       `json:"node"`
	Outgoing []EdgeInfo `json:"outgoing"`
	Incoming []EdgeInfo `json:"incoming"`
}

// PathEdge is one colored hop of an affected path.
type PathEdge struct {
	Edge  graph.EdgeKey `json:"edge"`
	Color string        `json:"color"`
}

// AffectedPath is a representative source-to-target route through one
// attacked edge.
type AffectedPath struct {
	Attacked graph.EdgeKey  `json:"attacked"`
	Color    string         `json:"color"`
	Nodes    []graph.NodeID `json:"nodes"`
	Edges    []PathEdge     `json:"edges"`
}

// EdgeChange is one row of the capacity report.
type EdgeChange struct {
	Edge      graph.EdgeKey `json:"edge"`
	Label     string        `json:"label"`
	Before    int64         `json:"before"`
	After     int64         `json:"after"`
	Reduction int64         `json:"reduction"`
}

// CapacityReport summarizes what an attack removed.
type CapacityReport struct {
	TotalBefore int64        `json:"totalBefore"`
	TotalAfter  int64        `json:"totalAfter"`
	Reduction   int64        `json:"reduction"`
	Percent     float64      `json:"percent"`
	Edges       []EdgeChange `json:"edges"`
}
