package paths

import (
	"container/list"
	"strings"

	"github.com/dd0wney/flowattack/pkg/graph"
)

// DefaultMaxPaths caps context path enumeration when callers have no
// preference.
const DefaultMaxPaths = 16

// Path is an ordered sequence of edges forming a simple directed walk.
type Path []graph.EdgeKey

// Nodes returns the node sequence visited by the path.
func (p Path) Nodes() []graph.NodeID {
	if len(p) == 0 {
		return nil
	}
	nodes := make([]graph.NodeID, 0, len(p)+1)
	nodes = append(nodes, p[0].From)
	for _, e := range p {
		nodes = append(nodes, e.To)
	}
	return nodes
}

// Contains reports whether the edge lies on the path.
func (p Path) Contains(key graph.EdgeKey) bool {
	for _, e := range p {
		if e == key {
			return true
		}
	}
	return false
}

// String renders the path with display labels, e.g. "N1 → N2 → N3".
func (p Path) String() string {
	nodes := p.Nodes()
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = graph.Label(n)
	}
	return strings.Join(parts, " → ")
}

// FindPaths enumerates up to maxPaths simple paths from src to dst using only
// edges with positive capacity.
//
// The search is a depth-first traversal that expands successors in
// ascending id order, so identical graph state always yields the same paths
// in the same order. Cycles are pruned with a per-path visited set and the
// depth never exceeds the node count. Nodes that cannot reach dst at all are
// skipped up front.
//
// An empty result is not an error: it covers "no path", unknown endpoints,
// src == dst and maxPaths <= 0.
func FindPaths(g *graph.Graph, src, dst graph.NodeID, maxPaths int) []Path {
	if maxPaths <= 0 || src == dst || !g.HasNode(src) || !g.HasNode(dst) {
		return nil
	}

	canReach := reachesTarget(g, dst)
	if !canReach[src] {
		return nil
	}

	var (
		found   []Path
		stack   = make(Path, 0, 16)
		onPath  = map[graph.NodeID]bool{src: true}
		maxHops = g.NodeCount() - 1
	)

	var walk func(node graph.NodeID)
	walk = func(node graph.NodeID) {
		if len(found) >= maxPaths || len(stack) >= maxHops {
			return
		}
		for _, next := range g.Successors(node) {
			if len(found) >= maxPaths {
				return
			}
			if onPath[next] || !canReach[next] {
				continue
			}
			key := graph.EdgeKey{From: node, To: next}
			if attrs, _ := g.Edge(key); attrs.Capacity <= 0 {
				continue
			}

			stack = append(stack, key)
			if next == dst {
				found = append(found, append(Path(nil), stack...))
			} else {
				onPath[next] = true
				walk(next)
				delete(onPath, next)
			}
			stack = stack[:len(stack)-1]
		}
	}
	walk(src)

	return found
}

// reachesTarget returns the set of nodes with a positive-capacity path to dst
// (dst included), found by a reverse breadth-first search.
func reachesTarget(g *graph.Graph, dst graph.NodeID) map[graph.NodeID]bool {
	seen := map[graph.NodeID]bool{dst: true}
	queue := list.New()
	queue.PushBack(dst)

	for queue.Len() > 0 {
		cur := queue.Remove(queue.Front()).(graph.NodeID)
		for _, prev := range g.Predecessors(cur) {
			if seen[prev] {
				continue
			}
			if attrs, _ := g.Edge(graph.EdgeKey{From: prev, To: cur}); attrs.Capacity <= 0 {
				continue
			}
			seen[prev] = true
			queue.PushBack(prev)
		}
	}
	return seen
}

// EdgeSet collects every edge that lies on any of the paths.
func EdgeSet(ps []Path) map[graph.EdgeKey]bool {
	set := make(map[graph.EdgeKey]bool)
	for _, p := range ps {
		for _, e := range p {
			set[e] = true
		}
	}
	return set
}
