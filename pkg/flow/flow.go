// Package flow computes the source-to-sink maximum flow of a capacitated graph.
// It is a read-only metric used to grade attacks; it never mutates the graph.
package flow

import (
	"container/list"
	"errors"
	"slices"

	"github.com/dd0wney/flowattack/pkg/graph"
)

var (
	ErrSourceNotFound = errors.New("flow: source node not found")
	ErrSinkNotFound   = errors.New("flow: sink node not found")
	ErrSameEndpoints  = errors.New("flow: source and sink are the same node")
)

// Result is a maximum flow and its per-edge decomposition. Flows holds only
// edges that carry a positive amount.
type Result struct {
	Value int64
	Flows map[graph.EdgeKey]int64
}

// Carrying returns the edges with positive flow, ascending by key.
func (r Result) Carrying() []graph.EdgeKey {
	keys := make([]graph.EdgeKey, 0, len(r.Flows))
	for k := range r.Flows {
		keys = append(keys, k)
	}
	return graph.SortKeys(keys)
}

// MaxFlow runs Edmonds-Karp (shortest augmenting paths by BFS) from source to
// sink over edge capacities.
//
// Complexity: O(V · E²)
func MaxFlow(g *graph.Graph, source, sink graph.NodeID) (Result, error) {
	if !g.HasNode(source) {
		return Result{}, ErrSourceNotFound
	}
	if !g.HasNode(sink) {
		return Result{}, ErrSinkNotFound
	}
	if source == sink {
		return Result{}, ErrSameEndpoints
	}

	n := newNetwork(g)
	var total int64
	for {
		path, bottleneck := n.augmentingPath(source, sink)
		if len(path) == 0 {
			break
		}
		for i := 0; i+1 < len(path); i++ {
			n.push(path[i], path[i+1], bottleneck)
		}
		total += bottleneck
	}

	flows := make(map[graph.EdgeKey]int64)
	for k, f := range n.flow {
		if f > 0 {
			flows[k] = f
		}
	}
	return Result{Value: total, Flows: flows}, nil
}

// network tracks flow on the original edges. Residual capacity of u->v is
// cap(u,v) - flow(u,v) + flow(v,u), so antiparallel edges need no special
// casing.
type network struct {
	g    *graph.Graph
	flow map[graph.EdgeKey]int64
}

func newNetwork(g *graph.Graph) *network {
	return &network{g: g, flow: make(map[graph.EdgeKey]int64)}
}

func (n *network) residual(u, v graph.NodeID) int64 {
	var r int64
	if attrs, ok := n.g.Edge(graph.EdgeKey{From: u, To: v}); ok {
		r += attrs.Capacity - n.flow[graph.EdgeKey{From: u, To: v}]
	}
	r += n.flow[graph.EdgeKey{From: v, To: u}]
	return r
}

// push sends amount along u->v, cancelling opposite flow first.
func (n *network) push(u, v graph.NodeID, amount int64) {
	back := graph.EdgeKey{From: v, To: u}
	if f := n.flow[back]; f > 0 {
		cancel := min(f, amount)
		n.flow[back] = f - cancel
		amount -= cancel
	}
	if amount > 0 {
		n.flow[graph.EdgeKey{From: u, To: v}] += amount
	}
}

// neighbors lists every node reachable by a residual arc, ascending.
func (n *network) neighbors(u graph.NodeID) []graph.NodeID {
	succ := n.g.Successors(u)
	pred := n.g.Predecessors(u)
	merged := make([]graph.NodeID, 0, len(succ)+len(pred))
	merged = append(merged, succ...)
	merged = append(merged, pred...)
	slices.Sort(merged)
	return slices.Compact(merged)
}

func (n *network) augmentingPath(source, sink graph.NodeID) ([]graph.NodeID, int64) {
	parent := map[graph.NodeID]graph.NodeID{source: source}
	bottleneck := map[graph.NodeID]int64{}

	queue := list.New()
	queue.PushBack(source)
	for queue.Len() > 0 {
		u := queue.Remove(queue.Front()).(graph.NodeID)
		for _, v := range n.neighbors(u) {
			if _, seen := parent[v]; seen {
				continue
			}
			r := n.residual(u, v)
			if r <= 0 {
				continue
			}
			parent[v] = u
			if u == source {
				bottleneck[v] = r
			} else {
				bottleneck[v] = min(bottleneck[u], r)
			}
			if v == sink {
				path := []graph.NodeID{sink}
				for cur := sink; cur != source; {
					cur = parent[cur]
					path = append(path, cur)
				}
				slices.Reverse(path)
				return path, bottleneck[sink]
			}
			queue.PushBack(v)
		}
	}
	return nil, 0
}
