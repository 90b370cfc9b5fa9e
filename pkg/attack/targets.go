package attack

import (
	"slices"

	"github.com/dd0wney/flowattack/pkg/flow"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/paths"
)

// FlowTargets returns the edges that carry flow in a maximum flow from
// source to sink, ascending by key. These are the edges the budgeted attack
// of the interactive tool spends its budget on.
func FlowTargets(g *graph.Graph, source, sink graph.NodeID) ([]graph.EdgeKey, error) {
	res, err := flow.MaxFlow(g, source, sink)
	if err != nil {
		return nil, err
	}
	return res.Carrying(), nil
}

// TopCapacityTargets returns the k edges with the highest capacity, ties
// broken by ascending key. Edges already at zero are never chosen.
func TopCapacityTargets(g *graph.Graph, k int) []graph.EdgeKey {
	return TopCapacityAmong(g, g.Keys(), k)
}

// TopCapacityAmong ranks only the given candidates, as TopCapacityTargets
// does. Unknown candidates are ignored.
func TopCapacityAmong(g *graph.Graph, candidates []graph.EdgeKey, k int) []graph.EdgeKey {
	if k <= 0 {
		return nil
	}
	edges := make([]graph.Edge, 0, len(candidates))
	for _, key := range candidates {
		if attrs, ok := g.Edge(key); ok && attrs.Capacity > 0 {
			edges = append(edges, graph.Edge{EdgeKey: key, EdgeAttrs: attrs})
		}
	}
	slices.SortFunc(edges, func(a, b graph.Edge) int {
		switch {
		case a.Capacity > b.Capacity:
			return -1
		case a.Capacity < b.Capacity:
			return 1
		}
		return a.EdgeKey.Compare(b.EdgeKey)
	})

	keys := make([]graph.EdgeKey, 0, min(k, len(edges)))
	for _, e := range edges[:min(k, len(edges))] {
		keys = append(keys, e.EdgeKey)
	}
	return graph.SortKeys(keys)
}

// PathTargets returns every edge on any of the paths, ascending by key.
func PathTargets(ps []paths.Path) []graph.EdgeKey {
	set := paths.EdgeSet(ps)
	keys := make([]graph.EdgeKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return graph.SortKeys(keys)
}

// FilterFlag keeps the targets whose flag equals flag. A negative flag keeps
// everything. Unknown edges are dropped.
func FilterFlag(g *graph.Graph, targets []graph.EdgeKey, flag int) []graph.EdgeKey {
	kept := make([]graph.EdgeKey, 0, len(targets))
	for _, key := range targets {
		attrs, ok := g.Edge(key)
		if !ok {
			continue
		}
		if flag < 0 || attrs.Flag == flag {
			kept = append(kept, key)
		}
	}
	return kept
}
