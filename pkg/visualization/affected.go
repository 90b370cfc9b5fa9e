package visualization

import (
	"cmp"
	"slices"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/paths"
)

// MaxAffectedPaths caps how many attacked edges get a representative path.
const MaxAffectedPaths = 6

// AttackedColor marks the attacked hop of every affected path.
const AttackedColor = "red"

// PathPalette colors affected paths in order, wrapping around.
var PathPalette = []string{"green", "blue", "purple", "cyan", "brown", "magenta"}

// AffectedPaths builds, for each of the first MaxAffectedPaths attacked
// edges (u, v), the route source → u, then u → v, then v → target, using
// fewest-hop paths that ignore capacity. Edges with no route on either side
// are skipped but still consume their palette slot.
func AffectedPaths(g *graph.Graph, res *attack.Result, source, target graph.NodeID) []AffectedPath {
	if res == nil {
		return nil
	}
	attacked := res.Attacked()
	if len(attacked) > MaxAffectedPaths {
		attacked = attacked[:MaxAffectedPaths]
	}

	var out []AffectedPath
	for i, key := range attacked {
		left := paths.ShortestPath(g, source, key.From)
		right := paths.ShortestPath(g, key.To, target)
		if left == nil || right == nil {
			continue
		}

		nodes := append(slices.Clone(left), right...)
		color := PathPalette[i%len(PathPalette)]

		ap := AffectedPath{Attacked: key, Color: color, Nodes: nodes}
		for _, hop := range paths.PathFromNodes(nodes) {
			c := color
			if hop == key {
				c = AttackedColor
			}
			ap.Edges = append(ap.Edges, PathEdge{Edge: hop, Color: c})
		}
		out = append(out, ap)
	}
	return out
}

// Report summarizes the capacity an attack removed, largest reduction
// first.
func Report(res *attack.Result) CapacityReport {
	if res == nil {
		return CapacityReport{Edges: []EdgeChange{}}
	}

	rep := CapacityReport{
		TotalBefore: res.CapacityBefore,
		TotalAfter:  res.CapacityAfter,
		Reduction:   res.CapacityBefore - res.CapacityAfter,
		Percent:     res.ReductionPercent(),
		Edges:       make([]EdgeChange, 0, len(res.Reductions)),
	}
	for _, r := range res.Reductions {
		if r.Amount == 0 {
			continue
		}
		rep.Edges = append(rep.Edges, EdgeChange{
			Edge:      r.Edge,
			Label:     r.Edge.Labelled(),
			Before:    r.Before,
			After:     r.After,
			Reduction: r.Amount,
		})
	}
	slices.SortStableFunc(rep.Edges, func(a, b EdgeChange) int {
		return cmp.Compare(b.Reduction, a.Reduction)
	})
	return rep
}
