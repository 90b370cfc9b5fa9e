package graphql

import (
	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/paths"
	"github.com/dd0wney/flowattack/pkg/visualization"
)

// Resolvers hand graphql-go plain maps so named integer types never reach
// its scalar coercion.

func nodeMap(n visualization.Node) map[string]any {
	return map[string]any{
		"id":       int(n.ID),
		"label":    n.Label,
		"isSource": n.IsSource,
		"isTarget": n.IsTarget,
		"isFocus":  n.IsFocus,
	}
}

func linkMap(l visualization.Link) map[string]any {
	return map[string]any{
		"source":        int(l.Source),
		"target":        int(l.Target),
		"capacity":      l.Capacity,
		"weight":        l.Weight,
		"flag":          l.Flag,
		"color":         l.Color,
		"normCapacity":  l.NormCapacity,
		"category":      l.Category.String(),
		"categoryColor": l.CategoryColor,
	}
}

func graphDataMap(d visualization.GraphData) map[string]any {
	nodes := make([]any, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = nodeMap(n)
	}
	links := make([]any, len(d.Links))
	for i, l := range d.Links {
		links[i] = linkMap(l)
	}
	return map[string]any{"nodes": nodes, "links": links}
}

func edgeMap(e visualization.EdgeInfo) map[string]any {
	m := map[string]any{
		"from":      int(e.From),
		"to":        int(e.To),
		"fromLabel": e.FromLabel,
		"toLabel":   e.ToLabel,
		"capacity":  e.Capacity,
		"weight":    e.Weight,
		"flag":      e.Flag,
		"category":  e.Category.String(),
	}
	if e.Previous != nil {
		m["previous"] = *e.Previous
	}
	return m
}

func nodeInfoMap(info visualization.NodeInfo) map[string]any {
	out := make([]any, len(info.Outgoing))
	for i, e := range info.Outgoing {
		out[i] = edgeMap(e)
	}
	in := make([]any, len(info.Incoming))
	for i, e := range info.Incoming {
		in[i] = edgeMap(e)
	}
	return map[string]any{"node": nodeMap(info.Node), "outgoing": out, "incoming": in}
}

func labels(ids []graph.NodeID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = graph.Label(id)
	}
	return out
}

func pathMap(p paths.Path) map[string]any {
	return map[string]any{"nodes": labels(p.Nodes()), "text": p.String()}
}

func focusMap(f history.Focus) map[string]any {
	return map[string]any{
		"source": graph.Label(f.Source),
		"target": graph.Label(f.Target),
		"center": graph.Label(f.Center),
	}
}

func attackMap(r *attack.Result) map[string]any {
	if r == nil {
		return nil
	}
	targets := make([]any, len(r.Targets))
	for i, k := range r.Targets {
		targets[i] = k.Labelled()
	}
	reductions := make([]any, len(r.Reductions))
	for i, red := range r.Reductions {
		reductions[i] = map[string]any{
			"edge":   red.Edge.Labelled(),
			"before": red.Before,
			"after":  red.After,
			"amount": red.Amount,
		}
	}
	steps := make([]any, len(r.StepTotals))
	for i, s := range r.StepTotals {
		steps[i] = s
	}

	m := map[string]any{
		"id":              r.ID,
		"kind":            string(r.Kind),
		"snapshotId":      r.SnapshotID,
		"targets":         targets,
		"reductions":      reductions,
		"budgetInitial":   r.BudgetInitial,
		"budgetRemaining": r.BudgetRemaining,
		"stepsRequested":  r.StepsRequested,
		"stepsExecuted":   r.StepsExecuted,
		"stepTotals":      steps,
		"capacityBefore":  r.CapacityBefore,
		"capacityAfter":   r.CapacityAfter,
	}
	if r.Impact != nil {
		m["impact"] = map[string]any{
			"flowBefore": r.Impact.FlowBefore,
			"flowAfter":  r.Impact.FlowAfter,
			"dropRatio":  r.Impact.DropRatio,
			"severity":   r.Impact.Severity.String(),
		}
	}
	return m
}

func reportMap(rep visualization.CapacityReport) map[string]any {
	edges := make([]any, len(rep.Edges))
	for i, e := range rep.Edges {
		edges[i] = map[string]any{
			"edge":   e.Label,
			"before": e.Before,
			"after":  e.After,
			"amount": e.Reduction,
		}
	}
	return map[string]any{
		"totalBefore": rep.TotalBefore,
		"totalAfter":  rep.TotalAfter,
		"reduction":   rep.Reduction,
		"percent":     rep.Percent,
		"edges":       edges,
	}
}

func affectedMap(ap visualization.AffectedPath) map[string]any {
	return map[string]any{
		"attacked": ap.Attacked.Labelled(),
		"color":    ap.Color,
		"nodes":    labels(ap.Nodes),
	}
}
