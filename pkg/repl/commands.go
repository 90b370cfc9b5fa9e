package repl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

func (r *REPL) showHelp() {
	fmt.Fprint(r.out, `Commands:
  stats                         graph size, focus, history depth, max flow
  node <node>                   incoming and outgoing edges of a node
  edge <from> <to>              one edge with its highlight category
  paths [from] [to] [max]       enumerate positive-capacity paths
  flow                          max flow between source and target
  budgeted [budget] [sel|edges] budgeted attack, e.g. "budgeted 40 capacity"
  multistep [steps] [sel|edges] multi-step attack, e.g. "multistep 2 N1:N2"
  restore                       undo the last attack
  jump <node> | source | target move the view center
  highlights                    attacked and context edges
  report                        capacity change per attacked edge
  affected                      paths through the attacked edges
  exit                          leave

Nodes are labels (N1) or ids (0). Strategies: flow, paths, capacity, explicit.
`)
}

func (r *REPL) showStats() error {
	var (
		nodes, edges, depth int
		capacity            int64
		f                   = r.sess.Focus()
	)
	r.sess.Read(func(st session.State) {
		nodes = st.Graph.NodeCount()
		edges = st.Graph.EdgeCount()
		capacity = st.Graph.TotalCapacity()
		depth = st.HistoryDepth
	})

	fmt.Fprintf(r.out, "Nodes:     %d\n", nodes)
	fmt.Fprintf(r.out, "Edges:     %d\n", edges)
	fmt.Fprintf(r.out, "Capacity:  %d\n", capacity)
	fmt.Fprintf(r.out, "Focus:     %s → %s (center %s)\n", graph.Label(f.Source), graph.Label(f.Target), graph.Label(f.Center))
	fmt.Fprintf(r.out, "History:   %d\n", depth)
	if res, err := r.sess.MaxFlow(); err == nil {
		fmt.Fprintf(r.out, "Max flow:  %d\n", res.Value)
	}
	return nil
}

func (r *REPL) showNode(ref string) error {
	id, err := r.sess.ResolveNode(ref)
	if err != nil {
		return err
	}
	info, _ := r.sess.NodeInfo(id)
	fmt.Fprintf(r.out, "%s (id %d)\n", info.Node.Label, info.Node.ID)
	fmt.Fprintf(r.out, "  outgoing: %d\n", len(info.Outgoing))
	for _, e := range info.Outgoing {
		fmt.Fprintf(r.out, "    → %-6s capacity %-6d weight %-6g flag %d %s\n", e.ToLabel, e.Capacity, e.Weight, e.Flag, categoryNote(e.Category))
	}
	fmt.Fprintf(r.out, "  incoming: %d\n", len(info.Incoming))
	for _, e := range info.Incoming {
		fmt.Fprintf(r.out, "    ← %-6s capacity %-6d weight %-6g flag %d %s\n", e.FromLabel, e.Capacity, e.Weight, e.Flag, categoryNote(e.Category))
	}
	return nil
}

func categoryNote(c highlight.Category) string {
	if c == highlight.Untouched {
		return ""
	}
	return "[" + c.String() + "]"
}

func (r *REPL) showEdge(fromRef, toRef string) error {
	from, err := r.sess.ResolveNode(fromRef)
	if err != nil {
		return err
	}
	to, err := r.sess.ResolveNode(toRef)
	if err != nil {
		return err
	}
	key := graph.EdgeKey{From: from, To: to}
	info, ok := r.sess.EdgeInfo(key)
	if !ok {
		return fmt.Errorf("edge %s: %w", key.Labelled(), graph.ErrInvalidEdge)
	}

	fmt.Fprintf(r.out, "%s→%s capacity %d weight %g flag %d category %s\n",
		info.FromLabel, info.ToLabel, info.Capacity, info.Weight, info.Flag, info.Category)
	if info.Previous != nil {
		fmt.Fprintf(r.out, "  before last attack: %d\n", *info.Previous)
	}
	return nil
}

func (r *REPL) showPaths(args []string) error {
	fromRef, toRef, max := "source", "target", r.defaults.MaxPaths
	if len(args) > 0 {
		fromRef = args[0]
	}
	if len(args) > 1 {
		toRef = args[1]
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			return usage("paths [from] [to] [max]")
		}
		max = n
	}

	from, err := r.sess.ResolveNode(fromRef)
	if err != nil {
		return err
	}
	to, err := r.sess.ResolveNode(toRef)
	if err != nil {
		return err
	}

	ps := r.sess.FindPaths(from, to, max)
	if len(ps) == 0 {
		fmt.Fprintf(r.out, "No path from %s to %s\n", graph.Label(from), graph.Label(to))
		return nil
	}
	for i, p := range ps {
		fmt.Fprintf(r.out, "%3d. %s\n", i+1, p)
	}
	fmt.Fprintf(r.out, "%d path(s)\n", len(ps))
	return nil
}

func (r *REPL) showFlow() error {
	res, err := r.sess.MaxFlow()
	if err != nil {
		return err
	}
	f := r.sess.Focus()
	fmt.Fprintf(r.out, "Max flow %s → %s: %d\n", graph.Label(f.Source), graph.Label(f.Target), res.Value)
	for _, k := range res.Carrying() {
		fmt.Fprintf(r.out, "  %-12s %d\n", k.Labelled(), res.Flows[k])
	}
	return nil
}

func (r *REPL) budgeted(ctx context.Context, args []string) error {
	amount, sel, targets, err := attackArgs(args)
	if err != nil {
		return err
	}
	req := validation.BudgetedAttackRequest{Targets: targets, Budget: amount, Select: sel}
	selector, budget, err := session.BudgetedFromRequest(&req, r.defaults)
	if err != nil {
		return err
	}
	res, err := r.sess.BudgetedAttack(ctx, selector, budget)
	if err != nil {
		return err
	}
	PrintResult(r.out, res)
	return nil
}

func (r *REPL) multiStep(ctx context.Context, args []string) error {
	amount, sel, targets, err := attackArgs(args)
	if err != nil {
		return err
	}
	req := validation.MultiStepAttackRequest{Targets: targets, Select: sel}
	if amount != nil {
		steps := int(*amount)
		req.Steps = &steps
	}
	selector, steps, err := session.MultiStepFromRequest(&req, r.defaults)
	if err != nil {
		return err
	}
	res, err := r.sess.MultiStepAttack(ctx, selector, steps)
	if err != nil {
		return err
	}
	PrintResult(r.out, res)
	return nil
}

func (r *REPL) restore(ctx context.Context) error {
	if err := r.sess.Restore(ctx); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Restored. History depth %d\n", r.sess.HistoryLen())
	return nil
}

func (r *REPL) jump(ctx context.Context, ref string) error {
	f, err := r.sess.Jump(ctx, ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "View centered on %s\n", graph.Label(f.Center))
	return nil
}

func (r *REPL) showHighlights() error {
	f := r.sess.Focus()
	set := r.sess.ResolveHighlights(f.Source, f.Target)
	for _, c := range []highlight.Category{highlight.Attacked, highlight.ContextForward, highlight.ContextBackward} {
		keys := set.Edges(c)
		fmt.Fprintf(r.out, "%s (%d):", c, len(keys))
		for _, k := range keys {
			fmt.Fprintf(r.out, " %s", k.Labelled())
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *REPL) showReport() {
	rep := r.sess.Report()
	if len(rep.Edges) == 0 {
		fmt.Fprintln(r.out, "No attack to report")
		return
	}
	fmt.Fprintf(r.out, "Total capacity %d → %d (-%d, %.1f%%)\n", rep.TotalBefore, rep.TotalAfter, rep.Reduction, rep.Percent)
	for _, e := range rep.Edges {
		fmt.Fprintf(r.out, "  %-12s %6d → %-6d -%d\n", e.Label, e.Before, e.After, e.Reduction)
	}
}

func (r *REPL) showAffected() {
	aps := r.sess.AffectedPaths()
	if len(aps) == 0 {
		fmt.Fprintln(r.out, "No affected paths")
		return
	}
	for _, ap := range aps {
		labels := make([]string, len(ap.Nodes))
		for i, n := range ap.Nodes {
			labels[i] = graph.Label(n)
		}
		fmt.Fprintf(r.out, "  %-8s %-12s %v\n", ap.Color, ap.Attacked.Labelled(), labels)
	}
}
