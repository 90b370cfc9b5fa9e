package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/validation"
)

// EdgeKeys converts request edge references.
func EdgeKeys(refs []validation.EdgeRef) []graph.EdgeKey {
	keys := make([]graph.EdgeKey, len(refs))
	for i, r := range refs {
		keys[i] = graph.EdgeKey{From: graph.NodeID(r.From), To: graph.NodeID(r.To)}
	}
	return keys
}

// BudgetedFromRequest validates req and resolves its selector and budget,
// taking anything the request leaves out from defaults.
func BudgetedFromRequest(req *validation.BudgetedAttackRequest, defaults config.AttackConfig) (Selector, int64, error) {
	if err := validation.ValidateBudgetedAttack(req); err != nil {
		return nil, 0, err
	}

	budget := defaults.Budget
	if req.Budget != nil {
		budget = *req.Budget
	}
	sel, err := selection(req.Targets, req.Select, defaults.BudgetedSelect, req.Flag, defaults.EdgesPerStep, defaults)
	return sel, budget, err
}

// MultiStepFromRequest validates req and resolves its selector and step
// count, taking anything the request leaves out from defaults.
func MultiStepFromRequest(req *validation.MultiStepAttackRequest, defaults config.AttackConfig) (Selector, int, error) {
	if err := validation.ValidateMultiStepAttack(req); err != nil {
		return nil, 0, err
	}

	steps := defaults.Steps
	if req.Steps != nil {
		steps = *req.Steps
	}
	k := defaults.EdgesPerStep
	if req.EdgesPerStep > 0 {
		k = req.EdgesPerStep
	}
	sel, err := selection(req.Targets, req.Select, defaults.MultiSelect, req.Flag, k, defaults)
	return sel, steps, err
}

func selection(targets []validation.EdgeRef, name, fallback string, flag *int, k int, defaults config.AttackConfig) (Selector, error) {
	if len(targets) > 0 || name == validation.SelectExplicit {
		return Explicit(EdgeKeys(targets)), nil
	}
	if name == "" {
		name = fallback
	}
	f := defaults.AttackableFlag
	if flag != nil {
		f = *flag
	}
	return Strategy(name, defaults.MaxPaths, k, f)
}

// ResolveNode parses a node reference: a label such as "N7", a bare id, or
// one of "source", "target" and "center".
func (s *Session) ResolveNode(ref string) (graph.NodeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolveNode(s.g, s.hist.Focus(), ref)
}

func resolveNode(g *graph.Graph, f history.Focus, ref string) (graph.NodeID, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "source":
		return f.Source, nil
	case "target":
		return f.Target, nil
	case "center":
		return f.Center, nil
	}

	id, err := graph.ParseLabel(ref)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", validation.ErrInvalidRequest, err)
	}
	if !g.HasNode(id) {
		return 0, fmt.Errorf("%s: %w", graph.Label(id), ErrUnknownNode)
	}
	return id, nil
}

// Jump centers the view on a node reference as accepted by ResolveNode.
func (s *Session) Jump(ctx context.Context, ref string) (history.Focus, error) {
	if err := validation.Struct(&validation.JumpRequest{Node: ref}); err != nil {
		return s.Focus(), err
	}
	id, err := s.ResolveNode(ref)
	if err != nil {
		return s.Focus(), err
	}
	return s.JumpTo(ctx, id)
}
