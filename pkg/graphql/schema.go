// Package graphql exposes a session over a GraphQL schema: queries for the
// rendered graph, node and edge details, paths and reports; mutations for
// attacks, restore and jumps.
package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

// NewSchema builds the schema for sess. Attack arguments left out of a
// mutation fall back to defaults.
func NewSchema(sess *session.Session, defaults config.AttackConfig) (graphql.Schema, error) {
	r := &resolver{sess: sess, defaults: defaults}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"graph": &graphql.Field{
				Type:    graphDataType,
				Resolve: r.graph,
			},
			"node": &graphql.Field{
				Type: nodeInfoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.node,
			},
			"edge": &graphql.Field{
				Type: edgeType,
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.edge,
			},
			"paths": &graphql.Field{
				Type: graphql.NewList(pathType),
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "source"},
					"to":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "target"},
					"max":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.paths,
			},
			"maxFlow": &graphql.Field{
				Type:    graphql.Int,
				Resolve: r.maxFlow,
			},
			"focus": &graphql.Field{
				Type: focusType,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return focusMap(sess.Focus()), nil
				},
			},
			"historyDepth": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return sess.HistoryLen(), nil
				},
			},
			"lastAttack": &graphql.Field{
				Type: attackType,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return attackMap(sess.LastAttack()), nil
				},
			},
			"report": &graphql.Field{
				Type: reportType,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return reportMap(sess.Report()), nil
				},
			},
			"affectedPaths": &graphql.Field{
				Type:    graphql.NewList(affectedPathType),
				Resolve: r.affectedPaths,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"budgetedAttack": &graphql.Field{
				Type: attackType,
				Args: graphql.FieldConfigArgument{
					"budget":  &graphql.ArgumentConfig{Type: graphql.Int},
					"select":  &graphql.ArgumentConfig{Type: graphql.String},
					"flag":    &graphql.ArgumentConfig{Type: graphql.Int},
					"targets": &graphql.ArgumentConfig{Type: graphql.NewList(edgeInputType)},
				},
				Resolve: r.budgetedAttack,
			},
			"multiStepAttack": &graphql.Field{
				Type: attackType,
				Args: graphql.FieldConfigArgument{
					"steps":        &graphql.ArgumentConfig{Type: graphql.Int},
					"edgesPerStep": &graphql.ArgumentConfig{Type: graphql.Int},
					"select":       &graphql.ArgumentConfig{Type: graphql.String},
					"flag":         &graphql.ArgumentConfig{Type: graphql.Int},
					"targets":      &graphql.ArgumentConfig{Type: graphql.NewList(edgeInputType)},
				},
				Resolve: r.multiStepAttack,
			},
			"restore": &graphql.Field{
				Type:        graphql.Int,
				Description: "Undo the last attack; returns the remaining history depth",
				Resolve:     r.restore,
			},
			"jump": &graphql.Field{
				Type: focusType,
				Args: graphql.FieldConfigArgument{
					"node": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.jump,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

type resolver struct {
	sess     *session.Session
	defaults config.AttackConfig
}

func ctxOf(p graphql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}

func (r *resolver) graph(graphql.ResolveParams) (any, error) {
	return graphDataMap(r.sess.GraphData()), nil
}

func (r *resolver) node(p graphql.ResolveParams) (any, error) {
	id, err := r.sess.ResolveNode(p.Args["id"].(string))
	if err != nil {
		return nil, err
	}
	info, _ := r.sess.NodeInfo(id)
	return nodeInfoMap(info), nil
}

func (r *resolver) edge(p graphql.ResolveParams) (any, error) {
	from, err := r.sess.ResolveNode(p.Args["from"].(string))
	if err != nil {
		return nil, err
	}
	to, err := r.sess.ResolveNode(p.Args["to"].(string))
	if err != nil {
		return nil, err
	}
	info, ok := r.sess.EdgeInfo(graph.EdgeKey{From: from, To: to})
	if !ok {
		return nil, fmt.Errorf("edge %s→%s: %w", graph.Label(from), graph.Label(to), graph.ErrInvalidEdge)
	}
	return edgeMap(info), nil
}

func (r *resolver) paths(p graphql.ResolveParams) (any, error) {
	from, err := r.sess.ResolveNode(p.Args["from"].(string))
	if err != nil {
		return nil, err
	}
	to, err := r.sess.ResolveNode(p.Args["to"].(string))
	if err != nil {
		return nil, err
	}
	max, _ := p.Args["max"].(int)

	ps := r.sess.FindPaths(from, to, max)
	out := make([]any, len(ps))
	for i, path := range ps {
		out[i] = pathMap(path)
	}
	return out, nil
}

func (r *resolver) maxFlow(graphql.ResolveParams) (any, error) {
	res, err := r.sess.MaxFlow()
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (r *resolver) affectedPaths(graphql.ResolveParams) (any, error) {
	aps := r.sess.AffectedPaths()
	out := make([]any, len(aps))
	for i, ap := range aps {
		out[i] = affectedMap(ap)
	}
	return out, nil
}

func (r *resolver) budgetedAttack(p graphql.ResolveParams) (any, error) {
	req := validation.BudgetedAttackRequest{
		Targets: edgeRefs(p.Args["targets"]),
		Flag:    intArg(p.Args, "flag"),
	}
	if b := intArg(p.Args, "budget"); b != nil {
		budget := int64(*b)
		req.Budget = &budget
	}
	req.Select, _ = p.Args["select"].(string)

	sel, budget, err := session.BudgetedFromRequest(&req, r.defaults)
	if err != nil {
		return nil, err
	}
	res, err := r.sess.BudgetedAttack(ctxOf(p), sel, budget)
	if err != nil {
		return nil, err
	}
	return attackMap(res), nil
}

func (r *resolver) multiStepAttack(p graphql.ResolveParams) (any, error) {
	req := validation.MultiStepAttackRequest{
		Targets: edgeRefs(p.Args["targets"]),
		Steps:   intArg(p.Args, "steps"),
		Flag:    intArg(p.Args, "flag"),
	}
	if k := intArg(p.Args, "edgesPerStep"); k != nil {
		req.EdgesPerStep = *k
	}
	req.Select, _ = p.Args["select"].(string)

	sel, steps, err := session.MultiStepFromRequest(&req, r.defaults)
	if err != nil {
		return nil, err
	}
	res, err := r.sess.MultiStepAttack(ctxOf(p), sel, steps)
	if err != nil {
		return nil, err
	}
	return attackMap(res), nil
}

func (r *resolver) restore(p graphql.ResolveParams) (any, error) {
	if err := r.sess.Restore(ctxOf(p)); err != nil {
		return nil, err
	}
	return r.sess.HistoryLen(), nil
}

func (r *resolver) jump(p graphql.ResolveParams) (any, error) {
	f, err := r.sess.Jump(ctxOf(p), p.Args["node"].(string))
	if err != nil {
		return nil, err
	}
	return focusMap(f), nil
}

func intArg(args map[string]any, name string) *int {
	if v, ok := args[name].(int); ok {
		return &v
	}
	return nil
}

func edgeRefs(v any) []validation.EdgeRef {
	list, _ := v.([]any)
	refs := make([]validation.EdgeRef, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		from, _ := m["from"].(int)
		to, _ := m["to"].(int)
		refs = append(refs, validation.EdgeRef{From: from, To: to})
	}
	return refs
}
