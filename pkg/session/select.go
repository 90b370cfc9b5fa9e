package session

import (
	"fmt"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/paths"
	"github.com/dd0wney/flowattack/pkg/validation"
)

// Selector picks attack targets from the graph as it is at attack time. It
// runs under the session's write lock, so the targets it returns are exactly
// the ones the attack sees.
type Selector func(g *graph.Graph, focus history.Focus) ([]graph.EdgeKey, error)

// Explicit attacks the given edges.
func Explicit(keys []graph.EdgeKey) Selector {
	return func(*graph.Graph, history.Focus) ([]graph.EdgeKey, error) {
		return keys, nil
	}
}

// FlowEdges attacks the edges carrying source-to-target max flow.
func FlowEdges(flag int) Selector {
	return func(g *graph.Graph, f history.Focus) ([]graph.EdgeKey, error) {
		keys, err := attack.FlowTargets(g, f.Source, f.Target)
		if err != nil {
			return nil, err
		}
		return attack.FilterFlag(g, keys, flag), nil
	}
}

// PathEdges attacks the edges on the bounded source-to-target paths.
func PathEdges(maxPaths, flag int) Selector {
	return func(g *graph.Graph, f history.Focus) ([]graph.EdgeKey, error) {
		keys := attack.PathTargets(paths.FindPaths(g, f.Source, f.Target, maxPaths))
		return attack.FilterFlag(g, keys, flag), nil
	}
}

// TopCapacity attacks the k highest-capacity edges the flag admits.
func TopCapacity(k, flag int) Selector {
	return func(g *graph.Graph, _ history.Focus) ([]graph.EdgeKey, error) {
		return attack.TopCapacityAmong(g, attack.FilterFlag(g, g.Keys(), flag), k), nil
	}
}

// Strategy resolves a named selection strategy.
func Strategy(name string, maxPaths, k, flag int) (Selector, error) {
	switch name {
	case validation.SelectExplicit:
		return Explicit(nil), nil
	case validation.SelectFlow:
		return FlowEdges(flag), nil
	case validation.SelectPaths:
		return PathEdges(maxPaths, flag), nil
	case validation.SelectCapacity:
		return TopCapacity(k, flag), nil
	}
	return nil, fmt.Errorf("%w: unknown target selection %q", validation.ErrInvalidRequest, name)
}
