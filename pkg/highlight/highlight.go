// Package highlight classifies edges for display after an attack.
package highlight

import (
	"fmt"
	"strings"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/paths"
)

// Category is the display class of an edge. Higher values win when an edge
// qualifies for more than one.
type Category int

const (
	Untouched Category = iota
	ContextBackward
	ContextForward
	Attacked
)

func (c Category) String() string {
	switch c {
	case Attacked:
		return "attacked"
	case ContextForward:
		return "context-forward"
	case ContextBackward:
		return "context-backward"
	default:
		return "untouched"
	}
}

// MarshalText renders the category by name in JSON payloads.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "untouched":
		return Untouched, nil
	case "context-backward":
		return ContextBackward, nil
	case "context-forward":
		return ContextForward, nil
	case "attacked":
		return Attacked, nil
	}
	return Untouched, fmt.Errorf("unknown highlight category %q", s)
}

// Set maps every edge of a graph to its category.
type Set map[graph.EdgeKey]Category

// Of returns the category of key; edges outside the set are untouched.
func (s Set) Of(key graph.EdgeKey) Category {
	return s[key]
}

// Count returns how many edges fall into c.
func (s Set) Count(c Category) int {
	n := 0
	for _, cat := range s {
		if cat == c {
			n++
		}
	}
	return n
}

// Edges returns the edges in category c, ascending by key.
func (s Set) Edges(c Category) []graph.EdgeKey {
	var keys []graph.EdgeKey
	for k, cat := range s {
		if cat == c {
			keys = append(keys, k)
		}
	}
	return graph.SortKeys(keys)
}

// Resolve classifies every edge of g.
//
// An edge is attacked when its capacity is strictly lower than in previous;
// previous == nil means no attack happened. Context-forward edges lie on a
// positive-capacity path from source to target, context-backward edges on
// one from target back to source. The first matching class in that order
// wins. Resolve does not modify g.
func Resolve(g *graph.Graph, previous map[graph.EdgeKey]graph.EdgeAttrs, source, target graph.NodeID, maxPaths int) Set {
	forward := paths.EdgeSet(paths.FindPaths(g, source, target, maxPaths))
	backward := paths.EdgeSet(paths.FindPaths(g, target, source, maxPaths))

	set := make(Set, g.EdgeCount())
	for _, e := range g.Edges() {
		cat := Untouched
		switch {
		case wasAttacked(previous, e):
			cat = Attacked
		case forward[e.EdgeKey]:
			cat = ContextForward
		case backward[e.EdgeKey]:
			cat = ContextBackward
		}
		set[e.EdgeKey] = cat
	}
	return set
}

func wasAttacked(previous map[graph.EdgeKey]graph.EdgeAttrs, e graph.Edge) bool {
	if previous == nil {
		return false
	}
	prev, ok := previous[e.EdgeKey]
	return ok && e.Capacity < prev.Capacity
}
