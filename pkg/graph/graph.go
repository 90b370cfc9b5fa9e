package graph

import (
	"slices"
)

// Graph is an in-memory directed graph with one attribute record per edge.
//
// The node set is explicit and derived: every id referenced by an edge (or
// declared as a line source) is a member. Adjacency lists are kept sorted so
// traversals are deterministic.
//
// Graph is not safe for concurrent mutation; see session.Session for the
// single-writer wrapper.
type Graph struct {
	edges map[EdgeKey]EdgeAttrs
	nodes map[NodeID]struct{}
	out   map[NodeID][]NodeID
	in    map[NodeID][]NodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		edges: make(map[EdgeKey]EdgeAttrs),
		nodes: make(map[NodeID]struct{}),
		out:   make(map[NodeID][]NodeID),
		in:    make(map[NodeID][]NodeID),
	}
}

// AddNode registers a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id NodeID) {
	g.nodes[id] = struct{}{}
}

// PutEdge inserts or overwrites the edge at key. Endpoints are added to the
// node set.
func (g *Graph) PutEdge(key EdgeKey, attrs EdgeAttrs) error {
	if key.From < 0 || key.To < 0 {
		return newError("PutEdge").edge(key).cause(ErrInvalidEdge).context("negative node id").err()
	}
	if attrs.Capacity < 0 {
		return newError("PutEdge").edge(key).cause(ErrInvalidCapacity).err()
	}
	if attrs.Weight < 0 || attrs.Flag < 0 {
		return newError("PutEdge").edge(key).cause(ErrInvalidEdge).context("negative weight or flag").err()
	}

	g.AddNode(key.From)
	g.AddNode(key.To)
	if _, exists := g.edges[key]; !exists {
		g.out[key.From] = insertSorted(g.out[key.From], key.To)
		g.in[key.To] = insertSorted(g.in[key.To], key.From)
	}
	g.edges[key] = attrs
	return nil
}

// SetCapacity updates the capacity of an existing edge. It is the only
// mutation attacks perform.
func (g *Graph) SetCapacity(key EdgeKey, capacity int64) error {
	attrs, ok := g.edges[key]
	if !ok {
		return newError("SetCapacity").edge(key).cause(ErrInvalidEdge).err()
	}
	if capacity < 0 {
		return newError("SetCapacity").edge(key).cause(ErrInvalidCapacity).context("got %d", capacity).err()
	}
	attrs.Capacity = capacity
	g.edges[key] = attrs
	return nil
}

// Edge returns the attributes of the edge at key.
func (g *Graph) Edge(key EdgeKey) (EdgeAttrs, bool) {
	attrs, ok := g.edges[key]
	return attrs, ok
}

// HasEdge reports whether the edge exists.
func (g *Graph) HasEdge(key EdgeKey) bool {
	_, ok := g.edges[key]
	return ok
}

// HasNode reports whether the node is in the node set.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MaxNodeID returns the highest node id, or -1 for an empty graph.
func (g *Graph) MaxNodeID() NodeID {
	maxID := NodeID(-1)
	for id := range g.nodes {
		if id > maxID {
			maxID = id
		}
	}
	return maxID
}

// Edges returns every edge ordered ascending by (From, To).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for _, from := range g.Nodes() {
		for _, to := range g.out[from] {
			key := EdgeKey{From: from, To: to}
			edges = append(edges, Edge{EdgeKey: key, EdgeAttrs: g.edges[key]})
		}
	}
	return edges
}

// Keys returns every edge key ordered ascending by (From, To).
func (g *Graph) Keys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(g.edges))
	for _, from := range g.Nodes() {
		for _, to := range g.out[from] {
			keys = append(keys, EdgeKey{From: from, To: to})
		}
	}
	return keys
}

// Successors returns the destinations of id's outgoing edges, ascending.
// The returned slice must not be modified.
func (g *Graph) Successors(id NodeID) []NodeID {
	return g.out[id]
}

// Predecessors returns the sources of id's incoming edges, ascending.
// The returned slice must not be modified.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	return g.in[id]
}

// OutEdges returns id's outgoing edges, ascending by destination.
func (g *Graph) OutEdges(id NodeID) []Edge {
	edges := make([]Edge, 0, len(g.out[id]))
	for _, to := range g.out[id] {
		key := EdgeKey{From: id, To: to}
		edges = append(edges, Edge{EdgeKey: key, EdgeAttrs: g.edges[key]})
	}
	return edges
}

// InEdges returns id's incoming edges, ascending by source.
func (g *Graph) InEdges(id NodeID) []Edge {
	edges := make([]Edge, 0, len(g.in[id]))
	for _, from := range g.in[id] {
		key := EdgeKey{From: from, To: id}
		edges = append(edges, Edge{EdgeKey: key, EdgeAttrs: g.edges[key]})
	}
	return edges
}

// TotalCapacity sums the capacity of every edge.
func (g *Graph) TotalCapacity() int64 {
	var total int64
	for _, attrs := range g.edges {
		total += attrs.Capacity
	}
	return total
}

// MaxCapacity returns the largest edge capacity, or 0 for an empty graph.
func (g *Graph) MaxCapacity() int64 {
	var maxCap int64
	for _, attrs := range g.edges {
		if attrs.Capacity > maxCap {
			maxCap = attrs.Capacity
		}
	}
	return maxCap
}

// Attrs returns a copy of the edge attribute mapping.
func (g *Graph) Attrs() map[EdgeKey]EdgeAttrs {
	m := make(map[EdgeKey]EdgeAttrs, len(g.edges))
	for k, v := range g.edges {
		m[k] = v
	}
	return m
}

// ReplaceAttrs overwrites every edge's attributes with those in m. The key
// set of m must equal the graph's edge set; otherwise nothing changes.
func (g *Graph) ReplaceAttrs(m map[EdgeKey]EdgeAttrs) error {
	if len(m) != len(g.edges) {
		return newError("ReplaceAttrs").cause(ErrKeyMismatch).context("have %d edges, got %d", len(g.edges), len(m)).err()
	}
	for k, attrs := range m {
		if _, ok := g.edges[k]; !ok {
			return newError("ReplaceAttrs").edge(k).cause(ErrKeyMismatch).err()
		}
		if attrs.Capacity < 0 {
			return newError("ReplaceAttrs").edge(k).cause(ErrInvalidCapacity).err()
		}
	}
	for k, attrs := range m {
		g.edges[k] = attrs
	}
	return nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for id := range g.nodes {
		c.nodes[id] = struct{}{}
	}
	for k, v := range g.edges {
		c.edges[k] = v
	}
	for id, succ := range g.out {
		c.out[id] = slices.Clone(succ)
	}
	for id, pred := range g.in {
		c.in[id] = slices.Clone(pred)
	}
	return c
}

func insertSorted(ids []NodeID, id NodeID) []NodeID {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}
