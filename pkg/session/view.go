package session

import (
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/visualization"
)

// highlights classifies edges against the current focus. Callers hold the
// lock.
func (s *Session) highlights() highlight.Set {
	f := s.hist.Focus()
	return highlight.Resolve(s.g, s.previous, f.Source, f.Target, s.maxPaths)
}

// GraphData renders the whole graph, highlighted for the current focus.
func (s *Session) GraphData() visualization.GraphData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return visualization.BuildGraphData(s.g, s.hist.Focus(), s.highlights())
}

// NodeInfo describes a node and its incident edges.
func (s *Session) NodeInfo(id graph.NodeID) (visualization.NodeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return visualization.DescribeNode(s.g, id, s.hist.Focus(), s.previous, s.highlights())
}

// EdgeInfo describes one edge.
func (s *Session) EdgeInfo(key graph.EdgeKey) (visualization.EdgeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return visualization.DescribeEdge(s.g, key, s.previous, s.highlights())
}

// AffectedPaths traces representative routes through the edges the last
// attack reduced. Empty when no attack is in effect.
func (s *Session) AffectedPaths() []visualization.AffectedPath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.hist.Focus()
	return visualization.AffectedPaths(s.g, s.last, f.Source, f.Target)
}

// Report summarizes the capacity removed by the last attack.
func (s *Session) Report() visualization.CapacityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return visualization.Report(s.last)
}
