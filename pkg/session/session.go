// Package session owns one mutable graph together with its undo history and
// view focus, and serializes every engine operation on it.
//
// Attacks, restore, jumps and reloads take the write lock. Path finding,
// highlighting and view building take the read lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/events"
	"github.com/dd0wney/flowattack/pkg/flow"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
	"github.com/dd0wney/flowattack/pkg/paths"
)

// ErrUnknownNode is returned when a jump or focus names a node the graph
// does not have.
var ErrUnknownNode = errors.New("unknown node")

// Options configures a Session. Zero values fall back to silent defaults.
type Options struct {
	Source    graph.NodeID
	Target    graph.NodeID
	MaxPaths  int
	Logger    logging.Logger
	Metrics   *metrics.Registry
	Publisher events.Publisher
}

// State is a read-only view of the session handed to Read callbacks. It is
// only valid inside the callback.
type State struct {
	SessionID    string
	Graph        *graph.Graph
	Focus        history.Focus
	HistoryDepth int
	MaxPaths     int
	// LastAttack is nil when there is nothing to highlight, e.g. after a
	// restore.
	LastAttack *attack.Result
	// Previous holds the attributes from just before LastAttack.
	Previous map[graph.EdgeKey]graph.EdgeAttrs
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	id       string
	g        *graph.Graph
	hist     *history.History
	maxPaths int

	last     *attack.Result
	previous map[graph.EdgeKey]graph.EdgeAttrs

	logger    logging.Logger
	metrics   *metrics.Registry
	publisher events.Publisher
}

// New wraps g. The focus endpoints must be nodes of g.
func New(g *graph.Graph, opts Options) (*Session, error) {
	if !g.HasNode(opts.Source) {
		return nil, fmt.Errorf("focus source %s: %w", graph.Label(opts.Source), ErrUnknownNode)
	}
	if !g.HasNode(opts.Target) {
		return nil, fmt.Errorf("focus target %s: %w", graph.Label(opts.Target), ErrUnknownNode)
	}

	s := &Session{
		id:        uuid.NewString(),
		g:         g,
		hist:      history.New(opts.Source, opts.Target),
		maxPaths:  opts.MaxPaths,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		publisher: opts.Publisher,
	}
	if s.maxPaths <= 0 {
		s.maxPaths = paths.DefaultMaxPaths
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	s.logger = s.logger.With(logging.SessionID(s.id), logging.Component("session"))

	s.updateGauges()
	s.logger.Info("session started",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Node(opts.Source),
		logging.String("target", graph.Label(opts.Target)))
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Read runs fn with the read lock held.
func (s *Session) Read(fn func(State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state())
}

func (s *Session) state() State {
	return State{
		SessionID:    s.id,
		Graph:        s.g,
		Focus:        s.hist.Focus(),
		HistoryDepth: s.hist.Len(),
		MaxPaths:     s.maxPaths,
		LastAttack:   s.last,
		Previous:     s.previous,
	}
}

// BudgetedAttack selects targets and spends budget on them.
func (s *Session) BudgetedAttack(ctx context.Context, sel Selector, budget int64) (*attack.Result, error) {
	return s.runAttack(ctx, attack.KindBudgeted, sel, func(targets []graph.EdgeKey) (*attack.Result, error) {
		return attack.ApplyBudgeted(s.g, s.hist, targets, budget)
	}, logging.Budget(budget))
}

// MultiStepAttack selects targets and halves them for up to steps steps.
func (s *Session) MultiStepAttack(ctx context.Context, sel Selector, steps int) (*attack.Result, error) {
	return s.runAttack(ctx, attack.KindMultiStep, sel, func(targets []graph.EdgeKey) (*attack.Result, error) {
		return attack.ApplyMultiStep(s.g, s.hist, targets, steps)
	}, logging.Int("steps", steps))
}

func (s *Session) runAttack(ctx context.Context, kind attack.Kind, sel Selector,
	apply func([]graph.EdgeKey) (*attack.Result, error), fields ...logging.Field) (*attack.Result, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	fields = append(fields, logging.AttackKind(string(kind)))
	timer := logging.StartTimer(s.logger, "attack applied", fields...)
	start := time.Now()

	focus := s.hist.Focus()
	targets, err := sel(s.g, focus)
	if err != nil {
		s.metrics.RecordAttackFailure(string(kind))
		timer.EndError(err)
		return nil, fmt.Errorf("select targets: %w", err)
	}

	pre := s.g.Attrs()
	flowBefore, haveFlow := s.maxFlow(focus)

	res, err := apply(targets)
	if err != nil {
		s.metrics.RecordAttackFailure(string(kind))
		timer.EndError(err, logging.Count(len(targets)))
		return nil, err
	}

	if haveFlow {
		flowAfter, _ := s.maxFlow(focus)
		impact := attack.MeasureImpact(flowBefore, flowAfter)
		res.Impact = &impact
		s.metrics.FlowDropRatio.Observe(impact.DropRatio)
	}
	s.last = res
	s.previous = pre

	s.metrics.RecordAttack(string(kind), res.TotalReduction(), time.Since(start))
	switch kind {
	case attack.KindBudgeted:
		s.metrics.BudgetUnspent.Observe(float64(res.BudgetRemaining))
	case attack.KindMultiStep:
		s.metrics.MultiStepsExecuted.Observe(float64(res.StepsExecuted))
	}
	s.updateGauges()

	for _, r := range res.Reductions {
		s.logger.Debug("edge reduced", logging.Edge(r.Edge), logging.Int64("before", r.Before), logging.Int64("after", r.After))
	}
	timer.End(
		logging.Count(len(res.Targets)),
		logging.Reduction(res.TotalReduction()),
		logging.SnapshotID(res.SnapshotID))

	s.publish(ctx, events.TopicAttack, res)
	return res, nil
}

// maxFlow measures source-to-target flow; false when the focus endpoints
// make it undefined.
func (s *Session) maxFlow(f history.Focus) (int64, bool) {
	res, err := flow.MaxFlow(s.g, f.Source, f.Target)
	if err != nil {
		return 0, false
	}
	return res.Value, true
}

// Restore undoes the most recent attack. It returns history.ErrEmptyHistory
// when there is nothing to undo.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, _ := s.hist.Latest()
	err := s.hist.Restore(s.g)
	s.metrics.RecordRestore(err)
	if err != nil {
		s.logger.Warn("restore refused", logging.Error(err))
		return err
	}

	s.last = nil
	s.previous = nil
	s.updateGauges()
	s.logger.Info("graph restored", logging.SnapshotID(snap.ID), logging.Int("depth", s.hist.Len()))
	s.publish(ctx, events.TopicRestore, map[string]any{"snapshotId": snap.ID, "depth": s.hist.Len()})
	return nil
}

// JumpTo centers the view on id. The graph is never touched.
func (s *Session) JumpTo(ctx context.Context, id graph.NodeID) (history.Focus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.g.HasNode(id) {
		s.logger.Warn("jump refused", logging.Node(id))
		return s.hist.Focus(), fmt.Errorf("jump to %s: %w", graph.Label(id), ErrUnknownNode)
	}
	s.hist.JumpTo(id)
	return s.afterJump(ctx), nil
}

// JumpToSource centers the view on the focus source.
func (s *Session) JumpToSource(ctx context.Context) history.Focus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.JumpToSource()
	return s.afterJump(ctx)
}

// JumpToTarget centers the view on the focus target.
func (s *Session) JumpToTarget(ctx context.Context) history.Focus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.JumpToTarget()
	return s.afterJump(ctx)
}

func (s *Session) afterJump(ctx context.Context) history.Focus {
	f := s.hist.Focus()
	s.logger.Info("view centered", logging.Node(f.Center))
	s.publish(ctx, events.TopicJump, f)
	return f
}

// SetFocus changes the flow endpoints used for flow impact and context
// highlighting.
func (s *Session) SetFocus(source, target graph.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []graph.NodeID{source, target} {
		if !s.g.HasNode(id) {
			return fmt.Errorf("focus %s: %w", graph.Label(id), ErrUnknownNode)
		}
	}
	s.hist.SetFocus(source, target)
	s.updateGauges()
	return nil
}

// Focus returns the current view state.
func (s *Session) Focus() history.Focus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.Focus()
}

// ResolveHighlights classifies every edge against the last attack and the
// context paths between source and target.
func (s *Session) ResolveHighlights(source, target graph.NodeID) highlight.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return highlight.Resolve(s.g, s.previous, source, target, s.maxPaths)
}

// FindPaths enumerates up to maxPaths positive-capacity paths. maxPaths <= 0
// uses the session default.
func (s *Session) FindPaths(src, dst graph.NodeID, maxPaths int) []paths.Path {
	if maxPaths <= 0 {
		maxPaths = s.maxPaths
	}
	s.mu.RLock()
	ps := paths.FindPaths(s.g, src, dst, maxPaths)
	s.mu.RUnlock()

	s.metrics.RecordPathSearch(len(ps))
	return ps
}

// MaxFlow computes the current source-to-target maximum flow.
func (s *Session) MaxFlow() (flow.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.hist.Focus()
	return flow.MaxFlow(s.g, f.Source, f.Target)
}

// LastAttack returns the most recent attack still in effect, or nil.
func (s *Session) LastAttack() *attack.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// HistoryLen returns the undo depth.
func (s *Session) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.Len()
}

// HistoryStats reports the depth and memory footprint of the undo stack.
func (s *Session) HistoryStats() history.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.Stats()
}

// Replace swaps in a freshly loaded graph, dropping all history. The focus
// endpoints carry over when both still exist; otherwise Replace fails and
// nothing changes.
func (s *Session) Replace(ctx context.Context, g *graph.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.hist.Focus()
	if !g.HasNode(f.Source) || !g.HasNode(f.Target) {
		return fmt.Errorf("reload: focus %s→%s: %w", graph.Label(f.Source), graph.Label(f.Target), ErrUnknownNode)
	}

	s.g = g
	s.hist = history.New(f.Source, f.Target)
	if g.HasNode(f.Center) {
		s.hist.JumpTo(f.Center)
	}
	s.last = nil
	s.previous = nil
	s.updateGauges()

	s.logger.Info("graph reloaded", logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))
	s.publish(ctx, events.TopicReload, map[string]int{"nodes": g.NodeCount(), "edges": g.EdgeCount()})
	return nil
}

func (s *Session) updateGauges() {
	mf, _ := s.maxFlow(s.hist.Focus())
	s.metrics.UpdateGraphMetrics(s.g.NodeCount(), s.g.EdgeCount(), s.g.TotalCapacity(), mf)
	s.metrics.UpdateHistoryMetrics(s.hist.Len(), s.hist.Stats().BytesCompressed)
}

func (s *Session) publish(ctx context.Context, topic string, payload any) {
	ev, err := events.NewEvent(topic, s.id, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		s.logger.Warn("event not published", logging.String("topic", topic), logging.Error(err))
	}
}
