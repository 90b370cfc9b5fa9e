// Package attack mutates edge capacities under the budgeted and multi-step
// attack policies.
//
// Both policies validate everything up front, record exactly one snapshot
// and only then touch the graph, so a failed call leaves graph and history
// as they were and one restore undoes one successful call.
package attack

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
)

var (
	ErrInsufficientTargets = errors.New("attack needs at least one target edge")
	ErrInvalidBudget       = errors.New("attack budget must be non-negative")
	ErrInvalidSteps        = errors.New("attack steps must be non-negative")
)

// Kind names an attack policy.
type Kind string

const (
	KindBudgeted  Kind = "budgeted"
	KindMultiStep Kind = "multi-step"
)

// Recorder captures the graph state before an attack mutates it.
// *history.History satisfies it.
type Recorder interface {
	Snapshot(g *graph.Graph) (*history.Snapshot, error)
}

// Reduction is the capacity removed from one target edge.
type Reduction struct {
	Edge   graph.EdgeKey `json:"edge"`
	Before int64         `json:"before"`
	After  int64         `json:"after"`
	Amount int64         `json:"amount"`
}

// Result describes a completed attack.
type Result struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	SnapshotID string          `json:"snapshotId"`
	Targets    []graph.EdgeKey `json:"targets"`
	Reductions []Reduction     `json:"reductions"`

	BudgetInitial   int64 `json:"budgetInitial,omitempty"`
	BudgetRemaining int64 `json:"budgetRemaining,omitempty"`

	StepsRequested int     `json:"stepsRequested,omitempty"`
	StepsExecuted  int     `json:"stepsExecuted,omitempty"`
	StepTotals     []int64 `json:"stepTotals,omitempty"`

	CapacityBefore int64 `json:"capacityBefore"`
	CapacityAfter  int64 `json:"capacityAfter"`

	// Impact is filled in by callers that know the flow endpoints.
	Impact *Impact `json:"impact,omitempty"`
}

// TotalReduction sums the capacity removed across all targets.
func (r *Result) TotalReduction() int64 {
	var total int64
	for _, red := range r.Reductions {
		total += red.Amount
	}
	return total
}

// Attacked returns the targets whose capacity actually went down.
func (r *Result) Attacked() []graph.EdgeKey {
	keys := make([]graph.EdgeKey, 0, len(r.Reductions))
	for _, red := range r.Reductions {
		if red.Amount > 0 {
			keys = append(keys, red.Edge)
		}
	}
	return keys
}

// ReductionPercent is the share of total graph capacity removed, 0..100.
func (r *Result) ReductionPercent() float64 {
	if r.CapacityBefore == 0 {
		return 0
	}
	return float64(r.CapacityBefore-r.CapacityAfter) / float64(r.CapacityBefore) * 100
}

// ApplyBudgeted spends budget greedily over targets in ascending (From, To)
// order, removing min(capacity, remaining budget) from each, and stops once
// the budget is exhausted.
func ApplyBudgeted(g *graph.Graph, rec Recorder, targets []graph.EdgeKey, budget int64) (*Result, error) {
	if budget < 0 {
		return nil, fmt.Errorf("budgeted attack: %w: got %d", ErrInvalidBudget, budget)
	}
	keys, err := normalizeTargets(g, targets)
	if err != nil {
		return nil, fmt.Errorf("budgeted attack: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("budgeted attack: %w", ErrInsufficientTargets)
	}

	res := newResult(KindBudgeted, g, keys)
	res.BudgetInitial = budget
	if err := record(rec, g, res); err != nil {
		return nil, err
	}

	remaining := budget
	for _, key := range keys {
		if remaining == 0 {
			break
		}
		attrs, _ := g.Edge(key)
		amount := min(attrs.Capacity, remaining)
		if amount == 0 {
			continue
		}
		// key and amount are validated above, SetCapacity cannot fail here
		if err := g.SetCapacity(key, attrs.Capacity-amount); err != nil {
			return nil, err
		}
		remaining -= amount
		res.Reductions = append(res.Reductions, Reduction{
			Edge:   key,
			Before: attrs.Capacity,
			After:  attrs.Capacity - amount,
			Amount: amount,
		})
	}

	res.BudgetRemaining = remaining
	res.CapacityAfter = g.TotalCapacity()
	return res, nil
}

// ApplyMultiStep halves (floor) the capacity of every target once per step,
// for at most maxSteps steps, stopping early when every target is at zero.
// An empty target list is a no-op that still records a snapshot.
func ApplyMultiStep(g *graph.Graph, rec Recorder, targets []graph.EdgeKey, maxSteps int) (*Result, error) {
	if maxSteps < 0 {
		return nil, fmt.Errorf("multi-step attack: %w: got %d", ErrInvalidSteps, maxSteps)
	}
	keys, err := normalizeTargets(g, targets)
	if err != nil {
		return nil, fmt.Errorf("multi-step attack: %w", err)
	}

	res := newResult(KindMultiStep, g, keys)
	res.StepsRequested = maxSteps
	if err := record(rec, g, res); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		res.CapacityAfter = res.CapacityBefore
		return res, nil
	}

	before := make([]int64, len(keys))
	for i, key := range keys {
		attrs, _ := g.Edge(key)
		before[i] = attrs.Capacity
	}

	for step := 0; step < maxSteps; step++ {
		var stepTotal int64
		allZero := true
		for _, key := range keys {
			attrs, _ := g.Edge(key)
			next := attrs.Capacity / 2
			if err := g.SetCapacity(key, next); err != nil {
				return nil, err
			}
			stepTotal += attrs.Capacity - next
			if next != 0 {
				allZero = false
			}
		}
		res.StepsExecuted++
		res.StepTotals = append(res.StepTotals, stepTotal)
		if allZero {
			break
		}
	}

	for i, key := range keys {
		attrs, _ := g.Edge(key)
		if before[i] == attrs.Capacity {
			continue
		}
		res.Reductions = append(res.Reductions, Reduction{
			Edge:   key,
			Before: before[i],
			After:  attrs.Capacity,
			Amount: before[i] - attrs.Capacity,
		})
	}
	res.CapacityAfter = g.TotalCapacity()
	return res, nil
}

func newResult(kind Kind, g *graph.Graph, keys []graph.EdgeKey) *Result {
	return &Result{
		ID:             uuid.NewString(),
		Kind:           kind,
		Targets:        keys,
		CapacityBefore: g.TotalCapacity(),
	}
}

func record(rec Recorder, g *graph.Graph, res *Result) error {
	if rec == nil {
		return nil
	}
	snap, err := rec.Snapshot(g)
	if err != nil {
		return fmt.Errorf("%s attack: snapshot: %w", res.Kind, err)
	}
	res.SnapshotID = snap.ID
	return nil
}

// normalizeTargets deduplicates and sorts targets and checks each exists.
func normalizeTargets(g *graph.Graph, targets []graph.EdgeKey) ([]graph.EdgeKey, error) {
	keys := graph.SortKeys(slices.Clone(targets))
	keys = slices.Compact(keys)
	for _, key := range keys {
		if !g.HasEdge(key) {
			return nil, fmt.Errorf("target %s: %w", key, graph.ErrInvalidEdge)
		}
	}
	return keys, nil
}
