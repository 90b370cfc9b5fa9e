package session

import (
	"context"
	"errors"
	"testing"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/validation"
)

func ptr[T any](v T) *T { return &v }

func TestBudgetedFromRequest(t *testing.T) {
	s, _, _ := newSession(t, scenarioGraph)
	defaults := config.Default().Attack

	tests := []struct {
		name        string
		req         validation.BudgetedAttackRequest
		wantBudget  int64
		wantTargets int
		wantErr     error
	}{
		{
			name:        "explicit targets with budget",
			req:         validation.BudgetedAttackRequest{Targets: []validation.EdgeRef{{From: 1, To: 2}}, Budget: ptr(int64(3))},
			wantBudget:  3,
			wantTargets: 1,
		},
		{
			name:        "defaults select flow edges",
			req:         validation.BudgetedAttackRequest{},
			wantBudget:  300,
			wantTargets: 3,
		},
		{
			name:    "strategy with targets",
			req:     validation.BudgetedAttackRequest{Targets: []validation.EdgeRef{{From: 1, To: 2}}, Select: "flow"},
			wantErr: validation.ErrInvalidRequest,
		},
		{
			name:    "negative budget",
			req:     validation.BudgetedAttackRequest{Budget: ptr(int64(-1))},
			wantErr: validation.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, budget, err := BudgetedFromRequest(&tt.req, defaults)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BudgetedFromRequest failed: %v", err)
			}
			if budget != tt.wantBudget {
				t.Errorf("budget = %d, want %d", budget, tt.wantBudget)
			}
			var keys []graph.EdgeKey
			s.Read(func(st State) { keys, err = sel(st.Graph, st.Focus) })
			if err != nil || len(keys) != tt.wantTargets {
				t.Errorf("selected %v, %v", keys, err)
			}
		})
	}
}

func TestMultiStepFromRequest(t *testing.T) {
	defaults := config.Default().Attack

	_, steps, err := MultiStepFromRequest(&validation.MultiStepAttackRequest{}, defaults)
	if err != nil || steps != 3 {
		t.Errorf("defaults: steps %d, %v", steps, err)
	}

	g, _ := graph.LoadString(scenarioGraph)
	sel, steps, err := MultiStepFromRequest(&validation.MultiStepAttackRequest{Steps: ptr(0), EdgesPerStep: 1}, defaults)
	if err != nil || steps != 0 {
		t.Fatalf("zero steps: %d, %v", steps, err)
	}
	keys, _ := sel(g, history.Focus{Source: 0, Target: 2})
	if len(keys) != 1 || keys[0] != (graph.EdgeKey{From: 0, To: 1}) {
		t.Errorf("top capacity with k=1 = %v", keys)
	}

	if _, _, err := MultiStepFromRequest(&validation.MultiStepAttackRequest{Steps: ptr(65)}, defaults); !errors.Is(err, validation.ErrInvalidRequest) {
		t.Errorf("too many steps: %v", err)
	}
}

func TestJumpReferences(t *testing.T) {
	s, _, _ := newSession(t, scenarioGraph)
	ctx := context.Background()

	tests := []struct {
		ref     string
		want    graph.NodeID
		wantErr error
	}{
		{"N2", 1, nil},
		{"2", 2, nil},
		{"target", 2, nil},
		{"Source", 0, nil},
		{"N9", 0, ErrUnknownNode},
		{"nowhere", 0, validation.ErrInvalidRequest},
		{"", 0, validation.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			f, err := s.Jump(ctx, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || f.Center != tt.want {
				t.Errorf("Jump(%q) = %+v, %v", tt.ref, f, err)
			}
		})
	}
}
