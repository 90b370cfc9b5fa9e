package repl

import (
	"fmt"
	"io"

	"github.com/dd0wney/flowattack/pkg/attack"
)

// PrintResult writes a human-readable attack summary.
func PrintResult(w io.Writer, res *attack.Result) {
	fmt.Fprintf(w, "%s attack %s\n", res.Kind, res.ID)
	switch res.Kind {
	case attack.KindBudgeted:
		fmt.Fprintf(w, "  budget:   %d spent, %d left\n", res.BudgetInitial-res.BudgetRemaining, res.BudgetRemaining)
	case attack.KindMultiStep:
		fmt.Fprintf(w, "  steps:    %d of %d %v\n", res.StepsExecuted, res.StepsRequested, res.StepTotals)
	}
	fmt.Fprintf(w, "  capacity: %d → %d (-%.1f%%)\n", res.CapacityBefore, res.CapacityAfter, res.ReductionPercent())
	if res.Impact != nil {
		fmt.Fprintf(w, "  flow:     %d → %d (%s)\n", res.Impact.FlowBefore, res.Impact.FlowAfter, res.Impact.Severity)
	}
	for _, red := range res.Reductions {
		fmt.Fprintf(w, "    %-12s %6d → %-6d\n", red.Edge.Labelled(), red.Before, red.After)
	}
}
