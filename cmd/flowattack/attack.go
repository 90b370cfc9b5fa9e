package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/repl"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

var (
	attackBudget       int64
	attackSteps        int
	attackEdgesPerStep int
	attackSelect       string
	attackFlag         int
	attackEdges        []string

	attackCmd = &cobra.Command{
		Use:   "attack",
		Short: "Run a single attack against the loaded graph and print its impact",
	}

	budgetedCmd = &cobra.Command{
		Use:   "budgeted",
		Short: "Spend a capacity budget across the selected edges in ascending edge order",
		Args:  cobra.NoArgs,
		RunE:  runBudgeted,
	}

	multiStepCmd = &cobra.Command{
		Use:   "multi-step",
		Short: "Halve the capacity of the selected edges once per step",
		Args:  cobra.NoArgs,
		RunE:  runMultiStep,
	}
)

func init() {
	pf := attackCmd.PersistentFlags()
	pf.StringVar(&attackSelect, "select", "", "target selection: explicit, flow, paths or capacity")
	pf.IntVar(&attackFlag, "flag", -1, "only attack edges carrying this flag (-1 for any)")
	pf.StringArrayVarP(&attackEdges, "edge", "e", nil, "explicit target edge, e.g. N1:N2 (repeatable)")

	budgetedCmd.Flags().Int64VarP(&attackBudget, "budget", "b", -1, "capacity to remove (default attack.budget)")
	multiStepCmd.Flags().IntVarP(&attackSteps, "steps", "s", -1, "number of halving steps (default attack.steps)")
	multiStepCmd.Flags().IntVarP(&attackEdgesPerStep, "edges-per-step", "k", 0, "edges picked by the capacity strategy")

	attackCmd.AddCommand(budgetedCmd, multiStepCmd)
}

func targetFlags() ([]validation.EdgeRef, error) {
	refs := make([]validation.EdgeRef, 0, len(attackEdges))
	for _, s := range attackEdges {
		ref, err := repl.ParseEdge(s)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func flagFlag(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("flag") {
		return nil
	}
	return &attackFlag
}

func runBudgeted(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	targets, err := targetFlags()
	if err != nil {
		return err
	}

	req := &validation.BudgetedAttackRequest{Targets: targets, Select: attackSelect, Flag: flagFlag(cmd)}
	if cmd.Flags().Changed("budget") {
		req.Budget = &attackBudget
	}
	sel, budget, err := session.BudgetedFromRequest(req, a.cfg.Attack)
	if err != nil {
		return err
	}

	res, err := a.sess.BudgetedAttack(cmd.Context(), sel, budget)
	if err != nil {
		return err
	}
	repl.PrintResult(os.Stdout, res)
	return nil
}

func runMultiStep(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	targets, err := targetFlags()
	if err != nil {
		return err
	}

	req := &validation.MultiStepAttackRequest{
		Targets:      targets,
		EdgesPerStep: attackEdgesPerStep,
		Select:       attackSelect,
		Flag:         flagFlag(cmd),
	}
	if cmd.Flags().Changed("steps") {
		req.Steps = &attackSteps
	}
	sel, steps, err := session.MultiStepFromRequest(req, a.cfg.Attack)
	if err != nil {
		return err
	}

	res, err := a.sess.MultiStepAttack(cmd.Context(), sel, steps)
	if err != nil {
		return err
	}
	repl.PrintResult(os.Stdout, res)
	return nil
}
