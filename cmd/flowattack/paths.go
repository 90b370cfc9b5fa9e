package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/paths"
	"github.com/dd0wney/flowattack/pkg/validation"
)

var (
	pathsFrom string
	pathsTo   string
	pathsMax  int

	pathsCmd = &cobra.Command{
		Use:   "paths",
		Short: "List positive-capacity paths between two nodes and the max flow of the focus pair",
		Args:  cobra.NoArgs,
		RunE:  runPaths,
	}
)

func init() {
	f := pathsCmd.Flags()
	f.StringVar(&pathsFrom, "from", "source", "start node (label, id, source or target)")
	f.StringVar(&pathsTo, "to", "target", "end node")
	f.IntVarP(&pathsMax, "max", "m", paths.DefaultMaxPaths, "maximum number of paths")
}

func runPaths(cmd *cobra.Command, _ []string) error {
	if pathsMax < 1 || pathsMax > validation.MaxPaths {
		return fmt.Errorf("%w: --max must be between 1 and %d", validation.ErrInvalidRequest, validation.MaxPaths)
	}
	a, err := loadApp()
	if err != nil {
		return err
	}

	from, err := a.sess.ResolveNode(pathsFrom)
	if err != nil {
		return err
	}
	to, err := a.sess.ResolveNode(pathsTo)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	found := a.sess.FindPaths(from, to, pathsMax)
	fmt.Fprintf(out, "%d path(s) %s → %s\n", len(found), graph.Label(from), graph.Label(to))
	for i, p := range found {
		fmt.Fprintf(out, "  %2d. %s\n", i+1, p)
	}

	res, err := a.sess.MaxFlow()
	if err != nil {
		return err
	}
	f := a.sess.Focus()
	fmt.Fprintf(out, "\nMax flow %s → %s: %d over %d edge(s)\n",
		graph.Label(f.Source), graph.Label(f.Target), res.Value, len(res.Carrying()))
	return nil
}
