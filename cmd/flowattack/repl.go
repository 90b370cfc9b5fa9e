package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/repl"
	"github.com/dd0wney/flowattack/pkg/session"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive shell for attacking, restoring and inspecting the graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		a.sess.Read(func(st session.State) {
			fmt.Printf("flowattack %s: %d nodes, %d edges, focus %s → %s\n",
				version, st.Graph.NodeCount(), st.Graph.EdgeCount(),
				graph.Label(st.Focus.Source), graph.Label(st.Focus.Target))
		})
		fmt.Println("Type 'help' for commands, 'exit' to quit.")

		return repl.New(a.sess, a.cfg.Attack, os.Stdout).Run(cmd.Context(), os.Stdin)
	},
}
