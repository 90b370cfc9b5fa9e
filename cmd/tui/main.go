package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
	"github.com/dd0wney/flowattack/pkg/session"
)

var (
	configPath string
	graphPath  string
	logPath    string

	rootCmd = &cobra.Command{
		Use:          "flowattack-tui [graph-file]",
		Short:        "Terminal dashboard for capacity attack sessions",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file")
	f.StringVarP(&graphPath, "graph", "g", "", "graph description file (overrides graph.path)")
	f.StringVar(&logPath, "log-file", "", "write JSON logs here instead of discarding them")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Graph.Path = args[0]
	}
	if graphPath != "" {
		cfg.Graph.Path = graphPath
	}
	if cfg.Graph.Path == "" {
		return fmt.Errorf("no graph description: pass a file or set graph.path")
	}

	// the alternate screen owns stdout and stderr, so logs go to a file or nowhere
	logger := logging.NewNopLogger()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = logging.NewJSONLogger(f, logging.ParseLevel(cfg.Log.Level))
	}
	reg := metrics.DefaultRegistry()

	g, err := session.LoadFile(cfg.Graph.Path, logger, reg)
	if err != nil {
		return err
	}
	source, target := cfg.ResolveFocus(g)
	sess, err := session.New(g, session.Options{
		Source:   source,
		Target:   target,
		MaxPaths: cfg.Attack.MaxPaths,
		Logger:   logger,
		Metrics:  reg,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(initialModel(ctx, sess, cfg.Attack), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
