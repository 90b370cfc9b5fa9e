package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/events"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
	"github.com/dd0wney/flowattack/pkg/session"
)

var (
	configPath string
	graphPath  string
	logLevel   string
	sourceRef  string
	targetRef  string

	rootCmd = &cobra.Command{
		Use:   "flowattack",
		Short: "Simulate capacity attacks on a directed flow network",
		Long: `flowattack loads a graph description ("src: (dst, capacity, weight, flag) ...")
and simulates budgeted and multi-step capacity attacks against it, with
undo history, flow impact and path highlighting.`,
		SilenceUsage: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&graphPath, "graph", "g", "", "graph description file (overrides graph.path)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	pf.StringVar(&sourceRef, "source", "", "flow source node, e.g. N1 (overrides focus.source)")
	pf.StringVar(&targetRef, "target", "", "flow target node (overrides focus.target)")

	rootCmd.AddCommand(serveCmd, attackCmd, pathsCmd, exportCmd, replCmd)
}

// app is everything a subcommand needs, built from flags and config.
type app struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	sess    *session.Session
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if graphPath != "" {
		cfg.Graph.Path = graphPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cfg.Graph.Path == "" {
		return cfg, fmt.Errorf("no graph description: pass --graph or set graph.path")
	}
	return cfg, nil
}

// openSession loads the graph and opens a session on it. Log output goes
// to stderr so command output on stdout stays clean. pub may be nil.
func openSession(cfg config.Config, pub events.Publisher) (*app, error) {
	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level))
	reg := metrics.DefaultRegistry()

	g, err := session.LoadFile(cfg.Graph.Path, logger, reg)
	if err != nil {
		return nil, err
	}

	source, target := cfg.ResolveFocus(g)
	if source, err = nodeFlag(sourceRef, source); err != nil {
		return nil, err
	}
	if target, err = nodeFlag(targetRef, target); err != nil {
		return nil, err
	}

	sess, err := session.New(g, session.Options{
		Source:    source,
		Target:    target,
		MaxPaths:  cfg.Attack.MaxPaths,
		Logger:    logger,
		Metrics:   reg,
		Publisher: pub,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, metrics: reg, sess: sess}, nil
}

// loadApp is loadConfig followed by openSession without event publishing.
func loadApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openSession(cfg, nil)
}

func nodeFlag(ref string, fallback graph.NodeID) (graph.NodeID, error) {
	if ref == "" {
		return fallback, nil
	}
	id, err := graph.ParseLabel(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid node %q: %w", ref, err)
	}
	return id, nil
}
