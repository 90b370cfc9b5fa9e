package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/api"
	"github.com/dd0wney/flowattack/pkg/events"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
	"github.com/dd0wney/flowattack/pkg/watch"
)

var (
	servePort   int
	serveWatch  bool
	serveEvents string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP (JSON, GraphQL, Prometheus metrics)",
		RunE:  runServe,
	}
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func init() {
	f := serveCmd.Flags()
	f.IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port)")
	f.BoolVarP(&serveWatch, "watch", "w", false, "reload the graph when its file changes")
	f.StringVar(&serveEvents, "events", "", "publish events on this address, e.g. tcp://127.0.0.1:40899")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	var pub events.Publisher
	if addr := validation.DefaultOr(serveEvents, cfg.Events.Addr); addr != "" {
		sp, err := events.Listen(events.SocketConfig{
			Address:   addr,
			OnPublish: metrics.DefaultRegistry().RecordEvent,
		})
		if err != nil {
			return err
		}
		defer sp.Close()
		pub = sp
	}

	a, err := openSession(cfg, pub)
	if err != nil {
		return err
	}

	if serveWatch || a.cfg.Server.Watch {
		w, err := watch.New(a.cfg.Graph.Path, reloader(a.sess, a.logger, a.metrics), watch.Options{Logger: a.logger})
		if err != nil {
			return err
		}
		go w.Run(ctx)
	}

	server, err := api.NewServer(a.sess, api.Options{
		Port:     a.cfg.Server.Port,
		Version:  version,
		Defaults: a.cfg.Attack,
		Logger:   a.logger,
		Metrics:  a.metrics,
	})
	if err != nil {
		return err
	}
	return server.Start(ctx)
}

func reloader(sess *session.Session, logger logging.Logger, reg *metrics.Registry) watch.ReloadFunc {
	return func(ctx context.Context, path string) error {
		g, err := session.LoadFile(path, logger, reg)
		if err != nil {
			return err
		}
		return sess.Replace(ctx, g)
	}
}
