// Package api serves a flow attack session over HTTP: JSON endpoints for the
// view, attacks and history, plus GraphQL and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/flowattack/pkg/api/middleware"
	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graphql"
	"github.com/dd0wney/flowattack/pkg/health"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
	"github.com/dd0wney/flowattack/pkg/session"
)

// DefaultMaxBodySize caps request bodies. Attack requests are the largest
// and stay well under it even with thousands of explicit targets.
const DefaultMaxBodySize = 1 << 20

// Options configures a Server.
type Options struct {
	Port     int
	Version  string
	Defaults config.AttackConfig
	Logger   logging.Logger
	Metrics  *metrics.Registry
	CORS     *middleware.CORSConfig
}

// Server represents the HTTP API server
type Server struct {
	sess           *session.Session
	defaults       config.AttackConfig
	graphqlHandler *graphql.Handler
	health         *health.HealthChecker
	logger         logging.Logger
	metrics        *metrics.Registry
	cors           *middleware.CORSConfig
	startTime      time.Time
	version        string
	port           int
}

// NewServer creates a new API server
func NewServer(sess *session.Session, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	if opts.CORS == nil {
		opts.CORS = middleware.DefaultCORSConfig()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	schema, err := graphql.NewSchema(sess, opts.Defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	return &Server{
		sess:           sess,
		defaults:       opts.Defaults,
		graphqlHandler: graphql.NewHandler(schema),
		health:         newHealthChecker(sess),
		logger:         opts.Logger.With(logging.Component("api")),
		metrics:        opts.Metrics,
		cors:           opts.CORS,
		startTime:      time.Now(),
		version:        opts.Version,
		port:           opts.Port,
	}, nil
}

// newHealthChecker registers the session probes. Readiness needs a graph
// with a reachable focus pair; liveness only needs the process to answer.
func newHealthChecker(sess *session.Session) *health.HealthChecker {
	hc := health.NewHealthChecker()
	hc.RegisterLivenessCheck("process", func() health.Check { return health.SimpleCheck() })
	hc.RegisterReadinessCheck("graph", health.GraphCheck(func() (nodes, edges int) {
		sess.Read(func(st session.State) {
			nodes, edges = st.Graph.NodeCount(), st.Graph.EdgeCount()
		})
		return nodes, edges
	}))
	hc.RegisterReadinessCheck("flow", health.FlowCheck(func() (int64, error) {
		res, err := sess.MaxFlow()
		return res.Value, err
	}))
	hc.RegisterCheck("history", health.HistoryCheck(func() (int, int) {
		st := sess.HistoryStats()
		return st.Depth, st.BytesCompressed
	}, 0))
	hc.RegisterCheck("memory", health.MemoryCheck(0))
	return hc
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/checks", s.health.HTTPHandler())
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())
	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.HandleFunc("GET /nodes/{id}", s.handleNode)
	mux.HandleFunc("GET /edges/{from}/{to}", s.handleEdge)
	mux.HandleFunc("GET /paths", s.handlePaths)
	mux.HandleFunc("GET /flow", s.handleFlow)
	mux.HandleFunc("GET /highlights", s.handleHighlights)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /report/affected", s.handleAffected)

	mux.HandleFunc("POST /attack/budgeted", s.handleBudgetedAttack)
	mux.HandleFunc("POST /attack/multi-step", s.handleMultiStepAttack)
	mux.HandleFunc("POST /restore", s.handleRestore)
	mux.HandleFunc("POST /jump", s.handleJump)
	mux.Handle("POST /graphql", s.graphqlHandler)

	var h http.Handler = mux
	h = middleware.BodySizeLimit(DefaultMaxBodySize)(h)
	h = middleware.CORS(s.cors)(h)
	h = middleware.Metrics(s.metrics)(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.PanicRecovery(s.logger)(h)
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.updateMetricsPeriodically(ctx, 10*time.Second)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			logging.String("addr", addr),
			logging.String("version", s.version),
			logging.SessionID(s.sess.ID()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
