package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/metrics"
)

// LoadFile reads a graph description from path. Rejected lines are logged
// one by one at warn and counted, and the graph built from the remaining
// lines is returned without error. Open and read failures are returned.
func LoadFile(path string, logger logging.Logger, reg *metrics.Registry) (*graph.Graph, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	f, err := os.Open(path)
	if err != nil {
		reg.RecordLoad(0, err)
		return nil, fmt.Errorf("open graph description: %w", err)
	}
	defer f.Close()

	timer := logging.StartTimer(logger, "graph loaded", logging.Path(path))
	g, err := graph.Load(f)

	var perrs graph.ParseErrors
	switch {
	case errors.As(err, &perrs):
		for _, pe := range perrs {
			logger.Warn("graph line rejected",
				logging.Path(path),
				logging.Int("line", pe.Line),
				logging.String("reason", pe.Reason))
		}
		reg.RecordLoad(len(perrs), nil)
		timer.End(
			logging.Int("nodes", g.NodeCount()),
			logging.Int("edges", g.EdgeCount()),
			logging.Int("rejected", len(perrs)))
		return g, nil
	case err != nil:
		reg.RecordLoad(0, err)
		timer.EndError(err)
		return nil, err
	}

	reg.RecordLoad(0, nil)
	timer.End(logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))
	return g, nil
}
