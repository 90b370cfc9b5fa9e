package logging

import (
	"time"

	"github.com/dd0wney/flowattack/pkg/graph"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

// Domain fields. Nodes and edges are logged by display label.

func Node(id graph.NodeID) Field {
	return String("node", graph.Label(id))
}

func Edge(key graph.EdgeKey) Field {
	return String("edge", key.Labelled())
}

func SessionID(id string) Field {
	return String("session_id", id)
}

func SnapshotID(id string) Field {
	return String("snapshot_id", id)
}

func AttackKind(kind string) Field {
	return String("attack", kind)
}

func Budget(b int64) Field {
	return Int64("budget", b)
}

func Reduction(total int64) Field {
	return Int64("reduction", total)
}
