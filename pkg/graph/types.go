package graph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NodeID identifies a node. IDs are non-negative and come straight from the
// graph description; they are the only identity used by algorithms.
type NodeID int

// EdgeKey identifies a directed edge. A graph holds at most one edge per key.
type EdgeKey struct {
	From NodeID
	To   NodeID
}

// Less orders keys ascending by (From, To).
func (k EdgeKey) Less(other EdgeKey) bool {
	if k.From != other.From {
		return k.From < other.From
	}
	return k.To < other.To
}

// Compare returns -1, 0 or 1 ordering keys by (From, To), for slices.SortFunc.
func (k EdgeKey) Compare(other EdgeKey) int {
	switch {
	case k.Less(other):
		return -1
	case other.Less(k):
		return 1
	}
	return 0
}

// SortKeys sorts keys ascending by (From, To) in place and returns them.
func SortKeys(keys []EdgeKey) []EdgeKey {
	slices.SortFunc(keys, EdgeKey.Compare)
	return keys
}

// Reverse returns the key pointing the other way.
func (k EdgeKey) Reverse() EdgeKey {
	return EdgeKey{From: k.To, To: k.From}
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%d->%d", k.From, k.To)
}

// Labelled renders the key with display labels, e.g. "N1→N3".
func (k EdgeKey) Labelled() string {
	return Label(k.From) + "→" + Label(k.To)
}

// EdgeAttrs is the fixed-shape edge record.
type EdgeAttrs struct {
	Capacity int64   // attacked quantity, never negative
	Weight   float64 // secondary cost metric, never touched by attacks
	Flag     int     // category tag, immutable
}

// Edge is an edge key together with its attributes.
type Edge struct {
	EdgeKey
	EdgeAttrs
}

// Label is the display label for a node: id n renders as "N<n+1>".
func Label(id NodeID) string {
	return "N" + strconv.Itoa(int(id)+1)
}

// ParseLabel is the inverse of Label. Plain numeric ids are accepted too.
func ParseLabel(s string) (NodeID, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "N"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid node label %q", s)
		}
		return NodeID(n - 1), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid node id %q", s)
	}
	return NodeID(n), nil
}
