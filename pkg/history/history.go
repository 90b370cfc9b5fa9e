// Package history keeps the undo stack of graph states and the view focus.
//
// Every attack pushes one snapshot of the edge attributes before it mutates
// the graph, so one Restore undoes exactly one attack. Snapshots are held
// snappy-compressed and checksummed; decoding reproduces the attributes
// bit-for-bit.
package history

import (
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/dd0wney/flowattack/pkg/graph"
)

// ErrEmptyHistory is returned by Restore when there is nothing to undo.
var ErrEmptyHistory = errors.New("history is empty")

// Snapshot is an immutable copy of a graph's edge attributes.
type Snapshot struct {
	ID    string
	Taken time.Time
	Edges int

	data         []byte // snappy-compressed encodeAttrs output
	checksum     uint32
	uncompressed int
}

// Attrs decodes the captured attribute mapping.
func (s *Snapshot) Attrs() (map[graph.EdgeKey]graph.EdgeAttrs, error) {
	if crc32.ChecksumIEEE(s.data) != s.checksum {
		return nil, fmt.Errorf("snapshot %s: %w: checksum mismatch", s.ID, errCorruptSnapshot)
	}
	raw, err := snappy.Decode(nil, s.data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: decompress: %w", s.ID, err)
	}
	m, err := decodeAttrs(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.ID, err)
	}
	return m, nil
}

// CompressedSize is the number of bytes the snapshot occupies.
func (s *Snapshot) CompressedSize() int {
	return len(s.data)
}

// Focus is the view state: the flow endpoints and the node the view is
// centered on.
type Focus struct {
	Source graph.NodeID `json:"source"`
	Target graph.NodeID `json:"target"`
	Center graph.NodeID `json:"center"`
}

// Stats summarizes the stack.
type Stats struct {
	Depth             int
	BytesUncompressed int
	BytesCompressed   int
}

// History is a LIFO stack of snapshots plus the current focus. It is not
// safe for concurrent use; the owning session serializes access.
type History struct {
	stack []*Snapshot
	focus Focus

	now   func() time.Time
	newID func() string
}

// New creates an empty history focused on source, centered on source.
func New(source, target graph.NodeID) *History {
	return &History{
		focus: Focus{Source: source, Target: target, Center: source},
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Snapshot captures g's current edge attributes and pushes them.
func (h *History) Snapshot(g *graph.Graph) (*Snapshot, error) {
	edges := g.Edges()
	raw := encodeAttrs(edges)
	data := snappy.Encode(nil, raw)

	s := &Snapshot{
		ID:           h.newID(),
		Taken:        h.now(),
		Edges:        len(edges),
		data:         data,
		checksum:     crc32.ChecksumIEEE(data),
		uncompressed: len(raw),
	}
	h.stack = append(h.stack, s)
	return s, nil
}

// Restore pops the most recent snapshot and writes its attributes back into
// g. On any failure the graph and the stack are left unchanged.
func (h *History) Restore(g *graph.Graph) error {
	if len(h.stack) == 0 {
		return ErrEmptyHistory
	}
	top := h.stack[len(h.stack)-1]

	attrs, err := top.Attrs()
	if err != nil {
		return err
	}
	if err := g.ReplaceAttrs(attrs); err != nil {
		return fmt.Errorf("restore snapshot %s: %w", top.ID, err)
	}

	h.stack[len(h.stack)-1] = nil
	h.stack = h.stack[:len(h.stack)-1]
	return nil
}

// Latest returns the most recent snapshot without popping it.
func (h *History) Latest() (*Snapshot, bool) {
	if len(h.stack) == 0 {
		return nil, false
	}
	return h.stack[len(h.stack)-1], true
}

// Len returns the stack depth.
func (h *History) Len() int {
	return len(h.stack)
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.stack = nil
}

// Stats reports stack depth and memory use.
func (h *History) Stats() Stats {
	st := Stats{Depth: len(h.stack)}
	for _, s := range h.stack {
		st.BytesUncompressed += s.uncompressed
		st.BytesCompressed += len(s.data)
	}
	return st
}

// Focus returns the current view state.
func (h *History) Focus() Focus {
	return h.focus
}

// SetFocus changes the flow endpoints. The center is left where it is.
func (h *History) SetFocus(source, target graph.NodeID) {
	h.focus.Source = source
	h.focus.Target = target
}

// JumpTo centers the view on id. It never touches the graph.
func (h *History) JumpTo(id graph.NodeID) {
	h.focus.Center = id
}

// JumpToSource centers the view on the focus source.
func (h *History) JumpToSource() {
	h.focus.Center = h.focus.Source
}

// JumpToTarget centers the view on the focus target.
func (h *History) JumpToTarget() {
	h.focus.Center = h.focus.Target
}
