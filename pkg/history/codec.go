package history

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/dd0wney/flowattack/pkg/graph"
)

var errCorruptSnapshot = errors.New("corrupt snapshot")

// encodeAttrs serializes an attribute mapping in ascending key order.
//
// Format: [count:uvarint] then per edge
// [from:uvarint][to:uvarint][capacity:uvarint][weight:8 big-endian float bits][flag:uvarint]
func encodeAttrs(edges []graph.Edge) []byte {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(edges)*24)
	buf = binary.AppendUvarint(buf, uint64(len(edges)))
	for _, e := range edges {
		buf = binary.AppendUvarint(buf, uint64(e.From))
		buf = binary.AppendUvarint(buf, uint64(e.To))
		buf = binary.AppendUvarint(buf, uint64(e.Capacity))
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(e.Weight))
		buf = binary.AppendUvarint(buf, uint64(e.Flag))
	}
	return buf
}

func decodeAttrs(data []byte) (map[graph.EdgeKey]graph.EdgeAttrs, error) {
	r := &reader{data: data}
	count := r.uvarint()
	if r.err != nil {
		return nil, r.err
	}
	// every record takes at least 12 bytes
	if count > uint64(len(data)/12+1) {
		return nil, fmt.Errorf("%w: edge count %d exceeds payload", errCorruptSnapshot, count)
	}

	m := make(map[graph.EdgeKey]graph.EdgeAttrs, count)
	for i := uint64(0); i < count; i++ {
		key := graph.EdgeKey{From: graph.NodeID(r.uvarint()), To: graph.NodeID(r.uvarint())}
		attrs := graph.EdgeAttrs{
			Capacity: int64(r.uvarint()),
			Weight:   math.Float64frombits(r.uint64()),
			Flag:     int(r.uvarint()),
		}
		if r.err != nil {
			return nil, fmt.Errorf("record %d: %w", i, r.err)
		}
		m[key] = attrs
	}
	if len(r.data) != r.off {
		return nil, fmt.Errorf("%w: %d trailing bytes", errCorruptSnapshot, len(r.data)-r.off)
	}
	return m, nil
}

// reader remembers the first failure so decodeAttrs can check once per record.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		r.err = fmt.Errorf("%w: bad varint at offset %d", errCorruptSnapshot, r.off)
		return 0
	}
	r.off += n
	return v
}

func (r *reader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	if len(r.data)-r.off < 8 {
		r.err = fmt.Errorf("%w: short read at offset %d", errCorruptSnapshot, r.off)
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}
