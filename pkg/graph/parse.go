package graph

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const maxLineBytes = 16 << 20

// Load reads a line-oriented graph description:
//
//	<source>: (<dest>, <capacity>, <weight>, <flag>) (<dest>, ...) ...
//
// Groups may be separated by whitespace, ';' or ','. Blank lines and lines
// starting with '#' are ignored.
//
// Loading is best-effort. A line with any malformed group is rejected as a
// whole and parsing continues with the next line. The returned graph is never
// nil; when lines were rejected the error is a ParseErrors listing all of
// them. Read failures abort the load and are returned as-is.
func Load(r io.Reader) (*Graph, error) {
	g := New()
	var errs ParseErrors

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		src, edges, err := parseLine(line)
		if err != nil {
			errs = append(errs, &ParseError{Line: lineNo, Reason: err.Error()})
			continue
		}

		g.AddNode(src)
		for _, e := range edges {
			// parseLine has already validated every field
			if err := g.PutEdge(e.EdgeKey, e.EdgeAttrs); err != nil {
				errs = append(errs, &ParseError{Line: lineNo, Reason: err.Error()})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return g, fmt.Errorf("read graph description at line %d: %w", lineNo+1, err)
	}

	if len(errs) > 0 {
		return g, errs
	}
	return g, nil
}

// LoadString is Load over an in-memory description.
func LoadString(text string) (*Graph, error) {
	return Load(strings.NewReader(text))
}

func parseLine(line string) (NodeID, []Edge, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return 0, nil, fmt.Errorf("missing ':' after source id")
	}

	srcText := strings.TrimSpace(line[:colon])
	src, err := strconv.Atoi(srcText)
	if err != nil || src < 0 {
		return 0, nil, fmt.Errorf("invalid source id %q", srcText)
	}

	var edges []Edge
	rest := line[colon+1:]
	for group := 1; ; group++ {
		rest = strings.TrimLeft(rest, " \t;,")
		if rest == "" {
			break
		}
		if rest[0] != '(' {
			return 0, nil, fmt.Errorf("unexpected %q outside an edge group", clip(rest))
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return 0, nil, fmt.Errorf("edge group %d is not closed", group)
		}

		dst, attrs, err := parseGroup(rest[1:end])
		if err != nil {
			return 0, nil, fmt.Errorf("edge group %d: %w", group, err)
		}
		edges = append(edges, Edge{
			EdgeKey:   EdgeKey{From: NodeID(src), To: dst},
			EdgeAttrs: attrs,
		})
		rest = rest[end+1:]
	}

	return NodeID(src), edges, nil
}

func parseGroup(group string) (NodeID, EdgeAttrs, error) {
	fields := strings.Split(group, ",")
	if len(fields) != 4 {
		return 0, EdgeAttrs{}, fmt.Errorf("has %d fields, want 4", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	dst, err := strconv.Atoi(fields[0])
	if err != nil || dst < 0 {
		return 0, EdgeAttrs{}, fmt.Errorf("invalid destination id %q", fields[0])
	}

	capacity, err := parseCapacity(fields[1])
	if err != nil {
		return 0, EdgeAttrs{}, err
	}

	weight, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return 0, EdgeAttrs{}, fmt.Errorf("invalid weight %q", fields[2])
	}

	flag, err := parseFlag(fields[3])
	if err != nil {
		return 0, EdgeAttrs{}, err
	}

	return NodeID(dst), EdgeAttrs{Capacity: capacity, Weight: weight, Flag: flag}, nil
}

// parseCapacity accepts integer or float text. Floats are floored.
func parseCapacity(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative capacity %q", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid capacity %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative capacity %q", s)
	}
	if f >= math.MaxInt64 {
		return 0, fmt.Errorf("capacity %q out of range", s)
	}
	return int64(math.Floor(f)), nil
}

// parseFlag accepts "1" or "1.0"; the value must be a non-negative integer.
func parseFlag(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative flag %q", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("invalid flag %q", s)
	}
	return int(f), nil
}

func clip(s string) string {
	if len(s) > 16 {
		return s[:16] + "..."
	}
	return s
}
