package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	ErrInvalidEdge     = errors.New("edge not found")
	ErrInvalidCapacity = errors.New("capacity must be non-negative")
	ErrKeyMismatch     = errors.New("attribute set does not match graph edges")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string  // Operation that failed (e.g., "SetCapacity")
	Edge    EdgeKey // Edge involved
	HasEdge bool
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch {
	case e.HasEdge && e.Context != "":
		return fmt.Sprintf("%s edge %s (%s): %v", e.Op, e.Edge, e.Context, e.Cause)
	case e.HasEdge:
		return fmt.Sprintf("%s edge %s: %v", e.Op, e.Edge, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// errorBuilder provides a fluent interface for building GraphErrors.
type errorBuilder struct {
	e GraphError
}

func newError(op string) *errorBuilder {
	return &errorBuilder{e: GraphError{Op: op}}
}

func (b *errorBuilder) edge(k EdgeKey) *errorBuilder {
	b.e.Edge = k
	b.e.HasEdge = true
	return b
}

func (b *errorBuilder) context(format string, args ...any) *errorBuilder {
	b.e.Context = fmt.Sprintf(format, args...)
	return b
}

func (b *errorBuilder) cause(err error) *errorBuilder {
	b.e.Cause = err
	return b
}

func (b *errorBuilder) err() error {
	return &b.e
}

// ParseError reports a rejected line of a graph description.
type ParseError struct {
	Line   int // 1-based
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseErrors aggregates every rejected line of a load. It is returned next
// to a partially loaded graph.
type ParseErrors []*ParseError

func (pe ParseErrors) Error() string {
	if len(pe) == 1 {
		return "parse graph: " + pe[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "parse graph: %d lines rejected", len(pe))
	for i, e := range pe {
		if i == 5 {
			fmt.Fprintf(&b, "; and %d more", len(pe)-i)
			break
		}
		b.WriteString("; ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual line errors to errors.As.
func (pe ParseErrors) Unwrap() []error {
	errs := make([]error, len(pe))
	for i, e := range pe {
		errs[i] = e
	}
	return errs
}
