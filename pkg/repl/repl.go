// Package repl interprets the line commands of the interactive shell. The
// same interpreter backs the flowattack repl and the TUI command bar.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

// ErrExit is returned by Execute for "exit" and "quit".
var ErrExit = errors.New("exit requested")

// REPL runs commands against one session.
type REPL struct {
	sess     *session.Session
	defaults config.AttackConfig
	out      io.Writer
	prompt   string
}

// New creates a REPL writing its output to out.
func New(sess *session.Session, defaults config.AttackConfig, out io.Writer) *REPL {
	return &REPL{sess: sess, defaults: defaults, out: out, prompt: "flowattack> "}
}

// Run reads commands from in until EOF or exit. Command errors are printed
// and do not stop the loop.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, r.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		err := r.Execute(ctx, scanner.Text())
		switch {
		case errors.Is(err, ErrExit):
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case err != nil:
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Execute runs a single command line.
func (r *REPL) Execute(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	args := parts[1:]

	switch strings.ToLower(parts[0]) {
	case "exit", "quit":
		return ErrExit
	case "help", "?":
		r.showHelp()
		return nil
	case "stats", "status":
		return r.showStats()
	case "node", "n":
		if len(args) != 1 {
			return usage("node <node>")
		}
		return r.showNode(args[0])
	case "edge", "e":
		if len(args) != 2 {
			return usage("edge <from> <to>")
		}
		return r.showEdge(args[0], args[1])
	case "paths", "p":
		return r.showPaths(args)
	case "flow", "f":
		return r.showFlow()
	case "budgeted", "b":
		return r.budgeted(ctx, args)
	case "multistep", "multi-step", "m":
		return r.multiStep(ctx, args)
	case "restore", "undo", "u":
		return r.restore(ctx)
	case "jump", "j":
		if len(args) != 1 {
			return usage("jump <node|source|target>")
		}
		return r.jump(ctx, args[0])
	case "source":
		return r.jump(ctx, "source")
	case "target", "aim":
		return r.jump(ctx, "target")
	case "highlights", "hl":
		return r.showHighlights()
	case "report", "r":
		r.showReport()
		return nil
	case "affected", "a":
		r.showAffected()
		return nil
	default:
		return fmt.Errorf("unknown command %q (type 'help')", parts[0])
	}
}

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

// ParseEdge parses "from:to" where each side is a label or an id, e.g.
// "N1:N4" or "0:3".
func ParseEdge(s string) (validation.EdgeRef, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return validation.EdgeRef{}, fmt.Errorf("%w: edge %q must look like N1:N2", validation.ErrInvalidRequest, s)
	}
	f, err := graph.ParseLabel(from)
	if err != nil {
		return validation.EdgeRef{}, fmt.Errorf("%w: %v", validation.ErrInvalidRequest, err)
	}
	t, err := graph.ParseLabel(to)
	if err != nil {
		return validation.EdgeRef{}, fmt.Errorf("%w: %v", validation.ErrInvalidRequest, err)
	}
	return validation.EdgeRef{From: int(f), To: int(t)}, nil
}

// attackArgs splits "[amount] [strategy | edge...]".
func attackArgs(args []string) (amount *int64, sel string, targets []validation.EdgeRef, err error) {
	if len(args) > 0 {
		if n, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
			amount = &n
			args = args[1:]
		}
	}
	for _, a := range args {
		switch a {
		case validation.SelectExplicit, validation.SelectFlow, validation.SelectPaths, validation.SelectCapacity:
			sel = a
			continue
		}
		ref, err := ParseEdge(a)
		if err != nil {
			return nil, "", nil, err
		}
		targets = append(targets, ref)
	}
	return amount, sel, targets, nil
}
