package export

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dd0wney/flowattack/pkg/graph"
)

// Degree is one entry of a degree ranking.
type Degree struct {
	Node   graph.NodeID `json:"node"`
	Label  string       `json:"label"`
	Degree int          `json:"degree"`
}

// Summary ranks nodes by out, in and total degree.
type Summary struct {
	Nodes    int      `json:"nodes"`
	Edges    int      `json:"edges"`
	TopOut   []Degree `json:"topOut"`
	TopIn    []Degree `json:"topIn"`
	TopTotal []Degree `json:"topTotal"`
}

// Summarize counts degrees over every edge regardless of capacity. Each
// ranking lists at most topK nodes, highest degree first, ties by id.
// Nodes with degree zero are left out of the out and in rankings.
func Summarize(g *graph.Graph, topK int) Summary {
	if topK <= 0 {
		topK = DefaultTopK
	}

	out := map[graph.NodeID]int{}
	in := map[graph.NodeID]int{}
	for _, e := range g.Edges() {
		out[e.From]++
		in[e.To]++
	}
	total := make(map[graph.NodeID]int, g.NodeCount())
	for _, id := range g.Nodes() {
		total[id] = out[id] + in[id]
	}

	return Summary{
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
		TopOut:   rank(out, topK),
		TopIn:    rank(in, topK),
		TopTotal: rank(total, topK),
	}
}

func rank(counts map[graph.NodeID]int, k int) []Degree {
	ranked := make([]Degree, 0, len(counts))
	for id, d := range counts {
		ranked = append(ranked, Degree{Node: id, Label: graph.Label(id), Degree: d})
	}
	slices.SortFunc(ranked, func(a, b Degree) int {
		if c := cmp.Compare(b.Degree, a.Degree); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Write renders the summary as plain text.
func (s Summary) Write(w io.Writer) error {
	var b strings.Builder
	b.WriteString("=== Summary ===\n")
	fmt.Fprintf(&b, "Nodes: %d\n", s.Nodes)
	fmt.Fprintf(&b, "Edges: %d\n", s.Edges)
	writeRanking(&b, "Top out-degree", s.TopOut)
	writeRanking(&b, "Top in-degree", s.TopIn)
	writeRanking(&b, "Top total degree", s.TopTotal)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRanking(b *strings.Builder, title string, ds []Degree) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, d := range ds {
		fmt.Fprintf(b, "  %s: %d\n", d.Label, d.Degree)
	}
}
