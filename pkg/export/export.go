package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/flowattack/pkg/graph"
)

// Export writes g to writer in the requested format.
func Export(writer io.Writer, g *graph.Graph, options Options) error {
	switch options.Format {
	case FormatCSV:
		return exportCSV(writer, g)
	case FormatGraphML:
		return exportGraphML(writer, g)
	case FormatSummary:
		return Summarize(g, options.TopK).Write(writer)
	case FormatJSON:
		return exportJSON(writer, g, options)
	default:
		return fmt.Errorf("unsupported export format: %s", options.Format)
	}
}

// Bytes renders g in memory.
func Bytes(g *graph.Graph, options Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, g, options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToFile writes g to filename, creating or truncating it.
func ExportToFile(filename string, g *graph.Graph, options Options) (retErr error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close export file: %w", closeErr)
		}
	}()

	return Export(file, g, options)
}

func exportJSON(writer io.Writer, g *graph.Graph, options Options) error {
	type edge struct {
		Source   graph.NodeID `json:"source"`
		Target   graph.NodeID `json:"target"`
		Capacity int64        `json:"capacity"`
		Weight   float64      `json:"weight"`
		Flag     int          `json:"flag"`
	}
	doc := struct {
		Nodes []graph.NodeID `json:"nodes"`
		Edges []edge         `json:"edges"`
	}{Nodes: g.Nodes(), Edges: make([]edge, 0, g.EdgeCount())}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{e.From, e.To, e.Capacity, e.Weight, e.Flag})
	}

	encoder := json.NewEncoder(writer)
	if options.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(doc)
}
