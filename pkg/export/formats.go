package export

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/flowattack/pkg/graph"
)

var csvHeader = []string{"source", "target", "capacity", "weight", "flag"}

// exportCSV writes one row per edge in ascending key order.
func exportCSV(writer io.Writer, g *graph.Graph) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range g.Edges() {
		record := []string{
			strconv.Itoa(int(e.From)),
			strconv.Itoa(int(e.To)),
			strconv.FormatInt(e.Capacity, 10),
			strconv.FormatFloat(e.Weight, 'g', -1, 64),
			strconv.Itoa(e.Flag),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type graphML struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// exportGraphML writes a directed GraphML document. Node ids are the raw
// numeric ids; the display label travels as node data.
func exportGraphML(writer io.Writer, g *graph.Graph) error {
	doc := graphML{
		XMLNS: graphMLNamespace,
		Keys: []graphMLKey{
			{ID: "label", For: "node", AttrName: "label", AttrType: "string"},
			{ID: "capacity", For: "edge", AttrName: "capacity", AttrType: "long"},
			{ID: "weight", For: "edge", AttrName: "weight", AttrType: "double"},
			{ID: "flag", For: "edge", AttrName: "flag", AttrType: "int"},
		},
		Graph: graphMLGraph{ID: "G", EdgeDefault: "directed"},
	}

	for _, id := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphMLNode{
			ID:   strconv.Itoa(int(id)),
			Data: []graphMLData{{Key: "label", Value: graph.Label(id)}},
		})
	}
	for i, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphMLEdge{
			ID:     "e" + strconv.Itoa(i),
			Source: strconv.Itoa(int(e.From)),
			Target: strconv.Itoa(int(e.To)),
			Data: []graphMLData{
				{Key: "capacity", Value: strconv.FormatInt(e.Capacity, 10)},
				{Key: "weight", Value: strconv.FormatFloat(e.Weight, 'g', -1, 64)},
				{Key: "flag", Value: strconv.Itoa(e.Flag)},
			},
		})
	}

	if _, err := io.WriteString(writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode GraphML: %w", err)
	}
	_, err := io.WriteString(writer, "\n")
	return err
}
