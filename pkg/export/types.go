// Package export writes a graph out for offline analysis: an edge CSV, a
// GraphML document, or a degree summary, to a local directory or an S3
// bucket.
package export

import (
	"fmt"
	"strings"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatGraphML Format = "graphml"
	FormatSummary Format = "summary"
	FormatJSON    Format = "json"
)

// DefaultTopK is the number of nodes listed per summary ranking.
const DefaultTopK = 10

// Options controls an export.
type Options struct {
	Format Format
	// TopK applies to the summary format; <= 0 means DefaultTopK.
	TopK int
	// Pretty indents JSON output.
	Pretty bool
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatGraphML, FormatSummary, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatGraphML:
		return ".graphml"
	case FormatSummary:
		return ".txt"
	case FormatJSON:
		return ".json"
	}
	return ".csv"
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatGraphML:
		return "application/xml"
	case FormatSummary:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "text/csv"
}
