package logging

import "strings"

// Level represents a log level
type Level int

const (
	// DebugLevel covers per-edge detail such as individual reductions
	DebugLevel Level = iota
	// InfoLevel is the default: one line per engine operation
	InfoLevel
	// WarnLevel marks rejected input and refused operations
	WarnLevel
	// ErrorLevel marks failures the caller cannot recover from
	ErrorLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level. Unknown names map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
