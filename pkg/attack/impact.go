package attack

import (
	"fmt"
	"strings"
)

// Severity grades how much an attack cut the source-to-target flow.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityModerate
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityModerate:
		return "Moderate"
	case SeverityHigh:
		return "High"
	default:
		return "None"
	}
}

// MarshalText renders the severity by name in JSON payloads.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by String, case-insensitively.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "none":
		*s = SeverityNone
	case "low":
		*s = SeverityLow
	case "moderate":
		*s = SeverityModerate
	case "high":
		*s = SeverityHigh
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Impact compares the maximum flow before and after an attack.
type Impact struct {
	FlowBefore int64    `json:"flowBefore"`
	FlowAfter  int64    `json:"flowAfter"`
	DropRatio  float64  `json:"dropRatio"`
	Severity   Severity `json:"severity"`
}

// MeasureImpact grades a flow drop: below 10% is Low, below 30% Moderate,
// anything more High. A graph that carried no flow has nothing to lose and
// grades None.
func MeasureImpact(flowBefore, flowAfter int64) Impact {
	im := Impact{FlowBefore: flowBefore, FlowAfter: flowAfter}
	if flowBefore <= 0 {
		return im
	}
	im.DropRatio = float64(flowBefore-flowAfter) / float64(flowBefore)
	switch {
	case im.DropRatio < 0.1:
		im.Severity = SeverityLow
	case im.DropRatio < 0.3:
		im.Severity = SeverityModerate
	default:
		im.Severity = SeverityHigh
	}
	return im
}
