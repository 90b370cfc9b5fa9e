package api

import (
	"time"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	SessionID    string    `json:"session_id"`
	Nodes        int       `json:"nodes"`
	Edges        int       `json:"edges"`
	HistoryDepth int       `json:"history_depth"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PathResponse is one enumerated path.
type PathResponse struct {
	Nodes []string `json:"nodes"`
	Text  string   `json:"text"`
}

// PathsResponse lists the paths between two nodes.
type PathsResponse struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Paths []PathResponse `json:"paths"`
	Count int            `json:"count"`
}

// FlowResponse is the current maximum flow between the focus endpoints.
type FlowResponse struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Value   int64    `json:"value"`
	Carrier []string `json:"carrying_edges"`
}

// HighlightsResponse groups edges by highlight category.
type HighlightsResponse struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Attacked []string `json:"attacked"`
	Forward  []string `json:"context_forward"`
	Backward []string `json:"context_backward"`
}

// FocusResponse reports the view focus after a jump or restore.
type FocusResponse struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Center       string `json:"center"`
	HistoryDepth int    `json:"history_depth"`
}

func focusResponse(f history.Focus, depth int) FocusResponse {
	return FocusResponse{
		Source:       graph.Label(f.Source),
		Target:       graph.Label(f.Target),
		Center:       graph.Label(f.Center),
		HistoryDepth: depth,
	}
}
