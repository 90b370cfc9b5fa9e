package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
	}
	s.sess.Read(func(st session.State) {
		resp.SessionID = st.SessionID
		resp.Nodes = st.Graph.NodeCount()
		resp.Edges = st.Graph.EdgeCount()
		resp.HistoryDepth = st.HistoryDepth
	})
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.sess.GraphData())
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, err := s.sess.ResolveNode(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, "describe node", err)
		return
	}
	info, _ := s.sess.NodeInfo(id)
	s.respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleEdge(w http.ResponseWriter, r *http.Request) {
	key, err := s.edgeFromPath(r)
	if err != nil {
		s.respondErr(w, "describe edge", err)
		return
	}
	info, ok := s.sess.EdgeInfo(key)
	if !ok {
		s.respondErr(w, "describe edge", fmt.Errorf("edge %s: %w", key.Labelled(), graph.ErrInvalidEdge))
		return
	}
	s.respondJSON(w, http.StatusOK, info)
}

func (s *Server) edgeFromPath(r *http.Request) (graph.EdgeKey, error) {
	from, err := s.sess.ResolveNode(r.PathValue("from"))
	if err != nil {
		return graph.EdgeKey{}, err
	}
	to, err := s.sess.ResolveNode(r.PathValue("to"))
	if err != nil {
		return graph.EdgeKey{}, err
	}
	return graph.EdgeKey{From: from, To: to}, nil
}

// endpoints reads two node references from the query string, defaulting to
// the focus source and target.
func (s *Server) endpoints(r *http.Request, fromKey, toKey string) (graph.NodeID, graph.NodeID, error) {
	q := r.URL.Query()
	fromRef := validation.DefaultOr(q.Get(fromKey), "source")
	toRef := validation.DefaultOr(q.Get(toKey), "target")

	from, err := s.sess.ResolveNode(fromRef)
	if err != nil {
		return 0, 0, err
	}
	to, err := s.sess.ResolveNode(toRef)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.endpoints(r, "from", "to")
	if err != nil {
		s.respondErr(w, "find paths", err)
		return
	}

	max := s.defaults.MaxPaths
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > validation.MaxPaths {
			s.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("max must be an integer between 1 and %d", validation.MaxPaths))
			return
		}
		max = n
	}

	found := s.sess.FindPaths(from, to, max)
	resp := PathsResponse{
		From:  graph.Label(from),
		To:    graph.Label(to),
		Paths: make([]PathResponse, len(found)),
		Count: len(found),
	}
	for i, p := range found {
		nodes := p.Nodes()
		labels := make([]string, len(nodes))
		for j, n := range nodes {
			labels[j] = graph.Label(n)
		}
		resp.Paths[i] = PathResponse{Nodes: labels, Text: p.String()}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	res, err := s.sess.MaxFlow()
	if err != nil {
		s.respondErr(w, "max flow", err)
		return
	}
	f := s.sess.Focus()
	s.respondJSON(w, http.StatusOK, FlowResponse{
		Source:  graph.Label(f.Source),
		Target:  graph.Label(f.Target),
		Value:   res.Value,
		Carrier: labelled(res.Carrying()),
	})
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	source, target, err := s.endpoints(r, "source", "target")
	if err != nil {
		s.respondErr(w, "resolve highlights", err)
		return
	}
	set := s.sess.ResolveHighlights(source, target)
	s.respondJSON(w, http.StatusOK, HighlightsResponse{
		Source:   graph.Label(source),
		Target:   graph.Label(target),
		Attacked: labelled(set.Edges(highlight.Attacked)),
		Forward:  labelled(set.Edges(highlight.ContextForward)),
		Backward: labelled(set.Edges(highlight.ContextBackward)),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.sess.Report())
}

func (s *Server) handleAffected(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.sess.AffectedPaths())
}

func (s *Server) handleBudgetedAttack(w http.ResponseWriter, r *http.Request) {
	var req validation.BudgetedAttackRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateBudgetedAttack(&req) }).
		RespondError() {
		return
	}

	sel, budget, err := session.BudgetedFromRequest(&req, s.defaults)
	if err != nil {
		s.respondErr(w, "budgeted attack", err)
		return
	}
	res, err := s.sess.BudgetedAttack(r.Context(), sel, budget)
	if err != nil {
		s.respondErr(w, "budgeted attack", err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleMultiStepAttack(w http.ResponseWriter, r *http.Request) {
	var req validation.MultiStepAttackRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateMultiStepAttack(&req) }).
		RespondError() {
		return
	}

	sel, steps, err := session.MultiStepFromRequest(&req, s.defaults)
	if err != nil {
		s.respondErr(w, "multi-step attack", err)
		return
	}
	res, err := s.sess.MultiStepAttack(r.Context(), sel, steps)
	if err != nil {
		s.respondErr(w, "multi-step attack", err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Restore(r.Context()); err != nil {
		s.respondErr(w, "restore", err)
		return
	}
	s.respondJSON(w, http.StatusOK, focusResponse(s.sess.Focus(), s.sess.HistoryLen()))
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req validation.JumpRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.Struct(&req) }).
		RespondError() {
		return
	}

	f, err := s.sess.Jump(r.Context(), req.Node)
	if err != nil {
		s.respondErr(w, "jump", err)
		return
	}
	s.respondJSON(w, http.StatusOK, focusResponse(f, s.sess.HistoryLen()))
}

func labelled(keys []graph.EdgeKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Labelled()
	}
	return out
}
