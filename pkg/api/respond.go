package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondErr maps engine errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic failure of operation.
func (s *Server) respondErr(w http.ResponseWriter, operation string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Operation(operation), logging.Error(err))
		s.respondError(w, status, fmt.Sprintf("%s failed", operation))
		return
	}
	s.respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidRequest),
		errors.Is(err, attack.ErrInvalidBudget),
		errors.Is(err, attack.ErrInvalidSteps):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrUnknownNode),
		errors.Is(err, graph.ErrInvalidEdge):
		return http.StatusNotFound
	case errors.Is(err, history.ErrEmptyHistory):
		return http.StatusConflict
	case errors.Is(err, attack.ErrInsufficientTargets):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// requestDecoder decodes and validates request bodies with a fluent
// interface. Check RespondError once at the end of the chain.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

func (s *Server) newRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{r: r, w: w, server: s}
}

// DecodeJSON decodes the body into v. An empty body leaves v untouched.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	dec := json.NewDecoder(rd.r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return rd
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		rd.err = fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		rd.statusCode = http.StatusRequestEntityTooLarge
		return rd
	}
	rd.err = fmt.Errorf("%w: invalid request body: %v", validation.ErrInvalidRequest, err)
	rd.statusCode = http.StatusBadRequest
	return rd
}

// Validate runs fn, typically one of the validation package checks.
func (rd *requestDecoder) Validate(fn func() error) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := fn(); err != nil {
		rd.err = err
		rd.statusCode = statusFor(err)
	}
	return rd
}

// RespondError sends the error response and returns true if there was an error.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}
