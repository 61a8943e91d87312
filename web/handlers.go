/* handlers.go
 * HTTP handlers. Each one decodes its request, calls the api and encodes the result as JSON
 */

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"scoreline-bot/api/api"
	"scoreline-bot/api/format"
	"scoreline-bot/api/parser"
	"scoreline-bot/api/shared"
	"scoreline-bot/api/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies; a score is a few dozen characters
const maxBodyBytes = 16 << 10

// handleParse parses the input of a POST body, or of the input and format query parameters on GET
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if r.Method == http.MethodGet {
		req.Input = r.URL.Query().Get("input")
		req.Format = r.URL.Query().Get("format")
	} else if !decode(w, r, &req) {
		return
	}

	result, err := s.api.ParseScore(r.Context(), req.Input, req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.parseOutcomes.WithLabelValues(outcome(result)).Inc()
	writeJSON(w, http.StatusOK, result)
}

// handleSubmit parses and stores a score
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !decode(w, r, &req) {
		return
	}

	user := shared.User{UserID: req.UserID, Username: req.Username}
	record, err := s.api.SubmitScore(r.Context(), user, req.MatchID, req.Input, req.Format)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// handleGetScore returns the latest score of a match
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	record, err := s.api.GetMatchScore(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleGetHistory returns every score submitted for a match
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.api.GetMatchHistory(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleFormats lists the named formats
func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.api.ListFormats())
}

func outcome(result *parser.ParseResult) string {
	switch {
	case !result.Valid:
		return "invalid"
	case result.Incomplete:
		return "incomplete"
	}
	return "valid"
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

// writeAPIError maps api errors to status codes, logging only server side failures
func writeAPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, api.ErrInvalidScore):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, api.ErrMissingMatchID), errors.Is(err, format.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, api.ErrNoStore):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
