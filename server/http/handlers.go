package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/patrolscribe/assistant/internal/faults"
	"github.com/patrolscribe/assistant/internal/service/report"
	"github.com/patrolscribe/assistant/store"
)

type createSessionRequest struct {
	Id string `json:"id,omitempty"`
}

type sessionResponse struct {
	Id string `json:"id"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := s.assistant.CreateSession(r.Context(), req.Id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Id: id})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assistant.ListSessionIds(r.Context()))
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decode(w, r, &req) {
		return
	}

	sessionId := mux.Vars(r)["id"]

	reply, err := s.assistant.SendMessage(r.Context(), sessionId, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, replyResponse{Reply: reply})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.assistant.ListMessages(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

type correctionRequest struct {
	Text string `json:"text"`
}

type correctionResponse struct {
	Result string `json:"result"`
}

func (s *Server) handleCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.assistant.Correct(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, correctionResponse{Result: result})
}

type validationRequest struct {
	PenalCodes []store.PenalCode `json:"penal_codes,omitempty"`
	ReportText string            `json:"report_text,omitempty"`
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	var req validationRequest
	if !decode(w, r, &req) {
		return
	}

	analysis, err := s.assistant.Validate(r.Context(), report.ValidateInput{
		PenalCodes: req.PenalCodes,
		ReportText: req.ReportText,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

type suggestionResponse struct {
	Suggestions string `json:"suggestions"`
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	var req validationRequest
	if !decode(w, r, &req) {
		return
	}

	suggestions, err := s.assistant.SuggestImprovements(r.Context(), report.SuggestInput{
		PenalCodes: req.PenalCodes,
		ReportText: req.ReportText,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionResponse{Suggestions: suggestions})
}

type exampleRequest struct {
	PenalCodes []store.PenalCode `json:"penal_codes,omitempty"`
	BaseText   string            `json:"base_text,omitempty"`
}

type exampleResponse struct {
	Example string `json:"example"`
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	var req exampleRequest
	if !decode(w, r, &req) {
		return
	}

	example, err := s.assistant.GenerateExample(r.Context(), report.ExampleInput{
		PenalCodes: req.PenalCodes,
		BaseText:   req.BaseText,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, exampleResponse{Example: example})
}

func (s *Server) handleCrimeElements(w http.ResponseWriter, r *http.Request) {
	element, err := s.assistant.CrimeElements(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, element)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, faults.ErrTurnInProgress):
		status = http.StatusConflict
	case errors.Is(err, faults.ErrPollTimeout):
		status = http.StatusGatewayTimeout
	case faults.IsUpstream(err), faults.IsParse(err), errors.Is(err, faults.ErrEmptyResponse):
		status = http.StatusBadGateway
	}

	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
