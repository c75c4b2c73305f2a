package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	"github.com/sweetpotato0/ai-uigen/generation"
)

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Busy bool `json:"busy"`
}

// httpPresenter remembers which callback fired.
type httpPresenter struct {
	result          *generation.Result
	validationError string
	failure         string
}

func (p *httpPresenter) OnValidationError(message string) { p.validationError = message }
func (p *httpPresenter) OnResult(result *generation.Result) { p.result = result }
func (p *httpPresenter) OnTerminalFailure(message string) { p.failure = message }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := RenderIndexPage(IndexPageData{Model: s.cfg.Model})
	if err != nil {
		s.logger.Error("render index page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, APIError{
			Code:    CodeBadRequest,
			Message: "request body must be a JSON object",
			Hint:    `Send {"prompt": "<description>"}.`,
		})
		return
	}

	p := &httpPresenter{}
	err := s.cfg.Generator.Trigger(r.Context(), req.Prompt, p)
	switch {
	case errors.Is(err, errorskg.ErrBusy):
		WriteAPIError(w, http.StatusConflict, APIError{
			Code:    CodeBusy,
			Message: "A generation is already in progress.",
			Hint:    "Wait for the current generation to finish, then try again.",
		})
	case p.validationError != "":
		WriteAPIError(w, http.StatusBadRequest, APIError{
			Code:    CodeEmptyPrompt,
			Message: p.validationError,
		})
	case p.result != nil:
		writeJSON(w, http.StatusOK, p.result)
	default:
		msg := p.failure
		if msg == "" {
			msg = "Failed to generate code. Please try again."
		}
		WriteAPIError(w, http.StatusBadGateway, APIError{
			Code:    CodeGenerationFailed,
			Message: msg,
		})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Busy: s.cfg.Generator.Busy()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
