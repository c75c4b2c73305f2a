package server

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the JSON API.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeEmptyPrompt      = "EMPTY_PROMPT"
	CodeBusy             = "BUSY"
	CodeGenerationFailed = "GENERATION_FAILED"
)

// APIError is the body of every non-2xx API response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// WriteAPIError writes err as JSON with the given status.
func WriteAPIError(w http.ResponseWriter, status int, err APIError) {
	writeJSON(w, status, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
