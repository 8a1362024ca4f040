package server

import (
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/opheus2/form-schema-validator/pkg/result"
)

// Error types reported in ErrorResponse.
const (
	ErrTypeInvalidRequest = "invalid_request_error"
	ErrTypeNotFound       = "not_found_error"
	ErrTypeTooLarge       = "request_too_large"
	ErrTypeInternal       = "internal_error"
)

// ValidationResponse is returned by both validation endpoints.
type ValidationResponse struct {
	Valid  bool           `json:"valid"`
	Form   string         `json:"form,omitempty"`
	Errors *result.Result `json:"errors"`
}

// FormsResponse lists the loaded schema names.
type FormsResponse struct {
	Forms []string `json:"forms"`
}

// ErrorResponse describes a request that could not be processed.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the body of ErrorResponse.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigStd.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Type: errType, Message: message}})
}
