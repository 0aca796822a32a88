package common

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPResponse is the envelope every HTTP endpoint in the core returns
// (spec §6): {status, data, error}.
type HTTPResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorDTO   `json:"error,omitempty"`
}

type ErrorDTO struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := HTTPResponse{Status: "success", Data: data}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusCreated, data)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes the error envelope for an explicit code/status pair.
func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := HTTPResponse{Status: "error", Error: &ErrorDTO{Code: code, Message: message, Details: details}}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteErrorFromDomainError maps a domain error to the wire envelope. A
// *CodedError carries its own status/code (spec §7); anything else is an
// unmapped programming error and is scrubbed to INTERNAL_SERVER_ERROR.
func WriteErrorFromDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	if ce, ok := err.(*CodedError); ok {
		WriteError(w, ce.Status, ce.Code, ce.Message, ce.Details)
		return
	}

	requestID, _ := ctx.Value(RequestIDKey).(string)
	slog.ErrorContext(ctx, "unhandled internal error", "error", err, "request_id", requestID)
	WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "an unexpected error occurred", nil)
}
