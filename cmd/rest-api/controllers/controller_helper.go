package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	common "github.com/matchforge/platform/pkg/domain"
)

// PathUUID parses the named mux path variable as a UUID, writing a 400
// response and returning ok=false on failure.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		WriteBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// ControllerHelper provides utility methods shared by the matchmaking,
// lobby, chat, and notification controllers.
type ControllerHelper struct{}

func NewControllerHelper() *ControllerHelper {
	return &ControllerHelper{}
}

// DecodeJSONRequest decodes JSON request body into dest, writing a 400
// response directly on failure.
func (h *ControllerHelper) DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode request", "err", err)
		WriteBadRequest(w, "invalid request body")
		return err
	}
	return nil
}

// DecodeJSONRequestWithContext decodes JSON and stores a failure on the
// context for ErrorMiddleware to translate.
func (h *ControllerHelper) DecodeJSONRequestWithContext(r *http.Request, dest interface{}) (context.Context, error) {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode request", "err", err)
		apiErr := common.NewCodedError(http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return common.SetError(r.Context(), apiErr), err
	}
	return r.Context(), nil
}

// HandleError writes a response for err, mapping a *common.CodedError to
// its wire shape and anything else to a 500. Returns true if err was
// non-nil (so callers can `if h.HandleError(...) { return }`).
func (h *ControllerHelper) HandleError(w http.ResponseWriter, r *http.Request, err error, logMessage string) bool {
	if err == nil {
		return false
	}

	slog.ErrorContext(r.Context(), logMessage, "err", err)

	if ce, ok := err.(*common.CodedError); ok {
		WriteError(w, ce.Status, ce.Code, ce.Message, detailString(ce.Details))
		return true
	}

	WriteInternalError(w)
	return true
}

// HandleErrorWithContext stores err on the context for ErrorMiddleware.
func (h *ControllerHelper) HandleErrorWithContext(r *http.Request, err error, logMessage string) (context.Context, bool) {
	if err == nil {
		return r.Context(), false
	}

	slog.ErrorContext(r.Context(), logMessage, "err", err)
	return common.SetError(r.Context(), err), true
}

func (h *ControllerHelper) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	if statusCode == http.StatusNoContent {
		WriteNoContent(w)
		return
	}
	WriteJSON(w, statusCode, Envelope{Status: "success", Data: data})
}

func (h *ControllerHelper) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	h.WriteSuccess(w, r, data, http.StatusCreated)
}

func (h *ControllerHelper) WriteOK(w http.ResponseWriter, r *http.Request, data interface{}) {
	h.WriteSuccess(w, r, data, http.StatusOK)
}

func (h *ControllerHelper) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	h.WriteSuccess(w, r, nil, http.StatusNoContent)
}

func (h *ControllerHelper) WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteBadRequest(w, message)
}

func detailString(details interface{}) string {
	if s, ok := details.(string); ok {
		return s
	}
	return ""
}
