package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
)

// ErrorMiddleware centralizes error-to-response translation so individual
// handlers can return a domain error instead of hand-writing a response.
// Handlers stash the error on the request context via common.SetError.
func ErrorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &errorResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		if err := common.GetError(r.Context()); err != nil && !rw.headerWritten {
			slog.ErrorContext(r.Context(), "request failed", "error", err)
			rw.writeErrorResponse(toCodedError(err))
			return
		}

		if ctxErr := r.Context().Err(); ctxErr != nil && !rw.headerWritten {
			slog.ErrorContext(r.Context(), "request context error", "error", ctxErr)
			switch ctxErr {
			case context.Canceled:
				rw.writeErrorResponse(common.NewCodedError(http.StatusRequestTimeout, "REQUEST_CANCELLED", "request was cancelled", nil))
			case context.DeadlineExceeded:
				rw.writeErrorResponse(common.NewCodedError(http.StatusRequestTimeout, "REQUEST_TIMEOUT", "request timed out", nil))
			default:
				rw.writeErrorResponse(common.NewCodedError(http.StatusInternalServerError, "CONTEXT_ERROR", ctxErr.Error(), nil))
			}
			return
		}

		if rw.statusCode >= 400 && !rw.headerWritten {
			slog.ErrorContext(r.Context(), "error status without response body", "status", rw.statusCode)
			rw.writeErrorResponse(common.NewCodedError(rw.statusCode, "ERROR", http.StatusText(rw.statusCode), nil))
		}
	})
}

func toCodedError(err error) *common.CodedError {
	if ce, ok := err.(*common.CodedError); ok {
		return ce
	}
	return common.NewCodedError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err.Error(), nil)
}

// errorResponseWriter tracks whether a handler already wrote a body, so the
// middleware only synthesizes an error envelope when nothing else did.
type errorResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func (rw *errorResponseWriter) WriteHeader(statusCode int) {
	if !rw.headerWritten {
		rw.statusCode = statusCode
		rw.headerWritten = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *errorResponseWriter) Write(data []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(data)
}

func (rw *errorResponseWriter) writeErrorResponse(ce *common.CodedError) {
	if rw.headerWritten {
		return
	}
	rw.headerWritten = true
	controllers.WriteJSON(rw.ResponseWriter, ce.Status, controllers.Envelope{
		Status: "error",
		Error: &controllers.APIError{
			Code:    ce.Code,
			Message: ce.Message,
			Details: detailsToString(ce.Details),
		},
	})
}

func detailsToString(details interface{}) string {
	if details == nil {
		return ""
	}
	if s, ok := details.(string); ok {
		return s
	}
	return ""
}
