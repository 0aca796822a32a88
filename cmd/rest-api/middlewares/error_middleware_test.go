package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
)

// Mock handler that can simulate various scenarios
type mockHandler struct {
	action func(w http.ResponseWriter, r *http.Request)
}

func (m *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.action != nil {
		m.action(w, r)
	}
}

func TestErrorMiddleware_ContextErrors(t *testing.T) {
	tests := []struct {
		name           string
		contextError   error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "CodedError in context",
			contextError:   common.NewCodedError(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", nil),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
			expectedMsg:    "Invalid input",
		},
		{
			name:           "Not found error in context",
			contextError:   common.NewErrNotFound(common.ResourceTypeLobby, "id", "abc"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "Forbidden error in context",
			contextError:   common.NewErrForbidden(""),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:           "Generic error converted to internal error",
			contextError:   &testError{message: "something went wrong"},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_SERVER_ERROR",
			expectedMsg:    "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{
				action: func(w http.ResponseWriter, r *http.Request) {
					ctx := common.SetError(r.Context(), tt.contextError)
					*r = *r.WithContext(ctx)
				},
			}

			middleware := ErrorMiddleware(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			rr := httptest.NewRecorder()

			middleware.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			if contentType := rr.Header().Get("Content-Type"); contentType != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", contentType)
			}

			var env controllers.Envelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("Failed to parse error response: %v", err)
			}

			if env.Status != "error" {
				t.Errorf("Expected status 'error', got %s", env.Status)
			}
			if env.Error == nil {
				t.Fatal("Expected error object in envelope")
			}
			if env.Error.Code != tt.expectedCode {
				t.Errorf("Expected error code %s, got %s", tt.expectedCode, env.Error.Code)
			}
			if tt.expectedMsg != "" && env.Error.Message != tt.expectedMsg {
				t.Errorf("Expected error message %s, got %s", tt.expectedMsg, env.Error.Message)
			}
		})
	}
}

func TestErrorMiddleware_RequestContextErrors(t *testing.T) {
	tests := []struct {
		name           string
		setupContext   func() context.Context
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Cancelled context",
			setupContext: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			expectedStatus: http.StatusRequestTimeout,
			expectedCode:   "REQUEST_CANCELLED",
		},
		{
			name: "Deadline exceeded context",
			setupContext: func() context.Context {
				ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
				defer cancel()
				time.Sleep(1 * time.Millisecond)
				return ctx
			},
			expectedStatus: http.StatusRequestTimeout,
			expectedCode:   "REQUEST_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{
				action: func(w http.ResponseWriter, r *http.Request) {},
			}

			middleware := ErrorMiddleware(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			req = req.WithContext(tt.setupContext())
			rr := httptest.NewRecorder()

			middleware.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			var env controllers.Envelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("Failed to parse error response: %v", err)
			}

			if env.Error == nil || env.Error.Code != tt.expectedCode {
				t.Errorf("Expected error code %s, got %+v", tt.expectedCode, env.Error)
			}
		})
	}
}

func TestErrorMiddleware_HTTPStatusErrors(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		expectedStatus int
	}{
		{name: "Bad Request status", statusCode: http.StatusBadRequest, expectedStatus: http.StatusBadRequest},
		{name: "Unauthorized status", statusCode: http.StatusUnauthorized, expectedStatus: http.StatusUnauthorized},
		{name: "Not Found status", statusCode: http.StatusNotFound, expectedStatus: http.StatusNotFound},
		{name: "Internal Server Error status", statusCode: http.StatusInternalServerError, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{
				action: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.statusCode)
				},
			}

			middleware := ErrorMiddleware(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			rr := httptest.NewRecorder()

			middleware.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}

func TestErrorMiddleware_HTTPProtocolSafety(t *testing.T) {
	t.Run("Prevents multiple header writes", func(t *testing.T) {
		handler := &mockHandler{
			action: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"data": "test"}`))
			},
		}

		middleware := ErrorMiddleware(handler)
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rr.Code)
		}
	})

	t.Run("Handles successful response", func(t *testing.T) {
		testData := map[string]string{"message": "success"}

		handler := &mockHandler{
			action: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(testData)
			},
		}

		middleware := ErrorMiddleware(handler)
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rr.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}

		if resp["message"] != "success" {
			t.Errorf("Expected message 'success', got %s", resp["message"])
		}
	})
}

func TestErrorMiddleware_ErrorPrecedence(t *testing.T) {
	t.Run("Context error takes precedence over status error", func(t *testing.T) {
		contextErr := common.NewCodedError(http.StatusBadRequest, "CONTEXT_ERROR", "Context error message", nil)

		handler := &mockHandler{
			action: func(w http.ResponseWriter, r *http.Request) {
				ctx := common.SetError(r.Context(), contextErr)
				*r = *r.WithContext(ctx)
			},
		}

		middleware := ErrorMiddleware(handler)
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 (from context), got %d", rr.Code)
		}

		var env controllers.Envelope
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("Failed to parse error response: %v", err)
		}

		if env.Error == nil || env.Error.Code != "CONTEXT_ERROR" {
			t.Errorf("Expected CONTEXT_ERROR, got %+v", env.Error)
		}
	})
}

func TestErrorResponseWriter_Implementation(t *testing.T) {
	t.Run("Tracks status code correctly", func(t *testing.T) {
		rw := &errorResponseWriter{
			ResponseWriter: httptest.NewRecorder(),
			statusCode:     http.StatusOK,
			headerWritten:  false,
		}

		rw.WriteHeader(http.StatusNotFound)
		if rw.statusCode != http.StatusNotFound {
			t.Errorf("Expected status code 404, got %d", rw.statusCode)
		}

		if !rw.headerWritten {
			t.Error("Expected headerWritten to be true")
		}
	})

	t.Run("Write sets header if not already written", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		rw := &errorResponseWriter{
			ResponseWriter: recorder,
			statusCode:     http.StatusOK,
			headerWritten:  false,
		}

		data := []byte("test data")
		n, err := rw.Write(data)

		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		if n != len(data) {
			t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
		}

		if !rw.headerWritten {
			t.Error("Expected headerWritten to be true after Write")
		}

		if recorder.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", recorder.Code)
		}
	})

	t.Run("writeErrorResponse only writes if header not written", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		rw := &errorResponseWriter{
			ResponseWriter: recorder,
			statusCode:     http.StatusOK,
			headerWritten:  false,
		}

		ce := common.NewCodedError(http.StatusBadRequest, "TEST_ERROR", "Test error message", nil)
		rw.writeErrorResponse(ce)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", recorder.Code)
		}

		ce2 := common.NewCodedError(http.StatusInternalServerError, "IGNORED", "Should be ignored", nil)
		rw.writeErrorResponse(ce2)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected status to remain 400, got %d", recorder.Code)
		}
	})
}

type testError struct {
	message string
}

func (e *testError) Error() string {
	return e.message
}

func BenchmarkErrorMiddleware_SuccessPath(b *testing.B) {
	handler := &mockHandler{
		action: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "ok"}`))
		},
	}

	middleware := ErrorMiddleware(handler)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)
	}
}

func BenchmarkErrorMiddleware_ContextError(b *testing.B) {
	handler := &mockHandler{
		action: func(w http.ResponseWriter, r *http.Request) {
			ctx := common.SetError(r.Context(), common.NewErrForbidden(""))
			*r = *r.WithContext(ctx)
		},
	}

	middleware := ErrorMiddleware(handler)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)
	}
}
