package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/model"
)

// TestLogging_TokenNeverLogged ensures session tokens are not logged.
func TestLogging_TokenNeverLogged(t *testing.T) {
	t.Parallel()

	token := "ctk_" + strings.Repeat("ab", 24)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{token, "Bearer " + token} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	logOutput := buf.String()
	for _, pattern := range []string{token, "ctk_", "Bearer"} {
		if strings.Contains(logOutput, pattern) {
			t.Errorf("log output contains %q", pattern)
		}
	}
}

// TestLogging_BasicFields verifies the non-sensitive request fields.
func TestLogging_BasicFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":true}`))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/contacts", nil)
	req.Header.Set("User-Agent", "TestBrowser/2.0")
	req.Header.Set(RequestIDHeader, "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not a single JSON record: %v\n%s", err, buf.String())
	}

	want := map[string]any{
		"msg":         "http request",
		"method":      "POST",
		"path":        "/api/contacts",
		"status_code": float64(201),
		"bytes":       float64(13),
		"user_agent":  "TestBrowser/2.0",
		"request_id":  "req-123",
	}
	for key, value := range want {
		if record[key] != value {
			t.Errorf("%s = %v, want %v", key, record[key], value)
		}
	}
	if _, ok := record["user_id"]; ok {
		t.Error("anonymous request should not log a user_id")
	}
}

// TestLogging_UserID verifies the authenticated user is attached to the record.
func TestLogging_UserID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = auth.ContextWithUser(r.Context(), &model.User{ID: "01HZX"})
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/contacts", nil))

	if !strings.Contains(buf.String(), `"user_id":"01HZX"`) {
		t.Errorf("expected user_id in log output, got: %s", buf.String())
	}
}

// TestLogging_ErrorStatusLevel verifies the level follows the status code.
func TestLogging_ErrorStatusLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
	}{
		{"implicit ok", 0, "INFO"},
		{"created", http.StatusCreated, "INFO"},
		{"bad request", http.StatusBadRequest, "WARN"},
		{"unauthorized", http.StatusUnauthorized, "WARN"},
		{"not found", http.StatusNotFound, "WARN"},
		{"internal error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.statusCode != 0 {
					w.WriteHeader(tt.statusCode)
				}
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

			if !strings.Contains(buf.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s, got output: %s", tt.wantLevel, buf.String())
			}
		})
	}
}
