package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/service"
)

// stubAuthenticator accepts a single token.
type stubAuthenticator struct {
	token string
	user  *model.User
	err   error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != s.token {
		return nil, service.ErrUnauthorized
	}
	return s.user, nil
}

func newAuthHandler(authenticator Authenticator) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Auth(AuthConfig{Logger: logger, Authenticator: authenticator})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.MustUserFromContext(r.Context())
			_, _ = w.Write([]byte(user.ID))
		}),
	)
}

func TestAuth(t *testing.T) {
	t.Parallel()

	authenticator := &stubAuthenticator{token: "ctk_good", user: &model.User{ID: "01HZX"}}
	handler := newAuthHandler(authenticator)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"raw token", "ctk_good", http.StatusOK, "01HZX"},
		{"bearer token", "Bearer ctk_good", http.StatusOK, "01HZX"},
		{"missing header", "", http.StatusUnauthorized, `{"errors":{"message":["unauthorized"]}}` + "\n"},
		{"wrong token", "salah", http.StatusUnauthorized, `{"errors":{"message":["unauthorized"]}}` + "\n"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuth_StoreFailure(t *testing.T) {
	t.Parallel()

	handler := newAuthHandler(&stubAuthenticator{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	req.Header.Set("Authorization", "ctk_good")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
