package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

type stubResolver struct {
	sessions map[string]*domain.Session
	err      error
	calls    int
}

func (s *stubResolver) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, fmt.Errorf("token rejected: %w", domain.ErrInvalidToken)
	}
	return sess, nil
}

func protectedHandler(ran *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		if _, ok := SessionFrom(r.Context()); !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]*domain.Session{
		"good": mocks.NewTestSession("u1", domain.RoleUser, "f1"),
	}}
	auth := NewAuthMiddleware(resolver, "/login")

	tests := []struct {
		name         string
		header       string
		accept       string
		wantStatus   int
		wantLocation string
		wantError    string
		wantRan      bool
	}{
		{name: "valid_token", header: "Bearer good", wantStatus: http.StatusOK, wantRan: true},
		{name: "missing_header_api", wantStatus: http.StatusUnauthorized, wantError: domain.ErrNoCredential.Error()},
		{name: "missing_header_browser", accept: "text/html,application/xhtml+xml", wantStatus: http.StatusSeeOther, wantLocation: "/login"},
		{name: "wrong_scheme", header: "Basic dTpw", wantStatus: http.StatusUnauthorized, wantError: domain.ErrInvalidToken.Error()},
		{name: "unknown_token", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
		{name: "unknown_token_browser", header: "Bearer forged", accept: "text/html", wantStatus: http.StatusSeeOther, wantLocation: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			auth.RequireSession(protectedHandler(&ran)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if ran != tt.wantRan {
				t.Errorf("protected handler ran=%v, want %v", ran, tt.wantRan)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("expected redirect to %s, got %q", tt.wantLocation, rec.Header().Get("Location"))
			}
			if rec.Code == http.StatusUnauthorized {
				var body authError
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("invalid body: %v", err)
				}
				if body.LoginURL != "/login" {
					t.Errorf("expected login_url, got %+v", body)
				}
				if tt.wantError != "" && body.Error != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, body.Error)
				}
			}
		})
	}
}

func TestRequireSession_BackendFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "scope_lookup_failed", err: fmt.Errorf("%w: timeout", domain.ErrScopeUnavailable), wantStatus: http.StatusBadGateway},
		{name: "store_down", err: errors.New("redis: connection refused"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			auth := NewAuthMiddleware(&stubResolver{err: tt.err}, "/login")
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set("Authorization", "Bearer anything")
			rec := httptest.NewRecorder()

			auth.RequireSession(protectedHandler(&ran)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if ran {
				t.Error("protected handler must not run")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{role: domain.RoleAdministrator, wantStatus: http.StatusOK},
		{role: domain.RoleDeveloper, wantStatus: http.StatusOK},
		{role: domain.RoleUser, wantStatus: http.StatusForbidden},
		{role: "administrator", wantStatus: http.StatusForbidden},
		{role: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run("role_"+tt.role, func(t *testing.T) {
			resolver := &stubResolver{sessions: map[string]*domain.Session{
				"tok": mocks.NewTestSession("u1", tt.role),
			}}
			auth := NewAuthMiddleware(resolver, "/login")
			ran := false

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rec := httptest.NewRecorder()

			auth.RequireSession(auth.RequireAdmin(protectedHandler(&ran))).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if ran != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler ran=%v for role %q", ran, tt.role)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := CORSMiddleware([]string{"https://console.example.com"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "https://console.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "https://console.example.com" {
		t.Errorf("preflight not answered: %d %v", rec.Code, rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin must not be allowed")
	}
}
