package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type AuthMiddleware struct {
	sessions ports.SessionResolver
	loginURL string
}

func NewAuthMiddleware(sessions ports.SessionResolver, loginURL string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, loginURL: loginURL}
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession stores the resolved session on ctx.
func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFrom returns the session placed by RequireSession.
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*domain.Session)
	return sess, ok && sess != nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header. ok is false when no Authorization header was sent at all.
func BearerToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// RequireSession resolves the caller's session or sends them to the login
// page. Protected handlers never run without a session.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, sent := BearerToken(r)
		if !sent {
			m.redirectToLogin(w, r, domain.ErrNoCredential)
			return
		}
		if token == "" {
			m.redirectToLogin(w, r, domain.ErrInvalidToken)
			return
		}

		sess, err := m.sessions.ResolveSession(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNoCredential), errors.Is(err, domain.ErrInvalidToken):
			log.Printf("auth: rejected credential for %s %s: %v", r.Method, r.URL.Path, err)
			m.redirectToLogin(w, r, err)
			return
		case errors.Is(err, domain.ErrScopeUnavailable):
			log.Printf("auth: %v", err)
			writeError(w, http.StatusBadGateway, domain.ErrScopeUnavailable.Error())
			return
		default:
			log.Printf("auth: session lookup failed: %v", err)
			writeError(w, http.StatusServiceUnavailable, "session service unavailable")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireAdmin lets through Administrator and Developer sessions only. It
// must run inside RequireSession.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFrom(r.Context())
		if !ok {
			m.redirectToLogin(w, r, domain.ErrNoCredential)
			return
		}
		if !sess.IsAdmin() {
			log.Printf("auth: user %s with role %q denied %s %s", sess.UserID, sess.RoleName, r.Method, r.URL.Path)
			writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authError struct {
	Error    string `json:"error"`
	LoginURL string `json:"login_url"`
}

// redirectToLogin sends browsers a 303 to the login page and API clients a
// 401 naming it.
func (m *AuthMiddleware) redirectToLogin(w http.ResponseWriter, r *http.Request, cause error) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, m.loginURL, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="console"`)
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(authError{Error: cause.Error(), LoginURL: m.loginURL}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
