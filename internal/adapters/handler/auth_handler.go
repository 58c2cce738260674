package handler

import (
	"errors"
	"net/http"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/middleware"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LoginInfo struct {
	Message string            `json:"message"`
	Method  string            `json:"method"`
	Fields  []string          `json:"fields"`
	Usage   map[string]string `json:"usage"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

// LoginPage is where unauthenticated browsers are redirected. It describes
// the credential exchange; the console UI renders the actual form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LoginInfo{
		Message: "Sign in to the creche console",
		Method:  "POST /login",
		Fields:  []string{"email", "password"},
		Usage:   map[string]string{"Authorization": "Bearer <token>"},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrNoCredential.Error())
		return
	}
	if err := h.authService.Logout(r.Context(), sess); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// currentSession fetches the session placed by the auth middleware.
func currentSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrNoCredential.Error())
	}
	return sess, ok
}
