package handler

import (
	"net/http"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

// ConsoleHandler serves the signed-in user's own view: who they are, what
// they may navigate to and the dashboard counters.
type ConsoleHandler struct {
	dashboard *services.DashboardService
}

func NewConsoleHandler(dashboard *services.DashboardService) *ConsoleHandler {
	return &ConsoleHandler{dashboard: dashboard}
}

type MeResponse struct {
	UserID      string              `json:"user_id"`
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name"`
	RoleName    string              `json:"role_name"`
	IsAdmin     bool                `json:"is_admin"`
	FacilityIDs []string            `json:"facility_ids"`
	ExpiresAt   string              `json:"expires_at"`
	Navigation  []domain.NavSection `json:"navigation"`
}

func (h *ConsoleHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		RoleName:    sess.RoleName,
		IsAdmin:     sess.IsAdmin(),
		FacilityIDs: sess.Scope.FacilityIDs,
		ExpiresAt:   sess.ExpiresAt.UTC().Format(time.RFC3339),
		Navigation:  domain.NavigationFor(sess.RoleName),
	})
}

func (h *ConsoleHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.NavigationFor(sess.RoleName))
}

func (h *ConsoleHandler) Counters(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	counters, err := h.dashboard.Counters(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}
