package handler

import (
	"net/http"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

// AdminHandler is user and role management. Every route is behind
// RequireAdmin; the service checks again.
type AdminHandler struct {
	users     *services.UserService
	deletions *services.DeletionService
}

func NewAdminHandler(users *services.UserService, deletions *services.DeletionService) *AdminHandler {
	return &AdminHandler{users: users, deletions: deletions}
}

type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	DisplayName string   `json:"display_name" validate:"required"`
	Phone       string   `json:"phone"`
	Password    string   `json:"password" validate:"required,min=8"`
	RoleID      string   `json:"role_id"`
	FacilityIDs []string `json:"facility_ids"`
}

type UpdateUserRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	RoleID      string `json:"role_id"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

type AssignFacilitiesRequest struct {
	FacilityIDs []string `json:"facility_ids" validate:"required"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	users, err := h.users.List(r.Context(), sess, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	q := listQuery(r)
	page := domain.Paginate(users, q.Page, q.PerPage)
	if page.Total == 0 {
		page.EmptyMessage = "No users found"
	}
	writePage(w, page)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.Create(r.Context(), sess, services.NewUser{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Password:    req.Password,
		RoleID:      req.RoleID,
		FacilityIDs: req.FacilityIDs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.Update(r.Context(), sess, r.PathValue("id"), services.UserChanges{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		RoleID:      req.RoleID,
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) AssignFacilities(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req AssignFacilitiesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.AssignFacilities(r.Context(), sess, r.PathValue("id"), req.FacilityIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requestDeletion(w, r, h.deletions, h.users.Kind())
}

func (h *AdminHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.users.Roles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}
