package handler

import (
	"net/http"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

// EntityHandler serves list, detail, create, update and delete for one
// record kind. Deletes only open a confirmation.
type EntityHandler[T domain.Record] struct {
	svc       *services.EntityService[T]
	deletions *services.DeletionService
	newRec    func() T
}

func NewEntityHandler[T domain.Record](svc *services.EntityService[T], deletions *services.DeletionService, newRec func() T) *EntityHandler[T] {
	return &EntityHandler[T]{svc: svc, deletions: deletions, newRec: newRec}
}

func (h *EntityHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	page, err := h.svc.List(r.Context(), sess, listQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writePage(w, page)
}

func (h *EntityHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Get(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *EntityHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	rec := h.newRec()
	if !decodeJSON(w, r, rec) {
		return
	}
	created, err := h.svc.Create(r.Context(), sess, rec)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EntityHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	rec := h.newRec()
	if !decodeJSON(w, r, rec) {
		return
	}
	updated, err := h.svc.Update(r.Context(), sess, r.PathValue("id"), rec)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete answers 202 with the confirmation prompt. The record stays until
// the confirmation is posted.
func (h *EntityHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	requestDeletion(w, r, h.deletions, h.svc.Kind())
}

func requestDeletion(w http.ResponseWriter, r *http.Request, deletions *services.DeletionService, kind string) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	conf, err := deletions.Request(r.Context(), sess, kind, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, conf)
}

type DeletionHandler struct {
	deletions *services.DeletionService
}

func NewDeletionHandler(deletions *services.DeletionService) *DeletionHandler {
	return &DeletionHandler{deletions: deletions}
}

func (h *DeletionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := h.deletions.Confirm(r.Context(), sess, r.PathValue("token")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DeletionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := h.deletions.Cancel(r.Context(), sess, r.PathValue("token")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
