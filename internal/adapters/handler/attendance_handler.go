package handler

import (
	"net/http"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

type AttendanceHandler struct {
	attendance *services.AttendanceService
}

func NewAttendanceHandler(attendance *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

type AttendanceRequest struct {
	SubjectKind string `json:"subject_kind" validate:"required,oneof=student staff"`
	SubjectID   string `json:"subject_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status" validate:"required"`
	Note        string `json:"note"`
}

func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req AttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.attendance.Record(r.Context(), sess, services.AttendanceEntry{
		SubjectKind: req.SubjectKind,
		SubjectID:   req.SubjectID,
		Date:        req.Date,
		Status:      req.Status,
		Note:        req.Note,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	kind := q.Get("kind")
	if kind == "" {
		kind = "student"
	}
	records, err := h.attendance.List(r.Context(), sess, kind, q.Get("month"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *AttendanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	report, err := h.attendance.Report(r.Context(), sess, q.Get("kind"), q.Get("month"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
