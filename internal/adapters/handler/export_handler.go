package handler

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/export"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

// ExportHandler downloads the scoped student and staff rosters as .xlsx.
type ExportHandler struct {
	students   *services.EntityService[*domain.Student]
	staff      *services.EntityService[*domain.Staff]
	facilities *services.EntityService[*domain.Facility]
}

func NewExportHandler(
	students *services.EntityService[*domain.Student],
	staff *services.EntityService[*domain.Staff],
	facilities *services.EntityService[*domain.Facility],
) *ExportHandler {
	return &ExportHandler{students: students, staff: staff, facilities: facilities}
}

func (h *ExportHandler) Students(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	students, err := h.students.Find(r.Context(), sess, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	names, err := h.facilityNames(r, sess)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStudents(&buf, students, names); err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendWorkbook(w, "students", &buf)
}

func (h *ExportHandler) Staff(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	staff, err := h.staff.Find(r.Context(), sess, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	names, err := h.facilityNames(r, sess)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStaff(&buf, staff, names); err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendWorkbook(w, "staff", &buf)
}

func (h *ExportHandler) facilityNames(r *http.Request, sess *domain.Session) (map[string]string, error) {
	facilities, err := h.facilities.All(r.Context(), sess)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(facilities))
	for _, f := range facilities {
		names[f.ID] = f.Name
	}
	return names, nil
}

// sendWorkbook writes a finished workbook. It is built in memory first so a
// failure can still be reported as JSON.
func sendWorkbook(w http.ResponseWriter, prefix string, buf *bytes.Buffer) {
	fileName := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("export: failed to write %s: %v", fileName, err)
	}
}
