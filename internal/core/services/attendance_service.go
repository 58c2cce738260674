package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type AttendanceService struct {
	records  ports.AttendanceRepository
	students *EntityService[*domain.Student]
	staff    *EntityService[*domain.Staff]
}

func NewAttendanceService(records ports.AttendanceRepository, students *EntityService[*domain.Student], staff *EntityService[*domain.Staff]) *AttendanceService {
	return &AttendanceService{records: records, students: students, staff: staff}
}

type AttendanceEntry struct {
	SubjectKind string
	SubjectID   string
	Date        string
	Status      string
	Note        string
}

// Record appends one day's status. The facility is taken from the subject,
// which must be visible to the session.
func (s *AttendanceService) Record(ctx context.Context, sess *domain.Session, in AttendanceEntry) (*domain.AttendanceRecord, error) {
	kind, err := domain.ParseSubjectKind(in.SubjectKind)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseAttendanceStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if !domain.ValidDate(in.Date) {
		return nil, domain.NewValidationError("date", "must be YYYY-MM-DD")
	}

	var facilityID string
	switch kind {
	case domain.SubjectStudent:
		student, err := s.students.Get(ctx, sess, in.SubjectID)
		if err != nil {
			return nil, err
		}
		facilityID = student.FacilityID
	case domain.SubjectStaff:
		member, err := s.staff.Get(ctx, sess, in.SubjectID)
		if err != nil {
			return nil, err
		}
		facilityID = member.FacilityID
	}

	rec := &domain.AttendanceRecord{
		ID:          uuid.NewString(),
		SubjectKind: kind,
		SubjectID:   in.SubjectID,
		FacilityID:  facilityID,
		Date:        in.Date,
		Status:      status,
		Note:        in.Note,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.records.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	return rec, nil
}

func (s *AttendanceService) List(ctx context.Context, sess *domain.Session, kind, month string) ([]*domain.AttendanceRecord, error) {
	subject, err := domain.ParseSubjectKind(kind)
	if err != nil {
		return nil, err
	}
	if !domain.ValidMonth(month) {
		return nil, domain.NewValidationError("month", "must be YYYY-MM")
	}
	if sess.Scope.IsEmpty() {
		return []*domain.AttendanceRecord{}, nil
	}

	filter := ports.ListFilter{FacilityIDs: sess.Scope.FacilityIDs}
	records, err := s.records.ListByMonth(ctx, filter, subject, month)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	visible := make([]*domain.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec) {
			visible = append(visible, rec)
		}
	}
	return visible, nil
}

// Report counts Present, Absent and Late days per subject for one month.
func (s *AttendanceService) Report(ctx context.Context, sess *domain.Session, kind, month string) (domain.AttendanceReport, error) {
	if kind == "" {
		kind = string(domain.SubjectStudent)
	}
	records, err := s.List(ctx, sess, kind, month)
	if err != nil {
		return domain.AttendanceReport{}, err
	}

	subject, _ := domain.ParseSubjectKind(kind)
	names := make(map[string]string)
	if len(records) > 0 {
		if err := s.subjectNames(ctx, sess, subject, names); err != nil {
			return domain.AttendanceReport{}, err
		}
	}

	flat := make([]domain.AttendanceRecord, len(records))
	for i, rec := range records {
		flat[i] = *rec
	}
	return domain.BuildAttendanceReport(month, flat, names), nil
}

func (s *AttendanceService) subjectNames(ctx context.Context, sess *domain.Session, kind domain.SubjectKind, names map[string]string) error {
	if kind == domain.SubjectStaff {
		staff, err := s.staff.All(ctx, sess)
		if err != nil {
			return err
		}
		for _, m := range staff {
			names[m.ID] = m.Name
		}
		return nil
	}
	students, err := s.students.All(ctx, sess)
	if err != nil {
		return err
	}
	for _, st := range students {
		names[st.ID] = st.Name
	}
	return nil
}
