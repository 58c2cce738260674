package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

func newAttendanceFixture(t *testing.T) *services.AttendanceService {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, s := range []*domain.Student{
		{ID: "s1", FacilityID: "f1", Name: "Zanele"},
		{ID: "s2", FacilityID: "f1", Name: "Andile"},
		{ID: "s3", FacilityID: "f2", Name: "Thato"},
	} {
		if _, err := store.Students.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	return services.NewAttendanceService(store, services.NewStudentService(store.Students), services.NewStaffService(store.Staff))
}

func TestAttendanceService_MonthlyReport(t *testing.T) {
	svc := newAttendanceFixture(t)
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1")
	ctx := context.Background()

	entries := []services.AttendanceEntry{
		{SubjectKind: "student", SubjectID: "s1", Date: "2026-03-02", Status: "present"},
		{SubjectKind: "student", SubjectID: "s1", Date: "2026-03-03", Status: "Late"},
		{SubjectKind: "student", SubjectID: "s2", Date: "2026-03-02", Status: "Absent"},
		{SubjectKind: "student", SubjectID: "s2", Date: "2026-03-03", Status: "Sick Leave"},
		{SubjectKind: "student", SubjectID: "s1", Date: "2026-04-01", Status: "Present"},
	}
	for _, e := range entries {
		if _, err := svc.Record(ctx, sess, e); err != nil {
			t.Fatalf("record %+v: %v", e, err)
		}
	}

	report, err := svc.Report(ctx, sess, "", "2026-03")
	if err != nil {
		t.Fatal(err)
	}
	if report.Overall != (domain.AttendanceTotals{Present: 1, Absent: 1, Late: 1}) {
		t.Errorf("unexpected totals %+v", report.Overall)
	}
	if len(report.Subjects) != 2 || report.Subjects[0].Name != "Andile" {
		t.Errorf("expected two subjects ordered by name, got %+v", report.Subjects)
	}

	empty, err := svc.Report(ctx, sess, "student", "2026-05")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Message != "No data available for the specified month." {
		t.Errorf("unexpected empty message %q", empty.Message)
	}
}

func TestAttendanceService_RecordRejections(t *testing.T) {
	svc := newAttendanceFixture(t)
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1")

	tests := []struct {
		name  string
		entry services.AttendanceEntry
		want  error
	}{
		{name: "bad_kind", entry: services.AttendanceEntry{SubjectKind: "parent", SubjectID: "s1", Date: "2026-03-02", Status: "Present"}},
		{name: "bad_status", entry: services.AttendanceEntry{SubjectKind: "student", SubjectID: "s1", Date: "2026-03-02", Status: "Asleep"}},
		{name: "bad_date", entry: services.AttendanceEntry{SubjectKind: "student", SubjectID: "s1", Date: "02/03/2026", Status: "Present"}},
		{name: "student_outside_scope", entry: services.AttendanceEntry{SubjectKind: "student", SubjectID: "s3", Date: "2026-03-02", Status: "Present"}, want: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), sess, tt.entry)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
				return
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
