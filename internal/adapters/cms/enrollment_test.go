package cms

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

type recordedEvents struct {
	events []ports.StudentEnrolledEvent
	err    error
}

func (r *recordedEvents) RecordEnrollment(ctx context.Context, evt ports.StudentEnrolledEvent) error {
	r.events = append(r.events, evt)
	return r.err
}

func approvedApplication() *domain.Application {
	return &domain.Application{ID: "app-1", FacilityID: "f1", Title: "Lindiwe", ParentName: "Thabo", Status: domain.ApplicationApproved}
}

func TestEnrollments_Promote(t *testing.T) {
	fake, backend := newTestBackend(t)
	app := approvedApplication()
	fake.seed(t, ResourceApplication, app)
	events := &recordedEvents{}
	saga := NewEnrollments(backend, events)

	student := app.ToStudent()
	student.ID = "stu-1"
	evt := mocks.CreateTestEnrollmentEvent()

	if err := saga.Promote(context.Background(), app, &student, evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids := fake.ids(ResourceStudent); len(ids) != 1 || ids[0] != "stu-1" {
		t.Errorf("expected student stu-1 created, got %v", ids)
	}
	if ids := fake.ids(ResourceApplication); len(ids) != 0 {
		t.Errorf("expected application removed, got %v", ids)
	}
	if len(events.events) != 1 || events.events[0].StudentID != "stu-1" {
		t.Errorf("expected one recorded event for stu-1, got %+v", events.events)
	}
}

func TestEnrollments_PromoteFailures(t *testing.T) {
	tests := []struct {
		name         string
		stored       domain.ApplicationStatus
		failRoute    string
		wantErr      error
		wantStudents int
		wantApps     int
	}{
		{name: "status_changed_in_cms", stored: domain.ApplicationPending, wantErr: domain.ErrInvalidState, wantStudents: 0, wantApps: 1},
		{name: "student_create_fails", stored: domain.ApplicationApproved, failRoute: "POST " + ResourceStudent, wantStudents: 0, wantApps: 1},
		{name: "application_delete_fails_compensates", stored: domain.ApplicationApproved, failRoute: "DELETE " + ResourceApplication, wantStudents: 0, wantApps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, backend := newTestBackend(t)
			stored := approvedApplication()
			stored.Status = tt.stored
			fake.seed(t, ResourceApplication, stored)
			if tt.failRoute != "" {
				fake.failWith[tt.failRoute] = http.StatusBadRequest
				fake.failBody = `{"message":"rejected by cms"}`
			}
			events := &recordedEvents{}
			saga := NewEnrollments(backend, events)

			app := approvedApplication()
			student := app.ToStudent()
			student.ID = "stu-1"
			err := saga.Promote(context.Background(), app, &student, mocks.CreateTestEnrollmentEvent())

			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if got := len(fake.ids(ResourceStudent)); got != tt.wantStudents {
				t.Errorf("expected %d students, got %d", tt.wantStudents, got)
			}
			if got := len(fake.ids(ResourceApplication)); got != tt.wantApps {
				t.Errorf("expected %d applications, got %d", tt.wantApps, got)
			}
			if len(events.events) != 0 {
				t.Errorf("expected no events, got %+v", events.events)
			}
		})
	}
}

func TestEnrollments_RecorderFailureDoesNotUndo(t *testing.T) {
	fake, backend := newTestBackend(t)
	app := approvedApplication()
	fake.seed(t, ResourceApplication, app)
	saga := NewEnrollments(backend, &recordedEvents{err: errors.New("outbox down")})

	student := app.ToStudent()
	student.ID = "stu-1"
	if err := saga.Promote(context.Background(), app, &student, mocks.CreateTestEnrollmentEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.ids(ResourceStudent)) != 1 {
		t.Error("expected student kept")
	}
}
