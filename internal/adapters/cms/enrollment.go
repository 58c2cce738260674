package cms

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// EventRecorder stores an enrollment event for later delivery.
type EventRecorder interface {
	RecordEnrollment(ctx context.Context, evt ports.StudentEnrolledEvent) error
}

// Enrollments promotes applications over the CMS. The CMS has no transactions,
// so a failed application delete is undone by deleting the new student.
type Enrollments struct {
	students     *Collection[*domain.Student]
	applications *Collection[*domain.Application]
	events       EventRecorder
}

var _ ports.EnrollmentRepository = (*Enrollments)(nil)

// NewEnrollments builds the promotion saga. events may be nil.
func NewEnrollments(b *Backend, events EventRecorder) *Enrollments {
	return &Enrollments{students: b.Students, applications: b.Applications, events: events}
}

func (e *Enrollments) Promote(ctx context.Context, app *domain.Application, student *domain.Student, evt ports.StudentEnrolledEvent) error {
	current, err := e.applications.Get(ctx, app.ID)
	if err != nil {
		return err
	}
	if !current.CanPromote() {
		return fmt.Errorf("application %s is %s: %w", app.ID, current.Status, domain.ErrInvalidState)
	}

	created, err := e.students.Create(ctx, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err := e.applications.Delete(ctx, app.ID); err != nil {
		if cerr := e.students.Delete(ctx, created.ID); cerr != nil && !errors.Is(cerr, domain.ErrNotFound) {
			log.Printf("cms enrollment: [CRITICAL] compensation failed, student %s left behind for application %s: %v",
				created.ID, app.ID, cerr)
		}
		return fmt.Errorf("delete application: %w", err)
	}

	if e.events != nil {
		evt.StudentID = created.ID
		if err := e.events.RecordEnrollment(ctx, evt); err != nil {
			log.Printf("cms enrollment: failed to record event for student %s: %v", created.ID, err)
		}
	}
	return nil
}
