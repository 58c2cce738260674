package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
	"github.com/AchilleasB/creche-admin/console-service/internal/metrics"
)

// ApplicationService adds the status board and the promotion to a student on
// top of the scoped application CRUD.
type ApplicationService struct {
	*EntityService[*domain.Application]
	enrollments ports.EnrollmentRepository
}

func NewApplicationService(repo ports.ApplicationRepository, enrollments ports.EnrollmentRepository) *ApplicationService {
	return &ApplicationService{
		EntityService: newApplicationEntity(repo),
		enrollments:   enrollments,
	}
}

// UpdateStatus moves an application to any status; there is no transition graph.
func (s *ApplicationService) UpdateStatus(ctx context.Context, sess *domain.Session, id, status string) (*domain.Application, error) {
	parsed, err := domain.ParseApplicationStatus(status)
	if err != nil {
		return nil, err
	}
	app, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	app.Status = parsed
	updated, err := s.repo.Update(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return updated, nil
}

// Promote turns an approved application into a student in the same facility
// and removes the application, as one operation.
func (s *ApplicationService) Promote(ctx context.Context, sess *domain.Session, id string) (*domain.Student, error) {
	app, err := s.Get(ctx, sess, id)
	if err != nil {
		metrics.Promotions.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if !app.CanPromote() {
		metrics.Promotions.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("application %s has status %s: %w", app.ID, app.Status, domain.ErrInvalidState)
	}

	student := app.ToStudent()
	student.ID = uuid.NewString()
	evt := ports.StudentEnrolledEvent{
		StudentID:     student.ID,
		ApplicationID: app.ID,
		FacilityID:    app.FacilityID,
		ParentName:    app.ParentName,
		ParentEmail:   app.ParentEmail,
		EnrolledAt:    time.Now().UTC(),
	}

	if err := s.enrollments.Promote(ctx, app, &student, evt); err != nil {
		metrics.Promotions.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("promote application %s: %w", app.ID, err)
	}

	metrics.Promotions.WithLabelValues("promoted").Inc()
	log.Printf("application: promoted %s to student %s in facility %s", app.ID, student.ID, student.FacilityID)
	return &student, nil
}
