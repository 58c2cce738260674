package services

import (
	"context"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

type Counters struct {
	Students            int `json:"students"`
	Staff               int `json:"staff"`
	NewApplications     int `json:"new_applications"`
	PendingApplications int `json:"pending_applications"`
}

// DashboardService computes the landing-page counters over the session's
// facilities.
type DashboardService struct {
	students     *EntityService[*domain.Student]
	staff        *EntityService[*domain.Staff]
	applications *ApplicationService
}

func NewDashboardService(students *EntityService[*domain.Student], staff *EntityService[*domain.Staff], applications *ApplicationService) *DashboardService {
	return &DashboardService{students: students, staff: staff, applications: applications}
}

func (s *DashboardService) Counters(ctx context.Context, sess *domain.Session) (Counters, error) {
	students, err := s.students.All(ctx, sess)
	if err != nil {
		return Counters{}, err
	}
	staff, err := s.staff.All(ctx, sess)
	if err != nil {
		return Counters{}, err
	}
	apps, err := s.applications.All(ctx, sess)
	if err != nil {
		return Counters{}, err
	}

	c := Counters{Students: len(students), Staff: len(staff)}
	for _, a := range apps {
		switch a.Status {
		case domain.ApplicationNew:
			c.NewApplications++
		case domain.ApplicationPending:
			c.PendingApplications++
		}
	}
	return c, nil
}
