package services

import (
	"strings"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// FacilityService is the read-only facility listing for ordinary sessions.
func NewFacilityService(repo ports.FacilityRepository) *EntityService[*domain.Facility] {
	return NewEntityService(repo, EntityConfig[*domain.Facility]{
		Kind:         "facility",
		Plural:       "facilities",
		Scoping:      ScopeFacility,
		AdminWrites:  true,
		SearchFields: facilitySearch,
		Label:        func(f *domain.Facility) string { return f.Name },
	})
}

// NewFacilityAdminService manages every facility regardless of assignment.
// Kind differs from the scoped listing so pending deletions route here.
func NewFacilityAdminService(repo ports.FacilityRepository) *EntityService[*domain.Facility] {
	return NewEntityService(repo, EntityConfig[*domain.Facility]{
		Kind:         "admin_facility",
		Plural:       "facilities",
		Scoping:      ScopeNone,
		AdminWrites:  true,
		SearchFields: facilitySearch,
		Label:        func(f *domain.Facility) string { return f.Name },
		Prepare: func(f, existing *domain.Facility, _ *domain.Session) error {
			if strings.TrimSpace(f.Name) == "" {
				return domain.NewValidationError("name", "is required")
			}
			if f.Capacity < 0 {
				return domain.NewValidationError("capacity", "must not be negative")
			}
			stampTimes(&f.CreatedAt, &f.UpdatedAt, existingTime(existing, func(e *domain.Facility) time.Time { return e.CreatedAt }))
			return nil
		},
	})
}

var facilitySearch = []func(*domain.Facility) string{
	func(f *domain.Facility) string { return f.Name },
	func(f *domain.Facility) string { return f.Address },
}

func NewStaffService(repo ports.StaffRepository) *EntityService[*domain.Staff] {
	return NewEntityService(repo, EntityConfig[*domain.Staff]{
		Kind:    "staff",
		Plural:  "staff",
		Scoping: ScopeFacility,
		SearchFields: []func(*domain.Staff) string{
			func(s *domain.Staff) string { return s.Name },
			func(s *domain.Staff) string { return s.Position },
		},
		Label: func(s *domain.Staff) string { return s.Name },
		Prepare: func(s, _ *domain.Staff, _ *domain.Session) error {
			if strings.TrimSpace(s.Name) == "" {
				return domain.NewValidationError("name", "is required")
			}
			return nil
		},
	})
}

func NewStudentService(repo ports.StudentRepository) *EntityService[*domain.Student] {
	return NewEntityService(repo, EntityConfig[*domain.Student]{
		Kind:    "student",
		Plural:  "students",
		Scoping: ScopeFacility,
		SearchFields: []func(*domain.Student) string{
			func(s *domain.Student) string { return s.Name },
			func(s *domain.Student) string { return s.ParentName },
		},
		Label: func(s *domain.Student) string { return s.Name },
		Prepare: func(s, existing *domain.Student, _ *domain.Session) error {
			if strings.TrimSpace(s.Name) == "" {
				return domain.NewValidationError("name", "is required")
			}
			if s.DateOfBirth != "" && !domain.ValidDate(s.DateOfBirth) {
				return domain.NewValidationError("date_of_birth", "must be YYYY-MM-DD")
			}
			if s.FeesOwed < 0 || s.FeesPaid < 0 {
				return domain.NewValidationError("fees", "must not be negative")
			}
			if existing != nil {
				s.ApplicationID = existing.ApplicationID
			}
			return nil
		},
	})
}

func newApplicationEntity(repo ports.ApplicationRepository) *EntityService[*domain.Application] {
	return NewEntityService(repo, EntityConfig[*domain.Application]{
		Kind:    "application",
		Plural:  "applications",
		Scoping: ScopeFacility,
		SearchFields: []func(*domain.Application) string{
			func(a *domain.Application) string { return a.ParentName },
			func(a *domain.Application) string { return string(a.Status) },
		},
		Label: func(a *domain.Application) string { return a.Title },
		Prepare: func(a, _ *domain.Application, _ *domain.Session) error {
			if strings.TrimSpace(a.Title) == "" {
				return domain.NewValidationError("title", "is required")
			}
			if a.NumberOfChildren < 0 {
				return domain.NewValidationError("number_of_children", "must not be negative")
			}
			if a.Status == "" {
				a.Status = domain.ApplicationNew
				return nil
			}
			status, err := domain.ParseApplicationStatus(string(a.Status))
			if err != nil {
				return err
			}
			a.Status = status
			return nil
		},
	})
}

func NewEventService(repo ports.EventRepository) *EntityService[*domain.Event] {
	return NewEntityService(repo, EntityConfig[*domain.Event]{
		Kind:    "event",
		Plural:  "events",
		Scoping: ScopeOwner,
		SearchFields: []func(*domain.Event) string{
			func(e *domain.Event) string { return e.Title },
			func(e *domain.Event) string { return e.Location },
		},
		Label:    func(e *domain.Event) string { return e.Title },
		SetOwner: func(e *domain.Event, ownerID string) { e.OwnerID = ownerID },
		Prepare: func(e, _ *domain.Event, _ *domain.Session) error {
			if strings.TrimSpace(e.Title) == "" {
				return domain.NewValidationError("title", "is required")
			}
			if e.Start.IsZero() {
				return domain.NewValidationError("start", "is required")
			}
			if e.End.IsZero() {
				e.End = e.Start
			}
			if e.End.Before(e.Start) {
				return domain.NewValidationError("end", "must not be before start")
			}
			return nil
		},
	})
}

func newTicketEntity(repo ports.TicketRepository) *EntityService[*domain.Ticket] {
	return NewEntityService(repo, EntityConfig[*domain.Ticket]{
		Kind:         "ticket",
		Plural:       "tickets",
		Scoping:      ScopeOwner,
		AdminSeesAll: true,
		AdminRemove:  true,
		SearchFields: []func(*domain.Ticket) string{
			func(t *domain.Ticket) string { return t.Title },
			func(t *domain.Ticket) string { return string(t.Status) },
		},
		Label:    func(t *domain.Ticket) string { return t.Title },
		SetOwner: func(t *domain.Ticket, ownerID string) { t.UserID = ownerID },
		Prepare: func(t, existing *domain.Ticket, sess *domain.Session) error {
			if strings.TrimSpace(t.Title) == "" {
				return domain.NewValidationError("title", "is required")
			}
			if existing == nil {
				// New tickets always start in the first column.
				t.Status = domain.TicketOpen
				t.CreatedAt = time.Now().UTC()
				return nil
			}
			t.CreatedAt = existing.CreatedAt
			// Only administrators move tickets between columns.
			if !sess.IsAdmin() || t.Status == "" {
				t.Status = existing.Status
				return nil
			}
			status, err := domain.ParseTicketStatus(string(t.Status))
			if err != nil {
				return err
			}
			t.Status = status
			return nil
		},
	})
}

func NewArticleService(repo ports.ArticleRepository) *EntityService[*domain.Article] {
	return NewEntityService(repo, EntityConfig[*domain.Article]{
		Kind:        "article",
		Plural:      "articles",
		Scoping:     ScopeNone,
		AdminWrites: true,
		SearchFields: []func(*domain.Article) string{
			func(a *domain.Article) string { return a.Title },
		},
		Label: func(a *domain.Article) string { return a.Title },
		Prepare: func(a, existing *domain.Article, _ *domain.Session) error {
			if strings.TrimSpace(a.Title) == "" {
				return domain.NewValidationError("title", "is required")
			}
			stampTimes(&a.CreatedAt, &a.UpdatedAt, existingTime(existing, func(e *domain.Article) time.Time { return e.CreatedAt }))
			return nil
		},
	})
}

func existingTime[T any](existing *T, get func(*T) time.Time) time.Time {
	if existing == nil {
		return time.Time{}
	}
	return get(existing)
}

// stampTimes keeps the original creation time and moves the update time.
func stampTimes(created, updated *time.Time, original time.Time) {
	now := time.Now().UTC()
	if original.IsZero() {
		*created = now
	} else {
		*created = original
	}
	*updated = now
}
