package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

// Fixed role IDs seeded by NewStore.
const (
	RoleAdministratorID = "role-administrator"
	RoleDeveloperID     = "role-developer"
	RoleUserID          = "role-user"
)

// Store bundles every collection and the identity tables.
type Store struct {
	Facilities   *Collection[*domain.Facility]
	Staff        *Collection[*domain.Staff]
	Students     *Collection[*domain.Student]
	Applications *Collection[*domain.Application]
	Events       *Collection[*domain.Event]
	Tickets      *Collection[*domain.Ticket]
	Articles     *Collection[*domain.Article]

	mu          sync.RWMutex
	users       map[string]domain.User
	roles       []domain.Role
	assignments map[string][]string
	attendance  []domain.AttendanceRecord
	comments    []domain.TicketComment
	enrollments []ports.StudentEnrolledEvent
	broadcasts  []ports.BroadcastRequestedEvent
}

var (
	_ ports.UserRepository       = (*Store)(nil)
	_ ports.RoleRepository       = (*Store)(nil)
	_ ports.AssignmentRepository = (*Store)(nil)
	_ ports.AttendanceRepository = (*Store)(nil)
	_ ports.CommentRepository    = (*Store)(nil)
	_ ports.EnrollmentRepository = (*Store)(nil)
	_ ports.BroadcastRepository  = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		Facilities:   NewCollection[*domain.Facility]("facility"),
		Staff:        NewCollection[*domain.Staff]("staff"),
		Students:     NewCollection[*domain.Student]("student"),
		Applications: NewCollection[*domain.Application]("application"),
		Events:       NewCollection[*domain.Event]("event"),
		Tickets:      NewCollection[*domain.Ticket]("ticket"),
		Articles:     NewCollection[*domain.Article]("article"),
		users:        make(map[string]domain.User),
		roles: []domain.Role{
			{ID: RoleAdministratorID, Name: domain.RoleAdministrator},
			{ID: RoleDeveloperID, Name: domain.RoleDeveloper},
			{ID: RoleUserID, Name: domain.RoleUser},
		},
		assignments: make(map[string][]string),
	}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return s.withRole(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return s.withRole(u), nil
}

func (s *Store) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, s.withRole(u))
	}
	slices.SortFunc(out, func(a, b *domain.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrConflict)
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, domain.ErrConflict)
		}
	}
	stored := *user
	stored.RoleName = ""
	stored.FacilityIDs = nil
	s.users[user.ID] = stored
	return nil
}

func (s *Store) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	for id, u := range s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, domain.ErrConflict)
		}
	}
	stored := *user
	stored.RoleName = ""
	stored.FacilityIDs = nil
	stored.CreatedAt = existing.CreatedAt
	if stored.PasswordHash == "" {
		stored.PasswordHash = existing.PasswordHash
	}
	s.users[user.ID] = stored
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	delete(s.users, id)
	delete(s.assignments, id)
	return nil
}

func (s *Store) withRole(u domain.User) *domain.User {
	for _, r := range s.roles {
		if r.ID == u.RoleID {
			u.RoleName = r.Name
		}
	}
	u.FacilityIDs = slices.Clone(s.assignments[u.ID])
	return &u
}

func (s *Store) ListRoles(ctx context.Context) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roles), nil
}

func (s *Store) FindRoleByID(ctx context.Context, id string) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("role %s: %w", id, domain.ErrNotFound)
}

func (s *Store) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.Name == name {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("role %s: %w", name, domain.ErrNotFound)
}

func (s *Store) FacilityIDsForUser(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assignments[userID]), nil
}

func (s *Store) ReplaceAssignments(ctx context.Context, userID string, facilityIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	s.assignments[userID] = slices.Clone(facilityIDs)
	return nil
}

func (s *Store) Append(ctx context.Context, rec *domain.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance = append(s.attendance, *rec)
	return nil
}

func (s *Store) ListByMonth(ctx context.Context, filter ports.ListFilter, kind domain.SubjectKind, month string) ([]*domain.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.AttendanceRecord, 0)
	for _, rec := range s.attendance {
		if kind != "" && rec.SubjectKind != kind {
			continue
		}
		if !strings.HasPrefix(rec.Date, month) {
			continue
		}
		if !filter.Matches(&rec) {
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (s *Store) AppendComment(ctx context.Context, c *domain.TicketComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, *c)
	return nil
}

func (s *Store) ListComments(ctx context.Context, ticketID string) ([]*domain.TicketComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.TicketComment, 0)
	for _, c := range s.comments {
		if c.TicketID == ticketID {
			out = append(out, &c)
		}
	}
	return out, nil
}

// Promote holds both collection locks so no reader observes the student
// without the application gone, or the reverse.
func (s *Store) Promote(ctx context.Context, app *domain.Application, student *domain.Student, evt ports.StudentEnrolledEvent) error {
	s.Applications.mu.Lock()
	defer s.Applications.mu.Unlock()
	s.Students.mu.Lock()
	defer s.Students.mu.Unlock()

	current, err := s.Applications.getLocked(app.ID)
	if err != nil {
		return err
	}
	if !current.CanPromote() {
		return fmt.Errorf("application %s has status %s: %w", app.ID, current.Status, domain.ErrInvalidState)
	}
	if _, err := s.Students.createLocked(student); err != nil {
		return err
	}
	if err := s.Applications.deleteLocked(app.ID); err != nil {
		_ = s.Students.deleteLocked(student.ID)
		return err
	}

	s.mu.Lock()
	s.enrollments = append(s.enrollments, evt)
	s.mu.Unlock()
	return nil
}

// Enrollments returns the events recorded by Promote.
func (s *Store) Enrollments() []ports.StudentEnrolledEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.enrollments)
}

func (s *Store) RecordBroadcast(ctx context.Context, evt ports.BroadcastRequestedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	evt.Recipients = slices.Clone(evt.Recipients)
	s.broadcasts = append(s.broadcasts, evt)
	return nil
}

// Broadcasts returns the broadcasts queued so far.
func (s *Store) Broadcasts() []ports.BroadcastRequestedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.broadcasts)
}

// SeedUser stores user with the given facility assignments, for bootstrapping
// local runs and tests.
func (s *Store) SeedUser(user domain.User, facilityIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	s.assignments[user.ID] = facilityIDs
}

// Backend exposes the store as a full console backend.
func (s *Store) Backend() services.Backend {
	return services.Backend{
		Facilities:   s.Facilities,
		Staff:        s.Staff,
		Students:     s.Students,
		Applications: s.Applications,
		Events:       s.Events,
		Tickets:      s.Tickets,
		Articles:     s.Articles,
		Users:        s,
		Roles:        s,
		Assignments:  s,
		Attendance:   s,
		Comments:     s,
		Enrollments:  s,
		Broadcasts:   s,
	}
}
