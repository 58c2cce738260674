package ports

import (
	"context"
	"slices"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

// ListFilter narrows a collection fetch. A nil FacilityIDs means "no facility
// predicate"; a non-nil empty slice matches nothing.
type ListFilter struct {
	FacilityIDs []string
	OwnerID     string
}

// Scoped reports whether a facility containment predicate applies.
func (f ListFilter) Scoped() bool {
	return f.FacilityIDs != nil
}

// Repository is the narrow backend-client contract every entity collection
// implements, whatever the backend style.
type Repository[T domain.Record] interface {
	List(ctx context.Context, filter ListFilter) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

type (
	FacilityRepository    = Repository[*domain.Facility]
	StaffRepository       = Repository[*domain.Staff]
	StudentRepository     = Repository[*domain.Student]
	ApplicationRepository = Repository[*domain.Application]
	EventRepository       = Repository[*domain.Event]
	TicketRepository      = Repository[*domain.Ticket]
	ArticleRepository     = Repository[*domain.Article]
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

type RoleRepository interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	FindRoleByID(ctx context.Context, id string) (*domain.Role, error)
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
}

// AssignmentRepository is the user-facility join table, the tenant boundary.
type AssignmentRepository interface {
	FacilityIDsForUser(ctx context.Context, userID string) ([]string, error)
	ReplaceAssignments(ctx context.Context, userID string, facilityIDs []string) error
}

// AttendanceRepository is append-only.
type AttendanceRepository interface {
	Append(ctx context.Context, rec *domain.AttendanceRecord) error
	ListByMonth(ctx context.Context, filter ListFilter, kind domain.SubjectKind, month string) ([]*domain.AttendanceRecord, error)
}

// CommentRepository is append-only.
type CommentRepository interface {
	AppendComment(ctx context.Context, c *domain.TicketComment) error
	ListComments(ctx context.Context, ticketID string) ([]*domain.TicketComment, error)
}

// EnrollmentRepository performs the application-to-student promotion: insert
// student, delete the source application, record the enrollment event. An
// implementation either applies all of it or none of it.
type EnrollmentRepository interface {
	Promote(ctx context.Context, app *domain.Application, student *domain.Student, evt StudentEnrolledEvent) error
}

// Matches applies the filter to a decoded record, for backends that cannot
// push the predicate down to storage.
func (f ListFilter) Matches(rec any) bool {
	if f.Scoped() {
		fs, ok := rec.(domain.FacilityScoped)
		if !ok || !slices.Contains(f.FacilityIDs, fs.FacilityRef()) {
			return false
		}
	}
	if f.OwnerID != "" {
		o, ok := rec.(domain.Owned)
		if !ok || o.OwnerRef() != f.OwnerID {
			return false
		}
	}
	return true
}
