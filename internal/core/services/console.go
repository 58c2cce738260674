package services

import (
	"crypto/rsa"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// Backend is the set of repositories one storage backend provides.
type Backend struct {
	Facilities   ports.FacilityRepository
	Staff        ports.StaffRepository
	Students     ports.StudentRepository
	Applications ports.ApplicationRepository
	Events       ports.EventRepository
	Tickets      ports.TicketRepository
	Articles     ports.ArticleRepository

	Users       ports.UserRepository
	Roles       ports.RoleRepository
	Assignments ports.AssignmentRepository
	Attendance  ports.AttendanceRepository
	Comments    ports.CommentRepository
	Enrollments ports.EnrollmentRepository
	Broadcasts  ports.BroadcastRepository
}

type ConsoleConfig struct {
	PrivateKey       *rsa.PrivateKey
	PublicKey        *rsa.PublicKey
	TokenTTL         time.Duration
	ScopeCacheTTL    time.Duration
	DeleteConfirmTTL time.Duration
}

// Console holds every service of the admin console.
type Console struct {
	Auth   *AuthService
	Scopes *ScopeService

	Facilities      *EntityService[*domain.Facility]
	AdminFacilities *EntityService[*domain.Facility]
	Staff           *EntityService[*domain.Staff]
	Students        *EntityService[*domain.Student]
	Events          *EntityService[*domain.Event]
	Articles        *EntityService[*domain.Article]
	Applications    *ApplicationService
	Tickets         *TicketService

	Users      *UserService
	Attendance *AttendanceService
	Dashboard  *DashboardService
	Invoices   *InvoiceService
	Broadcasts *BroadcastService
	Deletions  *DeletionService
}

func NewConsole(b Backend, sessions ports.SessionStore, deletions ports.DeletionStore, cfg ConsoleConfig) *Console {
	scopes := NewScopeService(b.Assignments, sessions, cfg.ScopeCacheTTL)

	c := &Console{
		Auth:            NewAuthService(b.Users, scopes, sessions, cfg.PrivateKey, cfg.PublicKey, cfg.TokenTTL),
		Scopes:          scopes,
		Facilities:      NewFacilityService(b.Facilities),
		AdminFacilities: NewFacilityAdminService(b.Facilities),
		Staff:           NewStaffService(b.Staff),
		Students:        NewStudentService(b.Students),
		Events:          NewEventService(b.Events),
		Articles:        NewArticleService(b.Articles),
		Applications:    NewApplicationService(b.Applications, b.Enrollments),
		Tickets:         NewTicketService(b.Tickets, b.Comments),
		Users:           NewUserService(b.Users, b.Roles, b.Assignments, b.Facilities, scopes),
	}
	c.Attendance = NewAttendanceService(b.Attendance, c.Students, c.Staff)
	c.Dashboard = NewDashboardService(c.Students, c.Staff, c.Applications)
	c.Invoices = NewInvoiceService(c.Facilities)
	c.Broadcasts = NewBroadcastService(c.Facilities, c.Staff, c.Students, b.Broadcasts)
	c.Deletions = NewDeletionService(deletions, cfg.DeleteConfirmTTL,
		c.AdminFacilities,
		c.Staff,
		c.Students,
		c.Applications,
		c.Events,
		c.Tickets,
		c.Articles,
		c.Users,
	)
	return c
}
