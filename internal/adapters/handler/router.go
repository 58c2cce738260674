package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/middleware"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

type RouterConfig struct {
	LoginURL       string
	AllowedOrigins []string
	HealthChecks   map[string]Pinger
}

// NewRouter mounts every route of the console API. Public routes are health,
// metrics and login; everything under /api needs a session and everything
// under /api/admin needs an admin role.
func NewRouter(c *services.Console, cfg RouterConfig) http.Handler {
	auth := middleware.NewAuthMiddleware(c.Auth, cfg.LoginURL)
	deletions := NewDeletionHandler(c.Deletions)

	authHandler := NewAuthHandler(c.Auth)
	health := NewHealthHandler(cfg.HealthChecks)
	console := NewConsoleHandler(c.Dashboard)
	profile := NewProfileHandler(c.Users)

	facilities := NewEntityHandler(c.Facilities, c.Deletions, func() *domain.Facility { return &domain.Facility{} })
	adminFacilities := NewEntityHandler(c.AdminFacilities, c.Deletions, func() *domain.Facility { return &domain.Facility{} })
	staff := NewEntityHandler(c.Staff, c.Deletions, func() *domain.Staff { return &domain.Staff{} })
	students := NewEntityHandler(c.Students, c.Deletions, func() *domain.Student { return &domain.Student{} })
	applications := NewEntityHandler(c.Applications.EntityService, c.Deletions, func() *domain.Application { return &domain.Application{} })
	events := NewEntityHandler(c.Events, c.Deletions, func() *domain.Event { return &domain.Event{} })
	tickets := NewEntityHandler(c.Tickets.EntityService, c.Deletions, func() *domain.Ticket { return &domain.Ticket{} })
	articles := NewEntityHandler(c.Articles, c.Deletions, func() *domain.Article { return &domain.Article{} })

	appActions := NewApplicationHandler(c.Applications)
	ticketActions := NewTicketHandler(c.Tickets)
	attendance := NewAttendanceHandler(c.Attendance)
	invoices := NewInvoiceHandler(c.Invoices)
	exports := NewExportHandler(c.Students, c.Staff, c.Facilities)
	broadcasts := NewBroadcastHandler(c.Broadcasts)
	admin := NewAdminHandler(c.Users, c.Deletions)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/ready", health.Ready)
	mux.HandleFunc("GET /health/live", health.Live)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /login", authHandler.LoginPage)
	mux.HandleFunc("POST /login", authHandler.Login)

	session := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth.RequireSession(h))
	}
	adminOnly := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth.RequireSession(auth.RequireAdmin(h)))
	}

	session("POST /logout", authHandler.Logout)
	session("GET /api/me", console.Me)
	session("GET /api/me/profile", profile.Get)
	session("PUT /api/me", profile.Update)
	session("GET /api/navigation", console.Navigation)
	session("GET /api/dashboard/counters", console.Counters)

	session("GET /api/facilities", facilities.List)
	session("GET /api/facilities/{id}", facilities.Get)

	session("GET /api/staff", staff.List)
	session("POST /api/staff", staff.Create)
	session("GET /api/staff/export", exports.Staff)
	session("GET /api/staff/{id}", staff.Get)
	session("PUT /api/staff/{id}", staff.Update)
	session("DELETE /api/staff/{id}", staff.Delete)

	session("GET /api/students", students.List)
	session("POST /api/students", students.Create)
	session("GET /api/students/export", exports.Students)
	session("GET /api/students/{id}", students.Get)
	session("PUT /api/students/{id}", students.Update)
	session("DELETE /api/students/{id}", students.Delete)

	session("GET /api/applications", applications.List)
	session("POST /api/applications", applications.Create)
	session("GET /api/applications/{id}", applications.Get)
	session("PUT /api/applications/{id}", applications.Update)
	session("DELETE /api/applications/{id}", applications.Delete)
	session("PATCH /api/applications/{id}/status", appActions.UpdateStatus)
	session("POST /api/applications/{id}/promote", appActions.Promote)

	session("GET /api/events", events.List)
	session("POST /api/events", events.Create)
	session("GET /api/events/{id}", events.Get)
	session("PUT /api/events/{id}", events.Update)
	session("DELETE /api/events/{id}", events.Delete)

	session("GET /api/tickets", tickets.List)
	session("POST /api/tickets", tickets.Create)
	session("GET /api/tickets/board", ticketActions.Board)
	session("GET /api/tickets/{id}", tickets.Get)
	session("PUT /api/tickets/{id}", tickets.Update)
	session("DELETE /api/tickets/{id}", tickets.Delete)
	adminOnly("PATCH /api/tickets/{id}/status", ticketActions.MoveStatus)
	session("GET /api/tickets/{id}/comments", ticketActions.Comments)
	session("POST /api/tickets/{id}/comments", ticketActions.AddComment)

	session("GET /api/help", articles.List)
	session("GET /api/help/{id}", articles.Get)
	adminOnly("POST /api/help", articles.Create)
	adminOnly("PUT /api/help/{id}", articles.Update)
	adminOnly("DELETE /api/help/{id}", articles.Delete)

	session("POST /api/attendance", attendance.Record)
	session("GET /api/attendance", attendance.List)
	session("GET /api/attendance/report", attendance.Report)

	session("POST /api/invoices", invoices.Compose)
	session("POST /api/broadcasts", broadcasts.Send)

	session("POST /api/deletions/{token}/confirm", deletions.Confirm)
	session("DELETE /api/deletions/{token}", deletions.Cancel)

	adminOnly("GET /api/admin/users", admin.ListUsers)
	adminOnly("POST /api/admin/users", admin.CreateUser)
	adminOnly("GET /api/admin/users/{id}", admin.GetUser)
	adminOnly("PUT /api/admin/users/{id}", admin.UpdateUser)
	adminOnly("DELETE /api/admin/users/{id}", admin.DeleteUser)
	adminOnly("PUT /api/admin/users/{id}/facilities", admin.AssignFacilities)
	adminOnly("GET /api/admin/roles", admin.Roles)

	adminOnly("GET /api/admin/facilities", adminFacilities.List)
	adminOnly("POST /api/admin/facilities", adminFacilities.Create)
	adminOnly("GET /api/admin/facilities/{id}", adminFacilities.Get)
	adminOnly("PUT /api/admin/facilities/{id}", adminFacilities.Update)
	adminOnly("DELETE /api/admin/facilities/{id}", adminFacilities.Delete)

	return middleware.RequestMetrics(middleware.CORSMiddleware(cfg.AllowedOrigins)(mux))
}
