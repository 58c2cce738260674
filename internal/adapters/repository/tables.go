package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

var (
	_ ports.FacilityRepository    = (*Table[*domain.Facility])(nil)
	_ ports.StaffRepository       = (*Table[*domain.Staff])(nil)
	_ ports.StudentRepository     = (*Table[*domain.Student])(nil)
	_ ports.ApplicationRepository = (*Table[*domain.Application])(nil)
	_ ports.EventRepository       = (*Table[*domain.Event])(nil)
	_ ports.TicketRepository      = (*Table[*domain.Ticket])(nil)
	_ ports.ArticleRepository     = (*Table[*domain.Article])(nil)
)

func NewFacilityRepository(db *sql.DB) *Table[*domain.Facility] {
	return newTable(db, tableSpec[*domain.Facility]{
		kind:  "facility",
		table: "facilities",
		columns: []string{"id", "name", "address", "phone", "email", "website_url", "facebook_url",
			"instagram_url", "price", "capacity", "header_image", "images", "description", "created_at", "updated_at"},
		facilityColumn: "id",
		orderBy:        "name, id",
		scan: func(row scanner) (*domain.Facility, error) {
			var f domain.Facility
			err := row.Scan(&f.ID, &f.Name, &f.Address, &f.Phone, &f.Email, &f.WebsiteURL, &f.FacebookURL,
				&f.InstagramURL, &f.Price, &f.Capacity, &f.HeaderImage, pq.Array(&f.Images), &f.Description,
				&f.CreatedAt, &f.UpdatedAt)
			return &f, err
		},
		values: func(f *domain.Facility) []any {
			images := f.Images
			if images == nil {
				images = []string{}
			}
			return []any{f.ID, f.Name, f.Address, f.Phone, f.Email, f.WebsiteURL, f.FacebookURL,
				f.InstagramURL, f.Price, f.Capacity, f.HeaderImage, pq.Array(images), f.Description,
				f.CreatedAt, f.UpdatedAt}
		},
	})
}

func NewStaffRepository(db *sql.DB) *Table[*domain.Staff] {
	return newTable(db, tableSpec[*domain.Staff]{
		kind:           "staff",
		table:          "staff",
		columns:        []string{"id", "facility_id", "name", "qualification", "staff_number", "email", "phone_number", "position"},
		facilityColumn: "facility_id",
		orderBy:        "name, id",
		scan: func(row scanner) (*domain.Staff, error) {
			var s domain.Staff
			err := row.Scan(&s.ID, &s.FacilityID, &s.Name, &s.Qualification, &s.StaffNumber, &s.Email, &s.PhoneNumber, &s.Position)
			return &s, err
		},
		values: func(s *domain.Staff) []any {
			return []any{s.ID, s.FacilityID, s.Name, s.Qualification, s.StaffNumber, s.Email, s.PhoneNumber, s.Position}
		},
	})
}

var studentColumns = []string{"id", "facility_id", "application_id", "name", "date_of_birth", "parent_name",
	"parent_email", "parent_phone_number", "parent_address", "fees_owed", "fees_paid"}

func studentValues(s *domain.Student) []any {
	return []any{s.ID, s.FacilityID, s.ApplicationID, s.Name, s.DateOfBirth, s.ParentName,
		s.ParentEmail, s.ParentPhoneNumber, s.ParentAddress, s.FeesOwed, s.FeesPaid}
}

func NewStudentRepository(db *sql.DB) *Table[*domain.Student] {
	return newTable(db, tableSpec[*domain.Student]{
		kind:           "student",
		table:          "students",
		columns:        studentColumns,
		facilityColumn: "facility_id",
		orderBy:        "name, id",
		scan: func(row scanner) (*domain.Student, error) {
			var s domain.Student
			err := row.Scan(&s.ID, &s.FacilityID, &s.ApplicationID, &s.Name, &s.DateOfBirth, &s.ParentName,
				&s.ParentEmail, &s.ParentPhoneNumber, &s.ParentAddress, &s.FeesOwed, &s.FeesPaid)
			return &s, err
		},
		values: studentValues,
	})
}

func NewApplicationRepository(db *sql.DB) *Table[*domain.Application] {
	return newTable(db, tableSpec[*domain.Application]{
		kind:  "application",
		table: "applications",
		columns: []string{"id", "facility_id", "title", "parent_name", "parent_email", "parent_phone_number",
			"parent_address", "number_of_children", "description", "status"},
		facilityColumn: "facility_id",
		orderBy:        "title, id",
		scan: func(row scanner) (*domain.Application, error) {
			var a domain.Application
			var status string
			err := row.Scan(&a.ID, &a.FacilityID, &a.Title, &a.ParentName, &a.ParentEmail, &a.ParentPhoneNumber,
				&a.ParentAddress, &a.NumberOfChildren, &a.Description, &status)
			a.Status = domain.ApplicationStatus(status)
			return &a, err
		},
		values: func(a *domain.Application) []any {
			return []any{a.ID, a.FacilityID, a.Title, a.ParentName, a.ParentEmail, a.ParentPhoneNumber,
				a.ParentAddress, a.NumberOfChildren, a.Description, string(a.Status)}
		},
	})
}

func NewEventRepository(db *sql.DB) *Table[*domain.Event] {
	return newTable(db, tableSpec[*domain.Event]{
		kind:  "event",
		table: "events",
		columns: []string{"id", "owner_id", "title", "start_at", "end_at", "all_day", "priority", "color",
			"description", "location", "link"},
		ownerColumn: "owner_id",
		orderBy:     "start_at, id",
		scan: func(row scanner) (*domain.Event, error) {
			var e domain.Event
			err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Start, &e.End, &e.AllDay, &e.Priority, &e.Color,
				&e.Description, &e.Location, &e.Link)
			return &e, err
		},
		values: func(e *domain.Event) []any {
			return []any{e.ID, e.OwnerID, e.Title, e.Start, e.End, e.AllDay, e.Priority, e.Color,
				e.Description, e.Location, e.Link}
		},
	})
}

func NewTicketRepository(db *sql.DB) *Table[*domain.Ticket] {
	return newTable(db, tableSpec[*domain.Ticket]{
		kind:        "ticket",
		table:       "support_tickets",
		columns:     []string{"id", "user_id", "title", "category", "message", "status", "created_at"},
		ownerColumn: "user_id",
		orderBy:     "created_at DESC, id",
		scan: func(row scanner) (*domain.Ticket, error) {
			var t domain.Ticket
			var status string
			err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.Message, &status, &t.CreatedAt)
			t.Status = domain.TicketStatus(status)
			return &t, err
		},
		values: func(t *domain.Ticket) []any {
			return []any{t.ID, t.UserID, t.Title, t.Category, t.Message, string(t.Status), t.CreatedAt}
		},
	})
}

func NewArticleRepository(db *sql.DB) *Table[*domain.Article] {
	return newTable(db, tableSpec[*domain.Article]{
		kind:    "article",
		table:   "help_articles",
		columns: []string{"id", "title", "content", "created_at", "updated_at"},
		orderBy: "title, id",
		scan: func(row scanner) (*domain.Article, error) {
			var a domain.Article
			err := row.Scan(&a.ID, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt)
			return &a, err
		},
		values: func(a *domain.Article) []any {
			return []any{a.ID, a.Title, a.Content, a.CreatedAt, a.UpdatedAt}
		},
	})
}
