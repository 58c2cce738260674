package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

func seededStudents() *mocks.MockRepository[*domain.Student] {
	repo := mocks.NewMockRepository[*domain.Student]("student")
	repo.Seed(
		&domain.Student{ID: "s1", FacilityID: "f1", Name: "Lerato Mokoena", ParentName: "Palesa Mokoena"},
		&domain.Student{ID: "s2", FacilityID: "f2", Name: "Sipho Ndlovu", ParentName: "Bongani Ndlovu"},
		&domain.Student{ID: "s3", FacilityID: "f1", Name: "Ayanda Khumalo", ParentName: "Zodwa Khumalo"},
	)
	return repo
}

func TestEntityService_ListIsScopedToFacilities(t *testing.T) {
	tests := []struct {
		name      string
		scope     []string
		wantIDs   []string
		wantCalls int
		wantEmpty string
	}{
		{
			name:      "single_facility",
			scope:     []string{"f1"},
			wantIDs:   []string{"s1", "s3"},
			wantCalls: 1,
		},
		{
			name:      "both_facilities",
			scope:     []string{"f1", "f2"},
			wantIDs:   []string{"s1", "s2", "s3"},
			wantCalls: 1,
		},
		{
			name:      "unassigned_facility",
			scope:     []string{"f9"},
			wantIDs:   nil,
			wantCalls: 1,
			wantEmpty: "No students found",
		},
		{
			name:      "empty_scope_skips_backend",
			scope:     nil,
			wantIDs:   nil,
			wantCalls: 0,
			wantEmpty: "No students found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seededStudents()
			svc := services.NewStudentService(repo)
			sess := mocks.NewTestSession("u1", domain.RoleUser, tt.scope...)

			page, err := svc.List(context.Background(), sess, services.ListQuery{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got []string
			for _, s := range page.Items {
				got = append(got, s.ID)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %v, got %v", tt.wantIDs, got)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("expected %v, got %v", tt.wantIDs, got)
				}
			}
			if repo.ListCalls != tt.wantCalls {
				t.Errorf("expected %d backend calls, got %d", tt.wantCalls, repo.ListCalls)
			}
			if page.EmptyMessage != tt.wantEmpty {
				t.Errorf("expected empty message %q, got %q", tt.wantEmpty, page.EmptyMessage)
			}
		})
	}
}

func TestEntityService_SearchThenPaginate(t *testing.T) {
	svc := services.NewStudentService(seededStudents())
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1", "f2")

	page, err := svc.List(context.Background(), sess, services.ListQuery{Search: "ndlovu"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != "s2" {
		t.Errorf("parent name search should match s2 only, got %+v", page.Items)
	}

	page, err = svc.List(context.Background(), sess, services.ListQuery{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Errorf("unexpected page: total=%d pages=%d items=%d", page.Total, page.TotalPages, len(page.Items))
	}
}

func TestEntityService_BackendFailureIsReturned(t *testing.T) {
	repo := seededStudents()
	repo.ListError = context.DeadlineExceeded
	svc := services.NewStudentService(repo)

	_, err := svc.List(context.Background(), mocks.NewTestSession("u1", domain.RoleUser, "f1"), services.ListQuery{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestEntityService_OutOfScopeRecordsLookMissing(t *testing.T) {
	svc := services.NewStudentService(seededStudents())
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1")
	ctx := context.Background()

	if _, err := svc.Get(ctx, sess, "s2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected not found, got %v", err)
	}
	if _, err := svc.Update(ctx, sess, "s2", &domain.Student{FacilityID: "f1", Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update: expected not found, got %v", err)
	}
	if err := svc.Remove(ctx, sess, "s2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("remove: expected not found, got %v", err)
	}
}

func TestEntityService_CreateChecksFacility(t *testing.T) {
	repo := seededStudents()
	svc := services.NewStudentService(repo)
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1")
	ctx := context.Background()

	if _, err := svc.Create(ctx, sess, &domain.Student{FacilityID: "f2", Name: "Kea"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden outside scope, got %v", err)
	}

	var verr *domain.ValidationError
	if _, err := svc.Create(ctx, sess, &domain.Student{Name: "Kea"}); !errors.As(err, &verr) {
		t.Errorf("expected validation error without facility, got %v", err)
	}

	created, err := svc.Create(ctx, sess, &domain.Student{ID: "client-chosen", FacilityID: "f1", Name: "Kea"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.ID == "client-chosen" {
		t.Errorf("expected a server-assigned id, got %q", created.ID)
	}
	if repo.Len() != 4 {
		t.Errorf("expected 4 students, got %d", repo.Len())
	}
}

func TestEntityService_UpdateCannotMoveOutOfScope(t *testing.T) {
	svc := services.NewStudentService(seededStudents())
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1")

	_, err := svc.Update(context.Background(), sess, "s1", &domain.Student{FacilityID: "f2", Name: "Lerato"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestEventService_OwnerScoping(t *testing.T) {
	repo := mocks.NewMockRepository[*domain.Event]("event")
	svc := services.NewEventService(repo)
	ctx := context.Background()
	alice := mocks.NewTestSession("alice", domain.RoleUser)
	bob := mocks.NewTestSession("bob", domain.RoleAdministrator)

	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	evt, err := svc.Create(ctx, alice, &domain.Event{OwnerID: "bob", Title: "Parents evening", Start: start})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if evt.OwnerID != "alice" {
		t.Errorf("owner should be the creating user, got %q", evt.OwnerID)
	}
	if !evt.End.Equal(start) {
		t.Errorf("end should default to start, got %v", evt.End)
	}

	page, err := svc.List(ctx, bob, services.ListQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Errorf("events are private even to administrators, got %d", page.Total)
	}
	if _, err := svc.Get(ctx, bob, evt.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for another user's event, got %v", err)
	}

	_, err = svc.Create(ctx, alice, &domain.Event{Title: "Backwards", Start: start, End: start.Add(-time.Hour)})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "end" {
		t.Errorf("expected end validation error, got %v", err)
	}
}

func TestArticleService_WritesNeedAdministrator(t *testing.T) {
	svc := services.NewArticleService(mocks.NewMockRepository[*domain.Article]("article"))
	ctx := context.Background()

	if _, err := svc.Create(ctx, mocks.NewTestSession("u1", domain.RoleUser), &domain.Article{Title: "Fees"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}

	dev := mocks.NewTestSession("d1", domain.RoleDeveloper)
	article, err := svc.Create(ctx, dev, &domain.Article{Title: "Fees", Content: "<p>Due monthly</p>"})
	if err != nil {
		t.Fatalf("developer create: %v", err)
	}
	if article.CreatedAt.IsZero() || article.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	page, err := svc.List(ctx, mocks.NewTestSession("u1", domain.RoleUser), services.ListQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("every user reads help articles, got %d", page.Total)
	}
}
