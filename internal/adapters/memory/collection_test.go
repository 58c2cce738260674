package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

func TestCollection_CRUD(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[*domain.Student]("student")

	created, err := c.Create(ctx, &domain.Student{ID: "s1", FacilityID: "f1", Name: "Thabo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created.Name = "changed outside the store"

	got, err := c.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Thabo" {
		t.Errorf("store shares memory with callers: %q", got.Name)
	}

	if _, err := c.Create(ctx, &domain.Student{ID: "s1"}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict on duplicate ID, got %v", err)
	}

	got.Name = "Thabo M."
	if _, err := c.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := c.Update(ctx, &domain.Student{ID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found on update, got %v", err)
	}

	if err := c.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestCollection_ListAppliesFilter(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[*domain.Student]("student")
	for _, s := range []*domain.Student{
		{ID: "s1", FacilityID: "f1"},
		{ID: "s2", FacilityID: "f2"},
		{ID: "s3", FacilityID: "f1"},
	} {
		if _, err := c.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	got, err := c.List(ctx, ports.ListFilter{FacilityIDs: []string{"f1"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "s3" {
		t.Errorf("expected [s1 s3] in insertion order, got %v", got)
	}

	none, _ := c.List(ctx, ports.ListFilter{FacilityIDs: []string{}})
	if len(none) != 0 {
		t.Errorf("empty scope must list nothing, got %d", len(none))
	}
}

func TestStore_PromoteIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	app, _ := s.Applications.Create(ctx, &domain.Application{ID: "a1", FacilityID: "f1", Status: domain.ApplicationNew})

	student := app.ToStudent()
	student.ID = "s1"
	err := s.Promote(ctx, app, &student, ports.StudentEnrolledEvent{StudentID: "s1"})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for a New application, got %v", err)
	}
	if s.Students.Len() != 0 || s.Applications.Len() != 1 {
		t.Errorf("failed promotion left partial writes: students=%d applications=%d", s.Students.Len(), s.Applications.Len())
	}

	app.Status = domain.ApplicationApproved
	if _, err := s.Applications.Update(ctx, app); err != nil {
		t.Fatal(err)
	}
	if err := s.Promote(ctx, app, &student, ports.StudentEnrolledEvent{StudentID: "s1"}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if s.Students.Len() != 1 || s.Applications.Len() != 0 || len(s.Enrollments()) != 1 {
		t.Errorf("unexpected state after promotion: students=%d applications=%d events=%d",
			s.Students.Len(), s.Applications.Len(), len(s.Enrollments()))
	}
}

func TestDeletionStore_TakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	d := NewDeletionStore()
	_ = d.Put(ctx, ports.PendingDeletion{Token: "t1", Kind: "student", RecordID: "s1"}, 0)

	if _, ok, _ := d.Take(ctx, "t1"); !ok {
		t.Fatal("expected pending deletion")
	}
	if _, ok, _ := d.Take(ctx, "t1"); ok {
		t.Error("token must be consumed by the first Take")
	}
}
