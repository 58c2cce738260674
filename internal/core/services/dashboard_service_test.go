package services_test

import (
	"context"
	"testing"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

func TestDashboardService_Counters(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	store.Students.Create(ctx, &domain.Student{ID: "s1", FacilityID: "f1"})
	store.Students.Create(ctx, &domain.Student{ID: "s2", FacilityID: "f2"})
	store.Staff.Create(ctx, &domain.Staff{ID: "t1", FacilityID: "f1"})
	store.Applications.Create(ctx, &domain.Application{ID: "a1", FacilityID: "f1", Status: domain.ApplicationNew})
	store.Applications.Create(ctx, &domain.Application{ID: "a2", FacilityID: "f1", Status: domain.ApplicationPending})
	store.Applications.Create(ctx, &domain.Application{ID: "a3", FacilityID: "f1", Status: domain.ApplicationPending})
	store.Applications.Create(ctx, &domain.Application{ID: "a4", FacilityID: "f2", Status: domain.ApplicationNew})

	svc := services.NewDashboardService(
		services.NewStudentService(store.Students),
		services.NewStaffService(store.Staff),
		services.NewApplicationService(store.Applications, store),
	)

	got, err := svc.Counters(ctx, mocks.NewTestSession("u1", domain.RoleUser, "f1"))
	if err != nil {
		t.Fatal(err)
	}
	want := services.Counters{Students: 1, Staff: 1, NewApplications: 1, PendingApplications: 2}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	got, err = svc.Counters(ctx, mocks.NewTestSession("u2", domain.RoleUser))
	if err != nil {
		t.Fatal(err)
	}
	if got != (services.Counters{}) {
		t.Errorf("unassigned users count nothing, got %+v", got)
	}
}

func TestInvoiceService_ComposeTotalsAndScope(t *testing.T) {
	store := memory.NewStore()
	store.Facilities.Create(context.Background(), &domain.Facility{ID: "f1", Name: "Sunbeams"})
	svc := services.NewInvoiceService(services.NewFacilityService(store.Facilities))
	sess := mocks.NewTestSession("u1", domain.RoleUser, "f1")

	inv, err := svc.Compose(context.Background(), sess, domain.Invoice{
		FacilityID: "f1",
		IssuedOn:   "2026-01-31",
		Lines:      []domain.InvoiceLine{{Description: "Fees", Quantity: 2, UnitPriceCents: 150000}},
		TaxRate:    0.15,
	})
	if err != nil {
		t.Fatal(err)
	}
	if inv.DueOn != "2026-03-02" || inv.TotalCents != 345000 || inv.Number == "" {
		t.Errorf("unexpected invoice %+v", inv)
	}

	if _, err := svc.Compose(context.Background(), mocks.NewTestSession("u2", domain.RoleUser, "f2"), domain.Invoice{FacilityID: "f1"}); err == nil {
		t.Error("expected error for a facility outside scope")
	}
}
