package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

type userFixture struct {
	svc    *services.UserService
	store  *memory.Store
	scopes *services.ScopeService
	admin  *domain.Session
}

func newUserFixture(t *testing.T) userFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range []string{"f1", "f2"} {
		if _, err := store.Facilities.Create(ctx, &domain.Facility{ID: id, Name: "Creche " + id}); err != nil {
			t.Fatal(err)
		}
	}
	store.SeedUser(domain.User{ID: "admin", Email: "admin@example.com", RoleID: memory.RoleAdministratorID})

	scopes := services.NewScopeService(store, memory.NewSessionStore(), time.Hour)
	svc := services.NewUserService(store, store, store, store.Facilities, scopes)
	return userFixture{svc: svc, store: store, scopes: scopes, admin: mocks.NewTestSession("admin", domain.RoleAdministrator)}
}

func TestUserService_CreateDefaultsToUserRole(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.Create(context.Background(), f.admin, services.NewUser{
		Email:       "mpho@example.com",
		DisplayName: "Mpho",
		Password:    "long enough",
		FacilityIDs: []string{"f2", "f1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.RoleName != domain.RoleUser {
		t.Errorf("expected role User, got %q", user.RoleName)
	}
	if len(user.FacilityIDs) != 2 {
		t.Errorf("expected two facilities, got %v", user.FacilityIDs)
	}
	if user.PasswordHash == "" || user.PasswordHash == "long enough" {
		t.Error("password must be stored hashed")
	}
}

func TestUserService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input services.NewUser
		field string
	}{
		{name: "missing_email", input: services.NewUser{Password: "long enough"}, field: "email"},
		{name: "short_password", input: services.NewUser{Email: "a@example.com", Password: "short"}, field: "password"},
		{name: "unknown_role", input: services.NewUser{Email: "a@example.com", Password: "long enough", RoleID: "role-king"}, field: "role_id"},
		{name: "unknown_facility", input: services.NewUser{Email: "a@example.com", Password: "long enough", FacilityIDs: []string{"f9"}}, field: "facility_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			_, err := f.svc.Create(context.Background(), f.admin, tt.input)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestUserService_AssignFacilitiesRefreshesScope(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.store.SeedUser(domain.User{ID: "u1", Email: "u1@example.com", RoleID: memory.RoleUserID}, "f1")

	if scope, _ := f.scopes.Resolve(ctx, "u1"); !scope.Contains("f1") {
		t.Fatalf("expected initial scope [f1], got %v", scope.FacilityIDs)
	}

	user, err := f.svc.AssignFacilities(ctx, f.admin, "u1", []string{"f2"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(user.FacilityIDs) != 1 || user.FacilityIDs[0] != "f2" {
		t.Errorf("expected [f2], got %v", user.FacilityIDs)
	}

	scope, err := f.scopes.Resolve(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if scope.Contains("f1") || !scope.Contains("f2") {
		t.Errorf("stale scope after reassignment: %v", scope.FacilityIDs)
	}
}

func TestUserService_NeedsAdministrator(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := mocks.NewTestSession("u1", domain.RoleUser)

	if _, err := f.svc.List(ctx, user, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("list: expected forbidden, got %v", err)
	}
	if _, err := f.svc.AssignFacilities(ctx, user, "admin", []string{"f1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("assign: expected forbidden, got %v", err)
	}
	if err := f.svc.Remove(ctx, f.admin, "admin"); err == nil {
		t.Error("administrators must not delete their own account")
	}
}

func TestUserService_RejectedCreateLeavesNoAccount(t *testing.T) {
	tests := []struct {
		name       string
		replaceErr error
		facilities []string
	}{
		{name: "unknown_facility", facilities: []string{"f1", "nope"}},
		{name: "assignment_write_fails", facilities: []string{"f1"}, replaceErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			ctx := context.Background()
			assignments := mocks.NewMockAssignmentRepository()
			assignments.ReplaceError = tt.replaceErr
			svc := services.NewUserService(f.store, f.store, assignments, f.store.Facilities, f.scopes)

			if _, err := svc.Create(ctx, f.admin, services.NewUser{
				Email:       "thabo@example.com",
				Password:    "long enough",
				FacilityIDs: tt.facilities,
			}); err == nil {
				t.Fatal("expected create to fail")
			}

			if _, err := f.store.FindByEmail(ctx, "thabo@example.com"); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("failed create must not leave an account, got %v", err)
			}
		})
	}
}

func TestUserService_CreateRequiresSession(t *testing.T) {
	f := newUserFixture(t)
	_, err := f.svc.Create(context.Background(), nil, services.NewUser{Email: "x@example.com", Password: "long enough"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden without a session, got %v", err)
	}
}

func TestUserService_Bootstrap(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.Bootstrap(context.Background(), "root@example.com", "Root", "long enough")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if user.RoleName != domain.RoleAdministrator || len(user.FacilityIDs) != 0 {
		t.Errorf("expected an Administrator without facilities, got %+v", user)
	}

	if _, err := f.svc.Bootstrap(context.Background(), "root@example.com", "Root", "long enough"); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second bootstrap with the same email: expected conflict, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	tests := []struct {
		name     string
		changes  services.ProfileChanges
		wantErr   error
		wantField string
		wantName  string
	}{
		{name: "contact_details", changes: services.ProfileChanges{DisplayName: "Lerato M", Phone: "+27 11 555 0101"}, wantName: "Lerato M"},
		{name: "taken_email", changes: services.ProfileChanges{Email: "ADMIN@example.com"}, wantErr: domain.ErrConflict, wantName: "Lerato"},
		{name: "short_password", changes: services.ProfileChanges{Password: "short"}, wantField: "password", wantName: "Lerato"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			ctx := context.Background()
			created, err := f.svc.Create(ctx, f.admin, services.NewUser{
				Email: "lerato@example.com", DisplayName: "Lerato", Password: "long enough", FacilityIDs: []string{"f1"},
			})
			if err != nil {
				t.Fatal(err)
			}
			sess := mocks.NewTestSession(created.ID, domain.RoleUser, "f1")

			_, err = f.svc.UpdateProfile(ctx, sess, tt.changes)
			var verr *domain.ValidationError
			switch {
			case tt.wantField != "":
				if !errors.As(err, &verr) || verr.Field != tt.wantField {
					t.Fatalf("expected validation error on %s, got %v", tt.wantField, err)
				}
			case !errors.Is(err, tt.wantErr):
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			got, err := f.svc.Profile(ctx, sess)
			if err != nil {
				t.Fatal(err)
			}
			if got.DisplayName != tt.wantName {
				t.Errorf("expected display name %q, got %q", tt.wantName, got.DisplayName)
			}
			if got.RoleName != domain.RoleUser || len(got.FacilityIDs) != 1 {
				t.Errorf("profile update must not touch role or facilities, got %+v", got)
			}
			if bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("long enough")) != nil {
				t.Error("existing password must still work")
			}
		})
	}
}

func TestUserService_ProfileRequiresSession(t *testing.T) {
	f := newUserFixture(t)
	if _, err := f.svc.Profile(context.Background(), nil); !errors.Is(err, domain.ErrNoCredential) {
		t.Errorf("Profile: expected ErrNoCredential, got %v", err)
	}
	if _, err := f.svc.UpdateProfile(context.Background(), nil, services.ProfileChanges{DisplayName: "x"}); !errors.Is(err, domain.ErrNoCredential) {
		t.Errorf("UpdateProfile: expected ErrNoCredential, got %v", err)
	}
}
