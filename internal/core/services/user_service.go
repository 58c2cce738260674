package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// UserService is the administrator's user management: accounts, roles and
// facility assignments.
type UserService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	assignments ports.AssignmentRepository
	facilities  ports.FacilityRepository
	scopes      *ScopeService
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	assignments ports.AssignmentRepository,
	facilities ports.FacilityRepository,
	scopes *ScopeService,
) *UserService {
	return &UserService{
		users:       users,
		roles:       roles,
		assignments: assignments,
		facilities:  facilities,
		scopes:      scopes,
	}
}

type NewUser struct {
	Email       string
	DisplayName string
	Phone       string
	Password    string
	RoleID      string
	FacilityIDs []string
}

type UserChanges struct {
	Email       string
	DisplayName string
	Phone       string
	RoleID      string
	Password    string
}

// ProfileChanges are the fields users may change on their own account.
type ProfileChanges struct {
	Email       string
	DisplayName string
	Phone       string
	Password    string
}

func (s *UserService) Kind() string { return "user" }

func (s *UserService) List(ctx context.Context, sess *domain.Session, search string) ([]*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return domain.Search(users, search,
		func(u *domain.User) string { return u.DisplayName },
		func(u *domain.User) string { return u.Email },
	), nil
}

func (s *UserService) Get(ctx context.Context, sess *domain.Session, id string) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Roles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.ListRoles(ctx)
}

// Create adds an account. Without a role the account gets the plain user
// role, which has no admin access.
func (s *UserService) Create(ctx context.Context, sess *domain.Session, in NewUser) (*domain.User, error) {
	if sess == nil || !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.create(ctx, in)
}

// Bootstrap creates an Administrator without a signed-in session. It is
// meant for provisioning tools, never for request handlers.
func (s *UserService) Bootstrap(ctx context.Context, email, displayName, password string) (*domain.User, error) {
	role, err := s.roles.FindRoleByName(ctx, domain.RoleAdministrator)
	if err != nil {
		return nil, fmt.Errorf("find administrator role: %w", err)
	}
	return s.create(ctx, NewUser{Email: email, DisplayName: displayName, Password: password, RoleID: role.ID})
}

// create checks every input, facility IDs included, before the first write.
func (s *UserService) create(ctx context.Context, in NewUser) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
	}

	role, err := s.resolveRole(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	scope := domain.NewScope(in.FacilityIDs)
	if err := s.checkFacilities(ctx, scope.FacilityIDs); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Phone:        in.Phone,
		RoleID:       role.ID,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if len(scope.FacilityIDs) > 0 {
		if err := s.writeAssignments(ctx, user.ID, scope.FacilityIDs); err != nil {
			if derr := s.users.Delete(ctx, user.ID); derr != nil {
				log.Printf("[CRITICAL] users: %s created without facilities, cleanup failed: %v", user.ID, derr)
			}
			return nil, err
		}
	}
	log.Printf("users: created %s with role %s", user.ID, role.Name)
	return s.users.FindByID(ctx, user.ID)
}

func (s *UserService) Update(ctx context.Context, sess *domain.Session, id string, in UserChanges) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.update(ctx, id, in)
}

// Profile returns the signed-in user's own account.
func (s *UserService) Profile(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	if sess == nil {
		return nil, domain.ErrNoCredential
	}
	return s.users.FindByID(ctx, sess.UserID)
}

// UpdateProfile changes the signed-in user's own contact details and
// password. Role and facilities stay with the administrators.
func (s *UserService) UpdateProfile(ctx context.Context, sess *domain.Session, in ProfileChanges) (*domain.User, error) {
	if sess == nil {
		return nil, domain.ErrNoCredential
	}
	user, err := s.update(ctx, sess.UserID, UserChanges{
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Phone:       in.Phone,
		Password:    in.Password,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("users: %s updated their profile", user.ID)
	return user, nil
}

func (s *UserService) update(ctx context.Context, id string, in UserChanges) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = email
	}
	if name := strings.TrimSpace(in.DisplayName); name != "" {
		user.DisplayName = name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.RoleID != "" {
		role, err := s.resolveRole(ctx, in.RoleID)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
	}
	user.PasswordHash = ""
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, domain.NewValidationError("password", "must be at least 8 characters")
		}
		if user.PasswordHash, err = HashPassword(in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.users.FindByID(ctx, id)
}

// AssignFacilities replaces the user's facility set. The new scope applies
// from the user's next request.
func (s *UserService) AssignFacilities(ctx context.Context, sess *domain.Session, id string, facilityIDs []string) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.replaceAssignments(ctx, id, facilityIDs); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) replaceAssignments(ctx context.Context, userID string, facilityIDs []string) error {
	scope := domain.NewScope(facilityIDs)
	if err := s.checkFacilities(ctx, scope.FacilityIDs); err != nil {
		return err
	}
	return s.writeAssignments(ctx, userID, scope.FacilityIDs)
}

func (s *UserService) checkFacilities(ctx context.Context, facilityIDs []string) error {
	for _, fid := range facilityIDs {
		if _, err := s.facilities.Get(ctx, fid); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("facility_ids", "contains unknown facility "+fid)
			}
			return fmt.Errorf("check facility %s: %w", fid, err)
		}
	}
	return nil
}

func (s *UserService) writeAssignments(ctx context.Context, userID string, facilityIDs []string) error {
	if err := s.assignments.ReplaceAssignments(ctx, userID, facilityIDs); err != nil {
		return fmt.Errorf("replace assignments: %w", err)
	}
	if err := s.scopes.Invalidate(ctx, userID); err != nil {
		log.Printf("users: scope cache invalidation failed for %s: %v", userID, err)
	}
	return nil
}

func (s *UserService) resolveRole(ctx context.Context, roleID string) (*domain.Role, error) {
	if roleID == "" {
		return s.roles.FindRoleByName(ctx, domain.RoleUser)
	}
	role, err := s.roles.FindRoleByID(ctx, roleID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("role_id", "is not a known role")
	}
	return role, err
}

func (s *UserService) Describe(ctx context.Context, sess *domain.Session, id string) (string, error) {
	user, err := s.Get(ctx, sess, id)
	if err != nil {
		return "", err
	}
	if user.ID == sess.UserID {
		return "", domain.NewValidationError("id", "cannot delete your own account")
	}
	if user.DisplayName != "" {
		return user.DisplayName, nil
	}
	return user.Email, nil
}

func (s *UserService) Remove(ctx context.Context, sess *domain.Session, id string) error {
	if _, err := s.Describe(ctx, sess, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.scopes.Invalidate(ctx, id); err != nil {
		log.Printf("users: scope cache invalidation failed for %s: %v", id, err)
	}
	return nil
}
