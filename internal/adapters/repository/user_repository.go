package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// IdentityRepository owns users, roles and the user-facility join table.
type IdentityRepository struct {
	db *sql.DB
}

var (
	_ ports.UserRepository       = (*IdentityRepository)(nil)
	_ ports.RoleRepository       = (*IdentityRepository)(nil)
	_ ports.AssignmentRepository = (*IdentityRepository)(nil)
)

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const userSelect = `
	SELECT u.id, u.email, u.display_name, u.phone, u.role_id, r.name, u.password_hash,
	       ARRAY(SELECT uf.facility_id FROM user_facilities uf WHERE uf.user_id = u.id ORDER BY uf.facility_id),
	       u.created_at, u.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Phone, &u.RoleID, &u.RoleName, &u.PasswordHash,
		pq.Array(&u.FacilityIDs), &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE lower(u.email) = lower($1)", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	return user, err
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE u.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return user, err
}

func (r *IdentityRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+" ORDER BY u.display_name, u.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *IdentityRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, phone, role_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.DisplayName, user.Phone, user.RoleID, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err, "user")
}

// Update keeps the stored password hash when user.PasswordHash is empty.
func (r *IdentityRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, display_name = $3, phone = $4, role_id = $5,
		    password_hash = COALESCE(NULLIF($6, ''), password_hash), updated_at = $7
		WHERE id = $1`,
		user.ID, user.Email, user.DisplayName, user.Phone, user.RoleID, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return mapError(err, "user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *IdentityRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM roles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *IdentityRepository) FindRoleByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.findRole(ctx, "id", id)
}

func (r *IdentityRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findRole(ctx, "name", name)
}

func (r *IdentityRepository) findRole(ctx context.Context, column, value string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM roles WHERE "+column+" = $1", value).Scan(&role.ID, &role.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("role %s: %w", value, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *IdentityRepository) FacilityIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT facility_id FROM user_facilities WHERE user_id = $1 ORDER BY facility_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceAssignments swaps the whole facility set in one transaction.
func (r *IdentityRepository) ReplaceAssignments(ctx context.Context, userID string, facilityIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_facilities WHERE user_id = $1", userID); err != nil {
		return err
	}
	if len(facilityIDs) > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_facilities (user_id, facility_id)
			SELECT $1, unnest($2::text[])
			ON CONFLICT DO NOTHING`,
			userID, pq.Array(facilityIDs),
		)
		if err != nil {
			return mapError(err, "assignment")
		}
	}
	return tx.Commit()
}
