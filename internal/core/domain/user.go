package domain

import "time"

// Role names that carry meaning. Only the first two unlock the admin section.
const (
	RoleAdministrator = "Administrator"
	RoleDeveloper     = "Developer"
	RoleUser          = "User"
)

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Phone        string    `json:"phone"`
	RoleID       string    `json:"role_id"`
	RoleName     string    `json:"role_name,omitempty"`
	PasswordHash string    `json:"-"`
	FacilityIDs  []string  `json:"facility_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }

// HasAdminAccess is the single authorization branch of the console: an exact,
// case-sensitive match on the role name. A missing role never grants access.
func HasAdminAccess(roleName string) bool {
	return roleName == RoleAdministrator || roleName == RoleDeveloper
}
