package domain

import (
	"slices"
	"time"
)

// Scope is the set of facility IDs a user may operate on.
type Scope struct {
	FacilityIDs []string `json:"facility_ids"`
}

// NewScope drops blanks and duplicates. The result is sorted so equal scopes
// compare and cache identically.
func NewScope(ids []string) Scope {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return Scope{FacilityIDs: out}
}

func (s Scope) Contains(facilityID string) bool {
	return facilityID != "" && slices.Contains(s.FacilityIDs, facilityID)
}

func (s Scope) IsEmpty() bool {
	return len(s.FacilityIDs) == 0
}

// Session is the authenticated caller, built once per request by the auth
// guard and passed explicitly to every service call.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	RoleName    string    `json:"role_name"`
	TokenID     string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	Scope       Scope     `json:"scope"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && HasAdminAccess(s.RoleName)
}
