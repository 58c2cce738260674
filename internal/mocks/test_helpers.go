package mocks

import (
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// NewTestSession builds a session as the auth guard would after resolving a token.
func NewTestSession(userID, roleName string, facilityIDs ...string) *domain.Session {
	return &domain.Session{
		UserID:    userID,
		Email:     userID + "@example.com",
		RoleName:  roleName,
		TokenID:   "token-" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
		Scope:     domain.NewScope(facilityIDs),
	}
}

func CreateTestEnrollmentEvent() ports.StudentEnrolledEvent {
	return ports.StudentEnrolledEvent{
		StudentID:     "student-1",
		ApplicationID: "application-1",
		FacilityID:    "facility-1",
		ParentName:    "Naledi Dube",
		ParentEmail:   "naledi@example.com",
		EnrolledAt:    time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func CreateTestBroadcastEvent() ports.BroadcastRequestedEvent {
	return ports.BroadcastRequestedEvent{
		BroadcastID: "broadcast-1",
		FacilityID:  "facility-1",
		Audience:    "parents",
		Subject:     "Closed on Friday - Sunflower",
		Body:        "The creche is closed on Friday.\n\nKind regards,\nSunflower",
		Recipients:  []string{"naledi@example.com", "thabo@example.com"},
		RequestedBy: "user-1",
		RequestedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}
