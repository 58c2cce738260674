package ports

import (
	"context"
	"time"
)

const StudentEnrolledEventType = "student.enrolled"

type StudentEnrolledEvent struct {
	StudentID     string    `json:"student_id"`
	ApplicationID string    `json:"application_id"`
	FacilityID    string    `json:"facility_id"`
	ParentName    string    `json:"parent_name"`
	ParentEmail   string    `json:"parent_email"`
	EnrolledAt    time.Time `json:"enrolled_at"`
}

type EnrollmentEventPublisher interface {
	PublishStudentEnrolled(ctx context.Context, evt StudentEnrolledEvent) error
}

const BroadcastRequestedEventType = "broadcast.requested"

// BroadcastRequestedEvent carries a composed facility message to the mail
// worker. Recipients are resolved when the broadcast is requested.
type BroadcastRequestedEvent struct {
	BroadcastID string    `json:"broadcast_id"`
	FacilityID  string    `json:"facility_id"`
	Audience    string    `json:"audience"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Recipients  []string  `json:"recipients"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

type BroadcastEventPublisher interface {
	PublishBroadcastRequested(ctx context.Context, evt BroadcastRequestedEvent) error
}

// OutboxPublisher is everything the relay can deliver.
type OutboxPublisher interface {
	EnrollmentEventPublisher
	BroadcastEventPublisher
}

// BroadcastRepository queues composed broadcasts for delivery.
type BroadcastRepository interface {
	RecordBroadcast(ctx context.Context, evt BroadcastRequestedEvent) error
}
