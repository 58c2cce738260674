package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
	"github.com/AchilleasB/creche-admin/console-service/internal/metrics"
)

// BroadcastService sends one facility-signed message to a facility's staff
// or to the parents of its students. Delivery happens out of process.
type BroadcastService struct {
	facilities *EntityService[*domain.Facility]
	staff      *EntityService[*domain.Staff]
	students   *EntityService[*domain.Student]
	outbox     ports.BroadcastRepository
}

func NewBroadcastService(
	facilities *EntityService[*domain.Facility],
	staff *EntityService[*domain.Staff],
	students *EntityService[*domain.Student],
	outbox ports.BroadcastRepository,
) *BroadcastService {
	return &BroadcastService{facilities: facilities, staff: staff, students: students, outbox: outbox}
}

type BroadcastRequest struct {
	FacilityID string
	Audience   string
	Subject    string
	Message    string
}

func (s *BroadcastService) Send(ctx context.Context, sess *domain.Session, req BroadcastRequest) (domain.Broadcast, error) {
	audience, err := domain.ParseBroadcastAudience(req.Audience)
	if err != nil {
		return domain.Broadcast{}, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return domain.Broadcast{}, domain.NewValidationError("message", "is required")
	}
	facility, err := s.facilities.Get(ctx, sess, req.FacilityID)
	if err != nil {
		return domain.Broadcast{}, err
	}

	recipients, err := s.recipients(ctx, sess, facility.ID, audience)
	if err != nil {
		return domain.Broadcast{}, err
	}
	if len(recipients) == 0 {
		return domain.Broadcast{}, domain.NewValidationError("audience", fmt.Sprintf("has no %s email addresses", audience))
	}

	subject, body := domain.ComposeBroadcast(facility, req.Subject, req.Message)
	b := domain.Broadcast{
		ID:             uuid.NewString(),
		FacilityID:     facility.ID,
		Audience:       audience,
		Subject:        subject,
		Body:           body,
		RecipientCount: len(recipients),
		Recipients:     recipients,
		RequestedAt:    time.Now().UTC(),
	}

	err = s.outbox.RecordBroadcast(ctx, ports.BroadcastRequestedEvent{
		BroadcastID: b.ID,
		FacilityID:  b.FacilityID,
		Audience:    string(b.Audience),
		Subject:     b.Subject,
		Body:        b.Body,
		Recipients:  b.Recipients,
		RequestedBy: sess.UserID,
		RequestedAt: b.RequestedAt,
	})
	if err != nil {
		metrics.Broadcasts.WithLabelValues(string(audience), "failed").Inc()
		return domain.Broadcast{}, fmt.Errorf("queue broadcast: %w", err)
	}

	metrics.Broadcasts.WithLabelValues(string(audience), "queued").Inc()
	log.Printf("broadcast: %s queued for %d %s of facility %s", b.ID, b.RecipientCount, audience, b.FacilityID)
	return b, nil
}

func (s *BroadcastService) recipients(ctx context.Context, sess *domain.Session, facilityID string, audience domain.BroadcastAudience) ([]string, error) {
	var emails []string
	switch audience {
	case domain.AudienceStaff:
		staff, err := s.staff.All(ctx, sess)
		if err != nil {
			return nil, err
		}
		for _, m := range staff {
			if m.FacilityID == facilityID {
				emails = append(emails, m.Email)
			}
		}
	case domain.AudienceParents:
		students, err := s.students.All(ctx, sess)
		if err != nil {
			return nil, err
		}
		for _, st := range students {
			if st.FacilityID == facilityID {
				emails = append(emails, st.ParentEmail)
			}
		}
	}
	return domain.UniqueEmails(emails), nil
}
