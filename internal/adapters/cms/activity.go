package cms

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// ActivityStore keeps attendance and ticket comments as append-only CMS
// resources.
type ActivityStore struct {
	client *Client
}

var (
	_ ports.AttendanceRepository = (*ActivityStore)(nil)
	_ ports.CommentRepository    = (*ActivityStore)(nil)
)

func (s *ActivityStore) Append(ctx context.Context, rec *domain.AttendanceRecord) error {
	_, err := s.client.do(ctx, http.MethodPost, ResourceAttendance, nil, rec, nil)
	return err
}

func (s *ActivityStore) ListByMonth(ctx context.Context, filter ports.ListFilter, kind domain.SubjectKind, month string) ([]*domain.AttendanceRecord, error) {
	if filter.Scoped() && len(filter.FacilityIDs) == 0 {
		return []*domain.AttendanceRecord{}, nil
	}
	query := url.Values{"subject_kind": {string(kind)}, "month": {month}}
	all, err := listAll[*domain.AttendanceRecord](ctx, s.client, ResourceAttendance, query)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AttendanceRecord, 0, len(all))
	for _, rec := range all {
		if rec.SubjectKind != kind || !strings.HasPrefix(rec.Date, month+"-") || !filter.Matches(rec) {
			continue
		}
		out = append(out, rec)
	}
	slices.SortStableFunc(out, func(a, b *domain.AttendanceRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out, nil
}

func (s *ActivityStore) AppendComment(ctx context.Context, c *domain.TicketComment) error {
	_, err := s.client.do(ctx, http.MethodPost, ResourceComment, nil, c, nil)
	return err
}

func (s *ActivityStore) ListComments(ctx context.Context, ticketID string) ([]*domain.TicketComment, error) {
	all, err := listAll[*domain.TicketComment](ctx, s.client, ResourceComment, url.Values{"ticket_id": {ticketID}})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.TicketComment, 0, len(all))
	for _, c := range all {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.TicketComment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}
