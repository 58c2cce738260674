package cms

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// Collection is one CMS resource exposed as a repository. The CMS has no
// notion of facility scope, so listings are filtered after decoding.
type Collection[T domain.Record] struct {
	client   *Client
	resource string
	newRec   func() T
}

var (
	_ ports.FacilityRepository    = (*Collection[*domain.Facility])(nil)
	_ ports.StaffRepository       = (*Collection[*domain.Staff])(nil)
	_ ports.StudentRepository     = (*Collection[*domain.Student])(nil)
	_ ports.ApplicationRepository = (*Collection[*domain.Application])(nil)
	_ ports.EventRepository       = (*Collection[*domain.Event])(nil)
	_ ports.TicketRepository      = (*Collection[*domain.Ticket])(nil)
	_ ports.ArticleRepository     = (*Collection[*domain.Article])(nil)
)

func NewCollection[T domain.Record](client *Client, resource string, newRec func() T) *Collection[T] {
	return &Collection[T]{client: client, resource: resource, newRec: newRec}
}

func (c *Collection[T]) List(ctx context.Context, filter ports.ListFilter) ([]T, error) {
	if filter.Scoped() && len(filter.FacilityIDs) == 0 {
		return []T{}, nil
	}
	all, err := listAll[T](ctx, c.client, c.resource, nil)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, rec := range all {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	rec := c.newRec()
	if _, err := c.client.do(ctx, http.MethodGet, c.resource+"/"+url.PathEscape(id), nil, nil, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	created := c.newRec()
	if _, err := c.client.do(ctx, http.MethodPost, c.resource, nil, rec, created); err != nil {
		var zero T
		return zero, err
	}
	if created.GetID() == "" {
		created.SetID(rec.GetID())
	}
	return created, nil
}

func (c *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	updated := c.newRec()
	if _, err := c.client.do(ctx, http.MethodPut, c.resource+"/"+url.PathEscape(rec.GetID()), nil, rec, updated); err != nil {
		var zero T
		return zero, err
	}
	if updated.GetID() == "" {
		updated.SetID(rec.GetID())
	}
	return updated, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.client.do(ctx, http.MethodDelete, c.resource+"/"+url.PathEscape(id), url.Values{"force": {"true"}}, nil, nil)
	return err
}

// Backend bundles the CMS-backed collections.
type Backend struct {
	Facilities   *Collection[*domain.Facility]
	Staff        *Collection[*domain.Staff]
	Students     *Collection[*domain.Student]
	Applications *Collection[*domain.Application]
	Events       *Collection[*domain.Event]
	Tickets      *Collection[*domain.Ticket]
	Articles     *Collection[*domain.Article]
	Activity     *ActivityStore
}

func NewBackend(client *Client) *Backend {
	return &Backend{
		Facilities:   NewCollection(client, ResourceFacility, func() *domain.Facility { return &domain.Facility{} }),
		Staff:        NewCollection(client, ResourceStaff, func() *domain.Staff { return &domain.Staff{} }),
		Students:     NewCollection(client, ResourceStudent, func() *domain.Student { return &domain.Student{} }),
		Applications: NewCollection(client, ResourceApplication, func() *domain.Application { return &domain.Application{} }),
		Events:       NewCollection(client, ResourceEvent, func() *domain.Event { return &domain.Event{} }),
		Tickets:      NewCollection(client, ResourceTicket, func() *domain.Ticket { return &domain.Ticket{} }),
		Articles:     NewCollection(client, ResourceArticle, func() *domain.Article { return &domain.Article{} }),
		Activity:     &ActivityStore{client: client},
	}
}
