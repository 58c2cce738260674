package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type Scoping int

const (
	// ScopeNone records are visible to every signed-in user.
	ScopeNone Scoping = iota
	// ScopeFacility records are visible when their facility is in the session scope.
	ScopeFacility
	// ScopeOwner records are visible to the user that created them.
	ScopeOwner
)

// EntityConfig describes how one kind of record is scoped, searched and
// labelled. Hooks are optional.
type EntityConfig[T domain.Record] struct {
	Kind   string
	Plural string

	Scoping Scoping
	// AdminSeesAll lifts owner scoping for administrators.
	AdminSeesAll bool
	// AdminWrites restricts create, update and delete to administrators.
	AdminWrites bool
	// AdminRemove restricts delete to administrators.
	AdminRemove bool

	SearchFields []func(T) string
	Label        func(T) string
	SetOwner     func(rec T, ownerID string)
	// Prepare fills defaults and validates a record before it is written.
	// existing is the zero value on create.
	Prepare func(rec, existing T, sess *domain.Session) error
}

type ListQuery struct {
	Search  string
	Page    int
	PerPage int
}

// EntityService is the scoped CRUD used by every list/detail screen.
type EntityService[T domain.Record] struct {
	repo ports.Repository[T]
	cfg  EntityConfig[T]
}

func NewEntityService[T domain.Record](repo ports.Repository[T], cfg EntityConfig[T]) *EntityService[T] {
	return &EntityService[T]{repo: repo, cfg: cfg}
}

func (s *EntityService[T]) Kind() string { return s.cfg.Kind }

// filterFor returns the backend filter for a session, or false when the
// session can see nothing and the backend should not be asked.
func (s *EntityService[T]) filterFor(sess *domain.Session) (ports.ListFilter, bool) {
	switch s.cfg.Scoping {
	case ScopeFacility:
		if sess.Scope.IsEmpty() {
			return ports.ListFilter{}, false
		}
		ids := make([]string, len(sess.Scope.FacilityIDs))
		copy(ids, sess.Scope.FacilityIDs)
		return ports.ListFilter{FacilityIDs: ids}, true
	case ScopeOwner:
		if s.cfg.AdminSeesAll && sess.IsAdmin() {
			return ports.ListFilter{}, true
		}
		return ports.ListFilter{OwnerID: sess.UserID}, true
	default:
		return ports.ListFilter{}, true
	}
}

func (s *EntityService[T]) visible(sess *domain.Session, rec T) bool {
	filter, ok := s.filterFor(sess)
	return ok && filter.Matches(rec)
}

func (s *EntityService[T]) List(ctx context.Context, sess *domain.Session, q ListQuery) (domain.Page[T], error) {
	items, err := s.Find(ctx, sess, q.Search)
	if err != nil {
		return domain.Page[T]{}, err
	}

	page := domain.Paginate(items, q.Page, q.PerPage)
	if page.Total == 0 {
		page.EmptyMessage = fmt.Sprintf("No %s found", s.cfg.Plural)
	}
	return page, nil
}

// Find returns every visible record matching search, unpaged.
func (s *EntityService[T]) Find(ctx context.Context, sess *domain.Session, search string) ([]T, error) {
	items, err := s.All(ctx, sess)
	if err != nil {
		return nil, err
	}
	return domain.Search(items, search, s.cfg.SearchFields...), nil
}

// All returns every record the session may see, unsearched and unpaged.
func (s *EntityService[T]) All(ctx context.Context, sess *domain.Session) ([]T, error) {
	filter, ok := s.filterFor(sess)
	if !ok {
		return []T{}, nil
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.cfg.Plural, err)
	}

	// Backends that cannot push the filter down still get it applied here.
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

func (s *EntityService[T]) Get(ctx context.Context, sess *domain.Session, id string) (T, error) {
	var zero T
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	// Out-of-scope records are reported as missing, not forbidden.
	if !s.visible(sess, rec) {
		return zero, fmt.Errorf("%s %s: %w", s.cfg.Kind, id, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *EntityService[T]) Create(ctx context.Context, sess *domain.Session, rec T) (T, error) {
	var zero T
	if s.cfg.AdminWrites && !sess.IsAdmin() {
		return zero, domain.ErrForbidden
	}

	rec.SetID(uuid.NewString())
	if s.cfg.Scoping == ScopeOwner && s.cfg.SetOwner != nil {
		s.cfg.SetOwner(rec, sess.UserID)
	}
	if s.cfg.Prepare != nil {
		if err := s.cfg.Prepare(rec, zero, sess); err != nil {
			return zero, err
		}
	}
	if err := s.checkFacility(sess, rec); err != nil {
		return zero, err
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", s.cfg.Kind, err)
	}
	return created, nil
}

func (s *EntityService[T]) Update(ctx context.Context, sess *domain.Session, id string, rec T) (T, error) {
	var zero T
	if s.cfg.AdminWrites && !sess.IsAdmin() {
		return zero, domain.ErrForbidden
	}

	existing, err := s.Get(ctx, sess, id)
	if err != nil {
		return zero, err
	}

	rec.SetID(id)
	if s.cfg.Scoping == ScopeOwner && s.cfg.SetOwner != nil {
		if owned, ok := any(existing).(domain.Owned); ok {
			s.cfg.SetOwner(rec, owned.OwnerRef())
		}
	}
	if s.cfg.Prepare != nil {
		if err := s.cfg.Prepare(rec, existing, sess); err != nil {
			return zero, err
		}
	}
	if err := s.checkFacility(sess, rec); err != nil {
		return zero, err
	}

	updated, err := s.repo.Update(ctx, rec)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", s.cfg.Kind, err)
	}
	return updated, nil
}

// checkFacility stops a facility-scoped record from being written into a
// facility outside the session scope.
func (s *EntityService[T]) checkFacility(sess *domain.Session, rec T) error {
	if s.cfg.Scoping != ScopeFacility {
		return nil
	}
	scoped, ok := any(rec).(domain.FacilityScoped)
	if !ok {
		return nil
	}
	if scoped.FacilityRef() == "" {
		return domain.NewValidationError("facility_id", "is required")
	}
	if !sess.Scope.Contains(scoped.FacilityRef()) {
		return fmt.Errorf("facility %s: %w", scoped.FacilityRef(), domain.ErrForbidden)
	}
	return nil
}

// Describe returns the label shown in the delete confirmation prompt.
func (s *EntityService[T]) Describe(ctx context.Context, sess *domain.Session, id string) (string, error) {
	if err := s.checkRemove(sess); err != nil {
		return "", err
	}
	rec, err := s.Get(ctx, sess, id)
	if err != nil {
		return "", err
	}
	if s.cfg.Label != nil {
		if label := s.cfg.Label(rec); label != "" {
			return label, nil
		}
	}
	return fmt.Sprintf("this %s", s.cfg.Kind), nil
}

// Remove deletes a record. Callers outside the deletion flow should not use
// it directly; deletes are confirmed first.
func (s *EntityService[T]) Remove(ctx context.Context, sess *domain.Session, id string) error {
	if err := s.checkRemove(sess); err != nil {
		return err
	}
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.cfg.Kind, err)
	}
	return nil
}

func (s *EntityService[T]) checkRemove(sess *domain.Session) error {
	if (s.cfg.AdminWrites || s.cfg.AdminRemove) && !sess.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
