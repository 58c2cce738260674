package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// ScopeService resolves the facilities a user may operate on from the
// user-facility join table. Results are cached per user until the TTL runs
// out or an admin changes the user's assignments.
type ScopeService struct {
	assignments ports.AssignmentRepository
	cache       ports.SessionStore
	ttl         time.Duration
}

var _ ports.ScopeResolver = (*ScopeService)(nil)

func NewScopeService(assignments ports.AssignmentRepository, cache ports.SessionStore, ttl time.Duration) *ScopeService {
	return &ScopeService{
		assignments: assignments,
		cache:       cache,
		ttl:         ttl,
	}
}

// Resolve never fails with a partial scope: on error the scope is empty.
func (s *ScopeService) Resolve(ctx context.Context, userID string) (domain.Scope, error) {
	if userID == "" {
		return domain.NewScope(nil), fmt.Errorf("%w: no user identity", domain.ErrScopeUnavailable)
	}

	if s.cache != nil {
		scope, ok, err := s.cache.CachedScope(ctx, userID)
		if err != nil {
			log.Printf("scope: cache read failed for user %s: %v", userID, err)
		} else if ok {
			return scope, nil
		}
	}

	ids, err := s.assignments.FacilityIDsForUser(ctx, userID)
	if err != nil {
		return domain.NewScope(nil), fmt.Errorf("%w: %v", domain.ErrScopeUnavailable, err)
	}
	scope := domain.NewScope(ids)

	if s.cache != nil {
		if err := s.cache.CacheScope(ctx, userID, scope, s.ttl); err != nil {
			log.Printf("scope: cache write failed for user %s: %v", userID, err)
		}
	}
	return scope, nil
}

func (s *ScopeService) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateScope(ctx, userID)
}
