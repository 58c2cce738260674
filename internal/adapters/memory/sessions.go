package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type expiring[T any] struct {
	value     T
	expiresAt time.Time
}

func (e expiring[T]) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// sweep drops expired entries so writes keep the maps bounded.
func sweep[K comparable, T any](m map[K]expiring[T], now time.Time) {
	for k, e := range m {
		if !e.live(now) {
			delete(m, k)
		}
	}
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// SessionStore is a process-local ports.SessionStore.
type SessionStore struct {
	mu      sync.Mutex
	revoked map[string]expiring[struct{}]
	scopes  map[string]expiring[domain.Scope]
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{
		revoked: make(map[string]expiring[struct{}]),
		scopes:  make(map[string]expiring[domain.Scope]),
	}
}

func (s *SessionStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweep(s.revoked, time.Now())
	s.revoked[tokenID] = expiring[struct{}]{expiresAt: expiry(ttl)}
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.revoked[tokenID]
	return ok && e.live(time.Now()), nil
}

func (s *SessionStore) CacheScope(ctx context.Context, userID string, scope domain.Scope, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweep(s.scopes, time.Now())
	s.scopes[userID] = expiring[domain.Scope]{value: scope, expiresAt: expiry(ttl)}
	return nil
}

func (s *SessionStore) CachedScope(ctx context.Context, userID string) (domain.Scope, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.scopes[userID]
	if !ok || !e.live(time.Now()) {
		return domain.Scope{}, false, nil
	}
	return e.value, true, nil
}

func (s *SessionStore) InvalidateScope(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, userID)
	return nil
}

// DeletionStore is a process-local ports.DeletionStore.
type DeletionStore struct {
	mu      sync.Mutex
	pending map[string]expiring[ports.PendingDeletion]
}

var _ ports.DeletionStore = (*DeletionStore)(nil)

func NewDeletionStore() *DeletionStore {
	return &DeletionStore{pending: make(map[string]expiring[ports.PendingDeletion])}
}

func (d *DeletionStore) Put(ctx context.Context, p ports.PendingDeletion, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sweep(d.pending, time.Now())
	d.pending[p.Token] = expiring[ports.PendingDeletion]{value: p, expiresAt: expiry(ttl)}
	return nil
}

func (d *DeletionStore) Take(ctx context.Context, token string) (ports.PendingDeletion, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.pending[token]
	delete(d.pending, token)
	if !ok || !e.live(time.Now()) {
		return ports.PendingDeletion{}, false, nil
	}
	return e.value, true, nil
}

func (d *DeletionStore) Peek(ctx context.Context, token string) (ports.PendingDeletion, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.pending[token]
	if !ok || !e.live(time.Now()) {
		return ports.PendingDeletion{}, false, nil
	}
	return e.value, true, nil
}

func (d *DeletionStore) Discard(ctx context.Context, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, token)
	return nil
}
