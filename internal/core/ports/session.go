package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

// SessionStore keeps the process-wide auth state: revoked tokens and the
// cached tenant scope of each user.
type SessionStore interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	CacheScope(ctx context.Context, userID string, scope domain.Scope, ttl time.Duration) error
	CachedScope(ctx context.Context, userID string) (domain.Scope, bool, error)
	InvalidateScope(ctx context.Context, userID string) error
}

// PendingDeletion is a delete that waits for explicit confirmation.
type PendingDeletion struct {
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	RecordID  string    `json:"record_id"`
	Label     string    `json:"label"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DeletionStore interface {
	Put(ctx context.Context, p PendingDeletion, ttl time.Duration) error
	// Take returns and removes the pending deletion in one step.
	Take(ctx context.Context, token string) (PendingDeletion, bool, error)
	Discard(ctx context.Context, token string) error
	Peek(ctx context.Context, token string) (PendingDeletion, bool, error)
}
