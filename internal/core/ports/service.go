package ports

import (
	"context"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, sess *domain.Session) error
}

// SessionResolver turns a bearer token into the caller's session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Session, error)
}

type ScopeResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Scope, error)
}
