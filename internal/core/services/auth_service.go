package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// AuthService exchanges credentials for RS256 bearer tokens and turns tokens
// back into sessions.
type AuthService struct {
	users      ports.UserRepository
	scopes     ports.ScopeResolver
	sessions   ports.SessionStore
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	tokenTTL   time.Duration
}

var (
	_ ports.AuthService     = (*AuthService)(nil)
	_ ports.SessionResolver = (*AuthService)(nil)
)

func NewAuthService(
	users ports.UserRepository,
	scopes ports.ScopeResolver,
	sessions ports.SessionStore,
	privateKey *rsa.PrivateKey,
	publicKey *rsa.PublicKey,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:      users,
		scopes:     scopes,
		sessions:   sessions,
		privateKey: privateKey,
		publicKey:  publicKey,
		tokenTTL:   tokenTTL,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.RoleName,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// Logout revokes the session's token until it would have expired anyway.
// There is nothing to revoke on the credential issuer side.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.sessions.RevokeToken(ctx, sess.TokenID, ttl)
}

func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) (*domain.Session, error) {
	if tokenString == "" {
		return nil, domain.ErrNoCredential
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", domain.ErrInvalidToken)
	}
	userID, _ := claims["sub"].(string)
	tokenID, _ := claims["jti"].(string)
	if userID == "" || tokenID == "" {
		return nil, fmt.Errorf("%w: missing subject or token id", domain.ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", domain.ErrInvalidToken)
	}

	revoked, err := s.sessions.IsRevoked(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrInvalidToken)
	}

	// The role comes from the user record, not the token, so a role change
	// applies to sessions that are already open.
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	scope, err := s.scopes.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RoleName:    user.RoleName,
		TokenID:     tokenID,
		ExpiresAt:   exp.Time,
		Scope:       scope,
	}, nil
}

// HashPassword is the one place passwords are hashed.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
