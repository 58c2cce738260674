package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/creche-admin/console-service/internal/config"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

const (
	revokedPrefix  = "revoked:"
	scopePrefix    = "scope:"
	deletionPrefix = "deletion:"
)

// RedisClient is the part of *redis.Client the stores use.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore keeps revoked tokens, cached scopes and pending deletions in
// Redis so every API replica sees the same state. Calls go through a
// circuit breaker; a missing key is not a failure.
type RedisStore struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
}

var (
	_ ports.SessionStore  = (*RedisStore)(nil)
	_ ports.DeletionStore = (*RedisStore)(nil)
)

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{
		client: client,
		cb:     config.NewCircuitBreaker(config.BreakerRedis),
	}
}

func (s *RedisStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.set(ctx, revokedPrefix+tokenID, "1", ttl)
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, revokedPrefix+tokenID).Result()
	})
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n.(int64) > 0, nil
}

func (s *RedisStore) CacheScope(ctx context.Context, userID string, scope domain.Scope, ttl time.Duration) error {
	b, err := json.Marshal(scope)
	if err != nil {
		return err
	}
	return s.set(ctx, scopePrefix+userID, string(b), ttl)
}

func (s *RedisStore) CachedScope(ctx context.Context, userID string) (domain.Scope, bool, error) {
	var scope domain.Scope
	ok, err := s.getJSON(ctx, scopePrefix+userID, &scope, false)
	return scope, ok, err
}

func (s *RedisStore) InvalidateScope(ctx context.Context, userID string) error {
	return s.del(ctx, scopePrefix+userID)
}

func (s *RedisStore) Put(ctx context.Context, p ports.PendingDeletion, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.set(ctx, deletionPrefix+p.Token, string(b), ttl)
}

// Take uses GETDEL so two confirms of one token cannot both succeed.
func (s *RedisStore) Take(ctx context.Context, token string) (ports.PendingDeletion, bool, error) {
	var p ports.PendingDeletion
	ok, err := s.getJSON(ctx, deletionPrefix+token, &p, true)
	return p, ok, err
}

func (s *RedisStore) Peek(ctx context.Context, token string) (ports.PendingDeletion, bool, error) {
	var p ports.PendingDeletion
	ok, err := s.getJSON(ctx, deletionPrefix+token, &p, false)
	return p, ok, err
}

func (s *RedisStore) Discard(ctx context.Context, token string) error {
	return s.del(ctx, deletionPrefix+token)
}

// Ping reports whether Redis answers, for the readiness check.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) del(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, key).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dst any, remove bool) (bool, error) {
	raw, err := s.cb.Execute(func() (interface{}, error) {
		var cmd *redis.StringCmd
		if remove {
			cmd = s.client.GetDel(ctx, key)
		} else {
			cmd = s.client.Get(ctx, key)
		}
		val, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	val := raw.(string)
	if val == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
