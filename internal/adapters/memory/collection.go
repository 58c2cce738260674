// Package memory is an in-process backend. It serves local runs without
// external services and backs the service and handler tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// Collection stores records as JSON documents so that callers never share
// memory with the store, the same as a remote backend.
type Collection[T domain.Record] struct {
	mu    sync.RWMutex
	name  string
	rows  map[string][]byte
	order []string
}

var _ ports.StaffRepository = (*Collection[*domain.Staff])(nil)

func NewCollection[T domain.Record](name string) *Collection[T] {
	return &Collection[T]{name: name, rows: make(map[string][]byte)}
}

func (c *Collection[T]) List(ctx context.Context, filter ports.ListFilter) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		rec, err := c.decode(c.rows[id])
		if err != nil {
			return nil, err
		}
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getLocked(id)
}

func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createLocked(rec)
}

func (c *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if _, ok := c.rows[rec.GetID()]; !ok {
		return zero, fmt.Errorf("%s %s: %w", c.name, rec.GetID(), domain.ErrNotFound)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return zero, err
	}
	c.rows[rec.GetID()] = b
	return c.decode(b)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(id)
}

// Len is the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

func (c *Collection[T]) getLocked(id string) (T, error) {
	var zero T
	b, ok := c.rows[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", c.name, id, domain.ErrNotFound)
	}
	return c.decode(b)
}

func (c *Collection[T]) createLocked(rec T) (T, error) {
	var zero T
	if rec.GetID() == "" {
		rec.SetID(uuid.NewString())
	}
	if _, ok := c.rows[rec.GetID()]; ok {
		return zero, fmt.Errorf("%s %s: %w", c.name, rec.GetID(), domain.ErrConflict)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return zero, err
	}
	c.rows[rec.GetID()] = b
	c.order = append(c.order, rec.GetID())
	return c.decode(b)
}

func (c *Collection[T]) deleteLocked(id string) error {
	if _, ok := c.rows[id]; !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, domain.ErrNotFound)
	}
	delete(c.rows, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection[T]) decode(b []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return rec, nil
}
