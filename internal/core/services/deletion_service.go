package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// Deletable is anything the confirmation flow can delete.
type Deletable interface {
	Kind() string
	Describe(ctx context.Context, sess *domain.Session, id string) (string, error)
	Remove(ctx context.Context, sess *domain.Session, id string) error
}

type Confirmation struct {
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	RecordID  string    `json:"record_id"`
	Prompt    string    `json:"prompt"`
	Actions   []string  `json:"actions"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DeletionService makes every delete a two-step exchange: a request that
// returns a prompt, then an explicit confirm or cancel.
type DeletionService struct {
	store   ports.DeletionStore
	ttl     time.Duration
	targets map[string]Deletable
}

func NewDeletionService(store ports.DeletionStore, ttl time.Duration, targets ...Deletable) *DeletionService {
	byKind := make(map[string]Deletable, len(targets))
	for _, t := range targets {
		byKind[t.Kind()] = t
	}
	return &DeletionService{store: store, ttl: ttl, targets: byKind}
}

// Request records the intent to delete. Nothing is deleted yet.
func (s *DeletionService) Request(ctx context.Context, sess *domain.Session, kind, id string) (Confirmation, error) {
	target, ok := s.targets[kind]
	if !ok {
		return Confirmation{}, fmt.Errorf("kind %s: %w", kind, domain.ErrNotFound)
	}
	label, err := target.Describe(ctx, sess, id)
	if err != nil {
		return Confirmation{}, err
	}

	pending := ports.PendingDeletion{
		Token:     uuid.NewString(),
		Kind:      kind,
		RecordID:  id,
		Label:     label,
		UserID:    sess.UserID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.store.Put(ctx, pending, s.ttl); err != nil {
		return Confirmation{}, fmt.Errorf("store pending deletion: %w", err)
	}

	return Confirmation{
		Token:     pending.Token,
		Kind:      kind,
		RecordID:  id,
		Prompt:    fmt.Sprintf("Are you sure you want to delete %s?", label),
		Actions:   []string{"Yes, Delete", "Cancel"},
		ExpiresAt: pending.ExpiresAt,
	}, nil
}

// Confirm performs the delete. The token is spent even when the delete
// fails, so a retry needs a new request.
func (s *DeletionService) Confirm(ctx context.Context, sess *domain.Session, token string) error {
	if _, err := s.owned(ctx, sess, token); err != nil {
		return err
	}
	pending, ok, err := s.store.Take(ctx, token)
	if err != nil {
		return fmt.Errorf("take pending deletion: %w", err)
	}
	if !ok {
		return domain.ErrConfirmationNotFound
	}

	target, ok := s.targets[pending.Kind]
	if !ok {
		return fmt.Errorf("kind %s: %w", pending.Kind, domain.ErrNotFound)
	}
	if err := target.Remove(ctx, sess, pending.RecordID); err != nil {
		return err
	}
	log.Printf("deletion: user %s deleted %s %s", sess.UserID, pending.Kind, pending.RecordID)
	return nil
}

// Cancel drops the pending deletion and leaves the record untouched.
func (s *DeletionService) Cancel(ctx context.Context, sess *domain.Session, token string) error {
	if _, err := s.owned(ctx, sess, token); err != nil {
		return err
	}
	return s.store.Discard(ctx, token)
}

// owned hides tokens that belong to another user.
func (s *DeletionService) owned(ctx context.Context, sess *domain.Session, token string) (ports.PendingDeletion, error) {
	pending, ok, err := s.store.Peek(ctx, token)
	if err != nil {
		return ports.PendingDeletion{}, fmt.Errorf("read pending deletion: %w", err)
	}
	if !ok || pending.UserID != sess.UserID {
		return ports.PendingDeletion{}, domain.ErrConfirmationNotFound
	}
	return pending, nil
}
