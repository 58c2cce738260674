package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// writeOutbox stores evt for the relay. The insert fires the NOTIFY trigger.
func writeOutbox(ctx context.Context, db execer, eventType string, evt any) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)",
		uuid.NewString(), eventType, string(payload),
	)
	if err != nil {
		return fmt.Errorf("write outbox event: %w", err)
	}
	return nil
}

// BroadcastRepository queues broadcasts in the outbox.
type BroadcastRepository struct {
	db *sql.DB
}

var _ ports.BroadcastRepository = (*BroadcastRepository)(nil)

func NewBroadcastRepository(db *sql.DB) *BroadcastRepository {
	return &BroadcastRepository{db: db}
}

func (r *BroadcastRepository) RecordBroadcast(ctx context.Context, evt ports.BroadcastRequestedEvent) error {
	return writeOutbox(ctx, r.db, ports.BroadcastRequestedEventType, evt)
}
