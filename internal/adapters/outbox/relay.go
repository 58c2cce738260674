// Package outbox relays committed events from the outbox table to the
// message broker.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/creche-admin/console-service/internal/config"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
	"github.com/AchilleasB/creche-admin/console-service/internal/metrics"
)

const (
	notifyChannel        = "enrollment_outbox"
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute

	singleEventTimeout = 30 * time.Second
	backlogTimeout     = 60 * time.Second
	sweepInterval      = 90 * time.Second
	staleAfter         = 5 * time.Minute

	backlogBatchSize = 100
)

const (
	claimOne = `
		SELECT id, event_type, payload FROM outbox_events
		WHERE id = $1 AND processed_at IS NULL
		FOR UPDATE SKIP LOCKED`
	claimBacklog = `
		SELECT id, event_type, payload FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	settleEvent = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`
)

// errPoisonEvent marks a row whose payload can never be published.
var errPoisonEvent = errors.New("undecodable outbox payload")

type outboxRow struct {
	id        string
	eventType string
	payload   []byte
}

// Relay wakes on enrollment_outbox notifications, with a periodic sweep as a
// fallback, and hands each pending event to the publisher. Rows are
// claimed with SKIP LOCKED so several relays can run side by side.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.OutboxPublisher
	dbCB      *gobreaker.CircuitBreaker

	lastProgress atomic.Int64
	healthy      atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.OutboxPublisher) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayDB),
	}
	r.touch()
	r.healthy.Store(true)
	return r
}

// IsHealthy reports whether the relay loop is running.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady also requires a closed database breaker and recent progress.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProgress.Load())) > staleAfter {
		return false
	}
	return r.healthy.Load()
}

func (r *Relay) touch() {
	r.lastProgress.Store(time.Now().UnixNano())
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	listener := pq.NewListener(r.dbURL, minReconnectInterval, maxReconnectInterval,
		func(_ pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("enrollment relay: listener error: %v", err)
			}
		})
	defer listener.Close()

	if err := listener.Listen(notifyChannel); err != nil {
		return err
	}
	log.Printf("enrollment relay: waiting for notifications on %q", notifyChannel)

	// Enrollments committed while the relay was down.
	if err := r.drainBacklog(ctx); err != nil {
		log.Printf("enrollment relay: startup backlog failed: %v", err)
	}

	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("enrollment relay: stopping")
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				// The listener reconnected; notifications may be lost.
				r.healthy.Store(false)
				if err := r.drainBacklog(ctx); err == nil {
					r.healthy.Store(true)
					r.touch()
				}
				continue
			}
			if err := r.relayOne(ctx, n.Extra); err != nil {
				log.Printf("enrollment relay: event %s: %v", n.Extra, err)
				continue
			}
			r.healthy.Store(true)
			r.touch()

		case <-sweep.C:
			go listener.Ping()
			if err := r.drainBacklog(ctx); err != nil {
				log.Printf("enrollment relay: sweep failed: %v", err)
				continue
			}
			r.touch()
		}
	}
}

// dispatch publishes one outbox row. Unknown event types are acknowledged
// without publishing.
func (r *Relay) dispatch(ctx context.Context, eventType string, payload []byte) error {
	var err error
	switch eventType {
	case ports.StudentEnrolledEventType:
		err = publishAs(ctx, payload, r.publisher.PublishStudentEnrolled)
	case ports.BroadcastRequestedEventType:
		err = publishAs(ctx, payload, r.publisher.PublishBroadcastRequested)
	default:
		metrics.RelayPublished.WithLabelValues(eventType, "skipped").Inc()
		return nil
	}

	switch {
	case errors.Is(err, errPoisonEvent):
		metrics.RelayPublished.WithLabelValues(eventType, "invalid").Inc()
	case err != nil:
		metrics.RelayPublished.WithLabelValues(eventType, "failed").Inc()
	default:
		metrics.RelayPublished.WithLabelValues(eventType, "published").Inc()
	}
	return err
}

func publishAs[E any](ctx context.Context, payload []byte, publish func(context.Context, E) error) error {
	var evt E
	if err := json.Unmarshal(payload, &evt); err != nil {
		return errPoisonEvent
	}
	return publish(ctx, evt)
}

// relayOne publishes the row named by a notification. A row that is already
// settled or claimed by another relay is not an error.
func (r *Relay) relayOne(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, singleEventTimeout)
	defer cancel()
	return r.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := claim(ctx, tx, claimOne, eventID)
		if err != nil || len(rows) == 0 {
			return err
		}
		return r.settle(ctx, tx, rows[0], true)
	})
}

// drainBacklog publishes up to backlogBatchSize pending rows, oldest first.
// A row whose publish fails stays pending for the next sweep.
func (r *Relay) drainBacklog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, backlogTimeout)
	defer cancel()
	return r.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := claim(ctx, tx, claimBacklog, backlogBatchSize)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := r.settle(ctx, tx, row, false); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Relay) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()
		if err := fn(tx); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func claim(ctx context.Context, tx *sql.Tx, query string, arg any) ([]outboxRow, error) {
	rows, err := tx.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []outboxRow
	for rows.Next() {
		var row outboxRow
		if err := rows.Scan(&row.id, &row.eventType, &row.payload); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// settle dispatches row and marks it processed. With strict set a publish
// failure aborts the transaction; otherwise the row is left pending.
func (r *Relay) settle(ctx context.Context, tx *sql.Tx, row outboxRow, strict bool) error {
	err := r.dispatch(ctx, row.eventType, row.payload)
	outcome, pending := settleOutcome(err)
	if pending {
		if strict {
			return err
		}
		log.Printf("enrollment relay: publish %s failed, left pending: %v", row.id, err)
		return nil
	}
	if _, err := tx.ExecContext(ctx, settleEvent, row.id); err != nil {
		return err
	}
	log.Printf("enrollment relay: event %s %s", row.id, outcome)
	return nil
}

// settleOutcome names what happened to a dispatched row. Pending rows keep
// processed_at unset so a later sweep retries them.
func settleOutcome(err error) (outcome string, pending bool) {
	switch {
	case err == nil:
		return "delivered", false
	case errors.Is(err, errPoisonEvent):
		return "dropped as undecodable", false
	default:
		return "", true
	}
}
