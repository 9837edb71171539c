package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/finfootball/go/internal/sqlutil"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the worker can run
// fetch-and-mark inside one transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) insertEvent(ctx context.Context, channelID uuid.UUID, eventType string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox_events (id, channel_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), channelID, eventType, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// FetchUnsentOutbox reads a batch of undelivered events oldest-first, locking
// the rows so concurrent workers never double-publish.
func (r *Repository) FetchUnsentOutbox(ctx context.Context, q querier, limit int32) ([]OutboxEvent, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, channel_id, event_type, payload, created_at
		FROM outbox_events
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.ChannelID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkOutboxSent stamps the given events as delivered.
func (r *Repository) MarkOutboxSent(ctx context.Context, q querier, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	_, err := q.ExecContext(ctx,
		`UPDATE outbox_events SET sent_at = now() WHERE id = ANY($1::uuid[])`,
		pq.Array(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}

// FetchOutboxByID loads one event for inspection tooling.
func (r *Repository) FetchOutboxByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	var e OutboxEvent
	var sentAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, channel_id, event_type, payload, created_at, sent_at
		FROM outbox_events
		WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.ChannelID, &e.EventType, &e.Payload, &e.CreatedAt, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("outbox event %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox event: %w", err)
	}
	e.SentAt = sqlutil.FromSqlTime(sentAt)
	return &e, nil
}
