package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent represents one undelivered event row. ChannelID is the match
// or tournament the event belongs to; consumers fan out on it.
type OutboxEvent struct {
	ID        uuid.UUID       `json:"id"`
	ChannelID uuid.UUID       `json:"channel_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// EventPublisher delivers outbox events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}
