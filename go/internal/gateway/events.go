package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/finfootball/go/internal/events"
)

// ChannelKind selects which connection pool an event or subscription
// targets.
type ChannelKind string

const (
	ChannelMatch      ChannelKind = "match"
	ChannelTournament ChannelKind = "tournament"
)

// Channel identifies one broadcast target: all observers of a match or of a
// tournament bracket.
type Channel struct {
	Kind ChannelKind
	ID   string
}

// GameEvent represents the envelope pushed to WebSocket clients
type GameEvent struct {
	ID        string          `json:"id"`
	ChannelID string          `json:"channel_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of game event
type EventType string

const (
	EventTypeMatchUpdated        EventType = "MatchUpdated"
	EventTypeMatchCompleted      EventType = "MatchCompleted"
	EventTypeTournamentUpdated   EventType = "TournamentUpdated"
	EventTypeTournamentCompleted EventType = "TournamentCompleted"
)

// channelKindFor maps an event type to the pool it fans out on.
func channelKindFor(t EventType) (ChannelKind, error) {
	switch t {
	case EventTypeMatchUpdated, EventTypeMatchCompleted:
		return ChannelMatch, nil
	case EventTypeTournamentUpdated, EventTypeTournamentCompleted:
		return ChannelTournament, nil
	default:
		return "", fmt.Errorf("unknown event type: %s", t)
	}
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *GameEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeMatchUpdated:
		var payload events.MatchUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeMatchCompleted:
		var payload events.MatchCompletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeTournamentUpdated:
		var payload events.TournamentUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeTournamentCompleted:
		var payload events.TournamentCompletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil
	}
}
