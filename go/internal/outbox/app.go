package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/events"
	"github.com/rs/zerolog/log"
)

// App handles outbox business logic. The core apps insert events through it
// in the same request path that persists their snapshots; the worker drains
// the table asynchronously.
type App struct {
	repo *Repository
}

// NewApp creates a new outbox App
func NewApp(repo *Repository) *App {
	return &App{repo: repo}
}

// InsertMatchUpdated inserts a MatchUpdated event into the outbox
func (a *App) InsertMatchUpdated(ctx context.Context, matchID uuid.UUID, payload []byte) error {
	return a.insert(ctx, matchID, events.TypeMatchUpdated, payload)
}

// InsertMatchCompleted inserts a MatchCompleted event into the outbox
func (a *App) InsertMatchCompleted(ctx context.Context, matchID uuid.UUID, payload []byte) error {
	return a.insert(ctx, matchID, events.TypeMatchCompleted, payload)
}

// InsertTournamentUpdated inserts a TournamentUpdated event into the outbox
func (a *App) InsertTournamentUpdated(ctx context.Context, tournamentID uuid.UUID, payload []byte) error {
	return a.insert(ctx, tournamentID, events.TypeTournamentUpdated, payload)
}

// InsertTournamentCompleted inserts a TournamentCompleted event into the outbox
func (a *App) InsertTournamentCompleted(ctx context.Context, tournamentID uuid.UUID, payload []byte) error {
	return a.insert(ctx, tournamentID, events.TypeTournamentCompleted, payload)
}

func (a *App) insert(ctx context.Context, channelID uuid.UUID, eventType string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("invalid %s payload: event payload cannot be empty", eventType)
	}
	if err := a.repo.insertEvent(ctx, channelID, eventType, payload); err != nil {
		return fmt.Errorf("failed to insert %s event: %w", eventType, err)
	}

	log.Debug().
		Str("channel_id", channelID.String()).
		Str("event_type", eventType).
		Msg("outbox event inserted")
	return nil
}

// GetEventByID fetches a specific outbox event by ID
func (a *App) GetEventByID(ctx context.Context, eventID uuid.UUID) (*OutboxEvent, error) {
	event, err := a.repo.FetchOutboxByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event by ID: %w", err)
	}
	return event, nil
}
