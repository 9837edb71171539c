package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// Event payload types shared between the core apps, the outbox, and the
// gateway.

// Event type names as they appear on the wire.
const (
	TypeMatchUpdated        = "MatchUpdated"
	TypeMatchCompleted      = "MatchCompleted"
	TypeTournamentUpdated   = "TournamentUpdated"
	TypeTournamentCompleted = "TournamentCompleted"
)

// MatchUpdatedPayload carries the full post-mutation snapshot of a live
// match. Observers always see scores and question index move together.
type MatchUpdatedPayload struct {
	Match       *models.LiveMatch `json:"match"`
	RemainingMs int64             `json:"remaining_ms"`
	PublishedAt time.Time         `json:"published_at"`
}

// MatchCompletedPayload is published exactly once when a live match
// finalizes. A tie leaves winner and loser unset.
type MatchCompletedPayload struct {
	MatchID           uuid.UUID         `json:"match_id"`
	TournamentMatchID *uuid.UUID        `json:"tournament_match_id,omitempty"`
	WinnerID          *uuid.UUID        `json:"winner_id,omitempty"`
	LoserID           *uuid.UUID        `json:"loser_id,omitempty"`
	Scores            map[uuid.UUID]int `json:"scores"`
	Tie               bool              `json:"tie"`
	CompletedAt       time.Time         `json:"completed_at"`
}

// TournamentUpdatedPayload carries the bracket snapshot after any seed,
// result, bye, or link mutation.
type TournamentUpdatedPayload struct {
	Tournament  *models.Tournament `json:"tournament"`
	PublishedAt time.Time          `json:"published_at"`
}

// TournamentCompletedPayload is published once when the bracket resolves a
// champion.
type TournamentCompletedPayload struct {
	TournamentID uuid.UUID  `json:"tournament_id"`
	ChampionID   *uuid.UUID `json:"champion_id,omitempty"`
	CompletedAt  time.Time  `json:"completed_at"`
}
