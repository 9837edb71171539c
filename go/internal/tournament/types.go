package tournament

import (
	"github.com/google/uuid"
)

// CreateTournamentRequest represents a request to build a new tournament
// bracket from roster team ids, in seed order.
type CreateTournamentRequest struct {
	Name    string      `json:"name"`
	TeamIDs []uuid.UUID `json:"team_ids"`
}

// RecordResultRequest represents a completed match result fed back into the
// bracket. A tie carries nil winner and loser.
type RecordResultRequest struct {
	WinnerID *uuid.UUID        `json:"winner_id,omitempty"`
	LoserID  *uuid.UUID        `json:"loser_id,omitempty"`
	Scores   map[uuid.UUID]int `json:"scores,omitempty"`
}

// GrantByeRequest represents an administrative bye for one team of a
// scheduled match.
type GrantByeRequest struct {
	TeamID uuid.UUID `json:"team_id"`
}
