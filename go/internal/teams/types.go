package teams

import "errors"

// ErrNotFound is returned for unknown team ids
var ErrNotFound = errors.New("team not found")

// CreateTeamRequest represents a request to register a team
type CreateTeamRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
	Seed    int      `json:"seed"`
}

// RecordDelta represents aggregate record changes applied after a match
// resolves. Values add onto the stored record.
type RecordDelta struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	ScoreDelta int `json:"score_delta"`
}
