package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus defines the lifecycle state of a tournament.
type TournamentStatus string

const (
	TournamentStatusSetup     TournamentStatus = "SETUP"
	TournamentStatusActive    TournamentStatus = "ACTIVE"
	TournamentStatusCompleted TournamentStatus = "COMPLETED"
)

// BracketKind identifies which side of the double-elimination bracket a stage
// belongs to.
type BracketKind string

const (
	BracketWinners BracketKind = "WINNERS"
	BracketLosers  BracketKind = "LOSERS"
	BracketFinals  BracketKind = "FINALS"
)

// Stage is one round of a bracket. Immutable after topology construction.
type Stage struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Bracket  BracketKind `json:"bracket"`
	Order    int         `json:"order"`
	MatchIDs []uuid.UUID `json:"match_ids"`
}

// Tournament is the aggregate owning the bracket topology, roster records,
// and propagation state.
type Tournament struct {
	ID         uuid.UUID                   `json:"id"`
	Name       string                      `json:"name"`
	Status     TournamentStatus            `json:"status"`
	Stages     []Stage                     `json:"stages"`
	Matches    map[uuid.UUID]*BracketMatch `json:"matches"`
	Teams      map[uuid.UUID]*Team         `json:"teams"`
	ChampionID *uuid.UUID                  `json:"champion_id,omitempty"`
	// GrandFinalID/GrandFinalResetID identify the finals pair so result
	// propagation can apply the bracket-reset rule.
	GrandFinalID      uuid.UUID `json:"grand_final_id"`
	GrandFinalResetID uuid.UUID `json:"grand_final_reset_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
