package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus defines the lifecycle state of a bracket match.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "PENDING"   // waiting on upstream results
	MatchStatusScheduled MatchStatus = "SCHEDULED" // both slots filled, playable
	MatchStatusActive    MatchStatus = "ACTIVE"    // linked live match running
	MatchStatusCompleted MatchStatus = "COMPLETED"
)

// NextRef declares where a result feeds after a match resolves. Championship
// refs have no target match; reaching one crowns the champion.
type NextRef struct {
	MatchID      *uuid.UUID `json:"match_id,omitempty"`
	Slot         int        `json:"slot"`
	Championship bool       `json:"championship,omitempty"`
}

// MatchRecord is one append-only entry in a bracket match's result history.
type MatchRecord struct {
	WinnerID   *uuid.UUID        `json:"winner_id,omitempty"`
	LoserID    *uuid.UUID        `json:"loser_id,omitempty"`
	Scores     map[uuid.UUID]int `json:"scores,omitempty"`
	Tie        bool              `json:"tie,omitempty"`
	Bye        bool              `json:"bye,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// BracketMatch is one node of the bracket graph. The NextWinner/NextLoser
// edges are fixed at topology construction; Teams slots fill in as upstream
// matches resolve. A losers-bracket match has no NextLoser edge, losing there
// is elimination.
type BracketMatch struct {
	ID          uuid.UUID     `json:"id"`
	StageID     uuid.UUID     `json:"stage_id"`
	Label       string        `json:"label"`
	Teams       [2]*uuid.UUID `json:"teams"`
	Status      MatchStatus   `json:"status"`
	WinnerID    *uuid.UUID    `json:"winner_id,omitempty"`
	LoserID     *uuid.UUID    `json:"loser_id,omitempty"`
	ModeratorID *uuid.UUID    `json:"moderator_id,omitempty"`
	LiveMatchID *uuid.UUID    `json:"live_match_id,omitempty"`
	ByeAwarded  bool          `json:"bye_awarded,omitempty"`
	SlotVoid    [2]bool       `json:"slot_void,omitempty"` // feeder can never produce a team
	NextWinner  *NextRef      `json:"next_winner,omitempty"`
	NextLoser   *NextRef      `json:"next_loser,omitempty"`
	History     []MatchRecord `json:"history,omitempty"`
}

// FullySeeded reports whether both team slots are filled.
func (m *BracketMatch) FullySeeded() bool {
	return m.Teams[0] != nil && m.Teams[1] != nil
}
