package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveMatchStatus defines the lifecycle state of a live match.
type LiveMatchStatus string

const (
	LiveMatchStatusCoinToss   LiveMatchStatus = "COIN_TOSS"
	LiveMatchStatusInProgress LiveMatchStatus = "IN_PROGRESS"
	LiveMatchStatusPaused     LiveMatchStatus = "PAUSED"
	LiveMatchStatusCompleted  LiveMatchStatus = "COMPLETED"
)

// TimerType distinguishes the two countdown windows of a turn.
type TimerType string

const (
	TimerTypePrimary TimerType = "PRIMARY"
	TimerTypeSteal   TimerType = "STEAL"
)

// TimerStatus defines whether a timer is counting down.
type TimerStatus string

const (
	TimerStatusRunning TimerStatus = "RUNNING"
	TimerStatusPaused  TimerStatus = "PAUSED"
)

// Timer is a countdown window. While running, Deadline is the absolute expiry
// time; while paused, Deadline is nil and RemainingMs holds the snapshot taken
// at pause so repeated pause/resume cycles do not drift.
type Timer struct {
	Type        TimerType   `json:"type"`
	Status      TimerStatus `json:"status"`
	DurationMs  int64       `json:"duration_ms"`
	RemainingMs int64       `json:"remaining_ms"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
}

// CoinTossStatus defines the phases of the pre-match coin toss.
type CoinTossStatus string

const (
	CoinTossStatusReady    CoinTossStatus = "READY"
	CoinTossStatusFlipping CoinTossStatus = "FLIPPING"
	CoinTossStatusFlipped  CoinTossStatus = "FLIPPED"
	CoinTossStatusDecided  CoinTossStatus = "DECIDED"
)

// CoinFace is the visible result of a coin flip.
type CoinFace string

const (
	CoinFaceHeads CoinFace = "HEADS"
	CoinFaceTails CoinFace = "TAILS"
)

// CoinDecision records who chose the first answering team.
type CoinDecision struct {
	DeciderID   uuid.UUID `json:"decider_id"`
	FirstTeamID uuid.UUID `json:"first_team_id"`
}

// CoinToss tracks the pre-match randomization. RevealAt is the deadline at
// which a FLIPPING toss settles to FLIPPED; the scheduler resolves it the same
// way it resolves answer deadlines.
type CoinToss struct {
	Status     CoinTossStatus `json:"status"`
	ResultFace CoinFace       `json:"result_face,omitempty"`
	WinnerID   *uuid.UUID     `json:"winner_id,omitempty"`
	RevealAt   *time.Time     `json:"reveal_at,omitempty"`
	Decision   *CoinDecision  `json:"decision,omitempty"`
}

// LiveMatch represents one running match between two teams. The question
// queue is drawn once at creation and immutable afterwards; TeamOrder is built
// after the coin toss decision and assigns exactly QuestionsPerTeam turns to
// each team.
type LiveMatch struct {
	ID                uuid.UUID          `json:"id"`
	Teams             [2]uuid.UUID       `json:"teams"`
	Scores            map[uuid.UUID]int  `json:"scores"`
	QuestionQueue     []QuestionInstance `json:"question_queue"`
	TeamOrder         []uuid.UUID        `json:"team_order,omitempty"`
	QuestionIndex     int                `json:"question_index"`
	ActiveTeamID      *uuid.UUID         `json:"active_team_id,omitempty"`
	AwaitingSteal     bool               `json:"awaiting_steal"`
	Status            LiveMatchStatus    `json:"status"`
	Timer             *Timer             `json:"timer,omitempty"`
	CoinToss          CoinToss           `json:"coin_toss"`
	TournamentID      *uuid.UUID         `json:"tournament_id,omitempty"`
	TournamentMatchID *uuid.UUID         `json:"tournament_match_id,omitempty"`
	ModeratorID       *uuid.UUID         `json:"moderator_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Opponent returns the other team of the match, or nil for the degenerate
// single-team case where both slots hold the same id.
func (m *LiveMatch) Opponent(teamID uuid.UUID) *uuid.UUID {
	for i := range m.Teams {
		if m.Teams[i] != teamID {
			other := m.Teams[i]
			return &other
		}
	}
	return nil
}

// HasTeam reports whether teamID plays in this match.
func (m *LiveMatch) HasTeam(teamID uuid.UUID) bool {
	return m.Teams[0] == teamID || m.Teams[1] == teamID
}
