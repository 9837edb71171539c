package match

import (
	"github.com/google/uuid"
)

// CreateLiveMatchRequest represents a request to create a new live match
type CreateLiveMatchRequest struct {
	ID                *uuid.UUID `json:"id,omitempty"`
	TeamAID           uuid.UUID  `json:"team_a_id"`
	TeamBID           uuid.UUID  `json:"team_b_id"`
	ModeratorID       *uuid.UUID `json:"moderator_id,omitempty"`
	TournamentID      *uuid.UUID `json:"tournament_id,omitempty"`
	TournamentMatchID *uuid.UUID `json:"tournament_match_id,omitempty"`
}

// DecideFirstRequest represents the coin-toss winner's choice of the first
// answering team
type DecideFirstRequest struct {
	DeciderID   uuid.UUID `json:"decider_id"`
	FirstTeamID uuid.UUID `json:"first_team_id"`
}

// SubmitAnswerRequest represents an answer submission for the current
// question instance
type SubmitAnswerRequest struct {
	TeamID             uuid.UUID `json:"team_id"`
	AnswerKey          string    `json:"answer_key"`
	QuestionInstanceID uuid.UUID `json:"question_instance_id"`
}

// FinalResult is the terminal outcome of a completed live match. A tie leaves
// both WinnerID and LoserID nil.
type FinalResult struct {
	MatchID           uuid.UUID         `json:"match_id"`
	TournamentID      *uuid.UUID        `json:"tournament_id,omitempty"`
	TournamentMatchID *uuid.UUID        `json:"tournament_match_id,omitempty"`
	WinnerID          *uuid.UUID        `json:"winner_id,omitempty"`
	LoserID           *uuid.UUID        `json:"loser_id,omitempty"`
	Scores            map[uuid.UUID]int `json:"scores"`
	Tie               bool              `json:"tie"`
}
