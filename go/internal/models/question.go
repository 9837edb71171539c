package models

import (
	"github.com/google/uuid"
)

// Question represents a multiple-choice question from the question bank.
type Question struct {
	ID         uuid.UUID         `json:"id"`
	Prompt     string            `json:"prompt"`
	Options    map[string]string `json:"options"` // answer key -> display text
	CorrectKey string            `json:"correct_key"`
	Category   string            `json:"category,omitempty"`
}

// QuestionInstance is one slot in a live match's question queue. The instance
// ID is minted per match so a late answer for an already-advanced question can
// be told apart from an answer for the current one.
type QuestionInstance struct {
	InstanceID uuid.UUID `json:"instance_id"`
	Question   Question  `json:"question"`
}
