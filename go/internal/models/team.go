package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a registered quiz team inside a tournament roster.
type Team struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Members    []string  `json:"members,omitempty"`
	Seed       int       `json:"seed"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	TotalScore int       `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Eliminated reports whether the team is out of the double-elimination
// bracket. Two losses, from played matches or administrative byes, eliminate.
func (t *Team) Eliminated() bool {
	return t.Losses >= 2
}
