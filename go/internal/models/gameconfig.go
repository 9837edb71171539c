package models

import (
	"fmt"
	"time"
)

// GameConfig holds the gameplay constants every match runs with.
type GameConfig struct {
	QuestionsPerTeam  int   `json:"questions_per_team" yaml:"questions_per_team"`
	PrimaryPoints     int   `json:"primary_points" yaml:"primary_points"`
	StealPoints       int   `json:"steal_points" yaml:"steal_points"`
	PrimaryDurationMs int64 `json:"primary_duration_ms" yaml:"primary_duration_ms"`
	StealDurationMs   int64 `json:"steal_duration_ms" yaml:"steal_duration_ms"`
	CoinRevealMs      int64 `json:"coin_reveal_ms" yaml:"coin_reveal_ms"`
	TickIntervalMs    int64 `json:"tick_interval_ms" yaml:"tick_interval_ms"`
}

// DefaultGameConfig returns the standard Financial Football ruleset.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		QuestionsPerTeam:  10,
		PrimaryPoints:     3,
		StealPoints:       1,
		PrimaryDurationMs: 20000,
		StealDurationMs:   10000,
		CoinRevealMs:      3000,
		TickIntervalMs:    250,
	}
}

// Validate rejects configs that make a match unplayable or unfinishable.
func (c GameConfig) Validate() error {
	if c.QuestionsPerTeam <= 0 {
		return fmt.Errorf("questions_per_team must be positive, got %d", c.QuestionsPerTeam)
	}
	if c.PrimaryDurationMs <= 0 || c.StealDurationMs <= 0 {
		return fmt.Errorf("timer durations must be positive")
	}
	if c.CoinRevealMs < 0 {
		return fmt.Errorf("coin_reveal_ms must not be negative, got %d", c.CoinRevealMs)
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	return nil
}

// TickInterval returns the scheduler sweep interval as a duration.
func (c GameConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// TimerDuration returns the countdown length for a timer type.
func (c GameConfig) TimerDuration(t TimerType) int64 {
	if t == TimerTypeSteal {
		return c.StealDurationMs
	}
	return c.PrimaryDurationMs
}

// Points returns the score value of a correct answer for a timer type.
func (c GameConfig) Points(t TimerType) int {
	if t == TimerTypeSteal {
		return c.StealPoints
	}
	return c.PrimaryPoints
}

// QueueLength is the fixed length of a match's question queue.
func (c GameConfig) QueueLength() int {
	return 2 * c.QuestionsPerTeam
}
