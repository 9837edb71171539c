package match

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// startTimer returns a running countdown of the configured duration for the
// given window type.
func startTimer(clock clockwork.Clock, typ models.TimerType, cfg models.GameConfig) *models.Timer {
	durationMs := cfg.TimerDuration(typ)
	deadline := clock.Now().Add(time.Duration(durationMs) * time.Millisecond)
	return &models.Timer{
		Type:        typ,
		Status:      models.TimerStatusRunning,
		DurationMs:  durationMs,
		RemainingMs: durationMs,
		Deadline:    &deadline,
	}
}

// pauseTimer snapshots the remaining time and stops the countdown. Pausing a
// paused timer is a no-op.
func pauseTimer(clock clockwork.Clock, t *models.Timer) {
	if t == nil || t.Status != models.TimerStatusRunning {
		return
	}
	remaining := int64(0)
	if t.Deadline != nil {
		remaining = t.Deadline.Sub(clock.Now()).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
	}
	t.RemainingMs = remaining
	t.Status = models.TimerStatusPaused
	t.Deadline = nil
}

// resumeTimer restarts a paused countdown from its snapshotted remaining
// time. Resuming a running timer is a no-op.
func resumeTimer(clock clockwork.Clock, t *models.Timer) {
	if t == nil || t.Status != models.TimerStatusPaused {
		return
	}
	deadline := clock.Now().Add(time.Duration(t.RemainingMs) * time.Millisecond)
	t.Status = models.TimerStatusRunning
	t.Deadline = &deadline
}

// timerExpired reports whether a running timer has passed its deadline.
// Paused timers never expire.
func timerExpired(clock clockwork.Clock, t *models.Timer) bool {
	if t == nil || t.Status != models.TimerStatusRunning || t.Deadline == nil {
		return false
	}
	return !clock.Now().Before(*t.Deadline)
}

// timerRemainingMs returns the milliseconds left on the countdown, clamped
// at zero.
func timerRemainingMs(clock clockwork.Clock, t *models.Timer) int64 {
	if t == nil {
		return 0
	}
	if t.Status == models.TimerStatusPaused {
		return t.RemainingMs
	}
	if t.Deadline == nil {
		return 0
	}
	remaining := t.Deadline.Sub(clock.Now()).Milliseconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}
