package match

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameConfig() models.GameConfig {
	return models.GameConfig{
		QuestionsPerTeam:  2,
		PrimaryPoints:     3,
		StealPoints:       1,
		PrimaryDurationMs: 20000,
		StealDurationMs:   10000,
		CoinRevealMs:      3000,
		TickIntervalMs:    250,
	}
}

func TestStartTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cfg := testGameConfig()

	primary := startTimer(clock, models.TimerTypePrimary, cfg)
	assert.Equal(t, models.TimerTypePrimary, primary.Type)
	assert.Equal(t, models.TimerStatusRunning, primary.Status)
	assert.Equal(t, int64(20000), primary.DurationMs)
	require.NotNil(t, primary.Deadline)
	assert.Equal(t, clock.Now().Add(20*time.Second), *primary.Deadline)

	steal := startTimer(clock, models.TimerTypeSteal, cfg)
	assert.Equal(t, int64(10000), steal.DurationMs)
}

func TestTimerExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := startTimer(clock, models.TimerTypePrimary, testGameConfig())

	assert.False(t, timerExpired(clock, timer))

	clock.Advance(19999 * time.Millisecond)
	assert.False(t, timerExpired(clock, timer))
	assert.Equal(t, int64(1), timerRemainingMs(clock, timer))

	clock.Advance(time.Millisecond)
	assert.True(t, timerExpired(clock, timer))
	assert.Equal(t, int64(0), timerRemainingMs(clock, timer))
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := startTimer(clock, models.TimerTypePrimary, testGameConfig())

	clock.Advance(5 * time.Second)
	pauseTimer(clock, timer)

	assert.Equal(t, models.TimerStatusPaused, timer.Status)
	assert.Equal(t, int64(15000), timer.RemainingMs)
	assert.Nil(t, timer.Deadline)

	// a paused timer never expires, no matter how long the pause lasts
	clock.Advance(time.Hour)
	assert.False(t, timerExpired(clock, timer))
	assert.Equal(t, int64(15000), timerRemainingMs(clock, timer))

	resumeTimer(clock, timer)
	assert.Equal(t, models.TimerStatusRunning, timer.Status)
	require.NotNil(t, timer.Deadline)
	assert.Equal(t, clock.Now().Add(15*time.Second), *timer.Deadline)

	clock.Advance(15 * time.Second)
	assert.True(t, timerExpired(clock, timer))
}

func TestPauseIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := startTimer(clock, models.TimerTypePrimary, testGameConfig())

	clock.Advance(5 * time.Second)
	pauseTimer(clock, timer)
	clock.Advance(5 * time.Second)
	pauseTimer(clock, timer)

	assert.Equal(t, int64(15000), timer.RemainingMs)
}

func TestPauseAfterDeadlineClampsToZero(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := startTimer(clock, models.TimerTypePrimary, testGameConfig())

	clock.Advance(25 * time.Second)
	pauseTimer(clock, timer)
	assert.Equal(t, int64(0), timer.RemainingMs)
}

func TestNilTimerHelpers(t *testing.T) {
	clock := clockwork.NewFakeClock()

	assert.False(t, timerExpired(clock, nil))
	assert.Equal(t, int64(0), timerRemainingMs(clock, nil))
	pauseTimer(clock, nil)
	resumeTimer(clock, nil)
}
