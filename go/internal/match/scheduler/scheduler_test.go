package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	mu          sync.Mutex
	dueTimeouts []uuid.UUID
	dueReveals  []uuid.UUID
	timeoutErr  error
	revealErr   error
	timeouts    []uuid.UUID
	reveals     []uuid.UUID
	block       chan struct{}
}

func (s *fakeSweeper) DueTimeouts() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.dueTimeouts...)
}

func (s *fakeSweeper) DueCoinReveals() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.dueReveals...)
}

func (s *fakeSweeper) ForceTimeout(ctx context.Context, id uuid.UUID) (match.SubmitResult, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts = append(s.timeouts, id)
	return match.SubmitResult{Accepted: true}, s.timeoutErr
}

func (s *fakeSweeper) ResolveCoinReveal(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveals = append(s.reveals, id)
	return s.revealErr
}

func (s *fakeSweeper) timeoutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timeouts)
}

func (s *fakeSweeper) revealCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reveals)
}

func TestSweepDispatchesDueWork(t *testing.T) {
	timeoutID, revealID := uuid.New(), uuid.New()
	sweeper := &fakeSweeper{
		dueTimeouts: []uuid.UUID{timeoutID},
		dueReveals:  []uuid.UUID{revealID},
	}
	s := NewScheduler(sweeper, clockwork.NewFakeClock(), DefaultConfig())

	s.Sweep(context.Background())

	require.Eventually(t, func() bool {
		return sweeper.timeoutCount() == 1 && sweeper.revealCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, timeoutID, sweeper.timeouts[0])
	assert.Equal(t, revealID, sweeper.reveals[0])
}

func TestSweepSkipsInflightMatches(t *testing.T) {
	id := uuid.New()
	sweeper := &fakeSweeper{
		dueTimeouts: []uuid.UUID{id},
		block:       make(chan struct{}),
	}
	s := NewScheduler(sweeper, clockwork.NewFakeClock(), DefaultConfig())
	ctx := context.Background()

	// first sweep starts a handler that stalls; repeat sweeps must not stack
	// a second handler for the same match
	s.Sweep(ctx)
	s.Sweep(ctx)
	s.Sweep(ctx)

	close(sweeper.block)
	require.Eventually(t, func() bool {
		return sweeper.timeoutCount() == 1
	}, time.Second, 5*time.Millisecond)

	// stays at one after the handler drains
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sweeper.timeoutCount())
}

func TestSweepToleratesStaleDeadlines(t *testing.T) {
	id := uuid.New()
	sweeper := &fakeSweeper{
		dueTimeouts: []uuid.UUID{id},
		timeoutErr:  match.ErrInvalidTransition,
	}
	s := NewScheduler(sweeper, clockwork.NewFakeClock(), DefaultConfig())
	ctx := context.Background()

	s.Sweep(ctx)
	require.Eventually(t, func() bool { return sweeper.timeoutCount() == 1 }, time.Second, 5*time.Millisecond)

	// the in-flight guard clears, so the next sweep can try again
	s.Sweep(ctx)
	require.Eventually(t, func() bool { return sweeper.timeoutCount() == 2 }, time.Second, 5*time.Millisecond)
}

func TestTickerDrivesSweeps(t *testing.T) {
	id := uuid.New()
	sweeper := &fakeSweeper{dueReveals: []uuid.UUID{id}}
	clock := clockwork.NewFakeClock()
	s := NewScheduler(sweeper, clock, Config{TickInterval: 250 * time.Millisecond, HandlerTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	// wait for the run loop to own the ticker before advancing
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(250 * time.Millisecond)

	require.Eventually(t, func() bool { return sweeper.revealCount() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestStartStopLifecycle(t *testing.T) {
	s := NewScheduler(&fakeSweeper{}, clockwork.NewFakeClock(), DefaultConfig())
	ctx := context.Background()

	assert.Error(t, s.Stop())
	require.NoError(t, s.Start(ctx))
	assert.Error(t, s.Start(ctx))
	require.NoError(t, s.Stop())
}
