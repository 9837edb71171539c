package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/rs/zerolog/log"
)

// MatchSweeper defines what the scheduler needs from the match app
type MatchSweeper interface {
	DueTimeouts() []uuid.UUID
	DueCoinReveals() []uuid.UUID
	ForceTimeout(ctx context.Context, id uuid.UUID) (match.SubmitResult, error)
	ResolveCoinReveal(ctx context.Context, id uuid.UUID) error
}

type Config struct {
	TickInterval   time.Duration
	HandlerTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickInterval:   250 * time.Millisecond,
		HandlerTimeout: 5 * time.Second,
	}
}

// Scheduler drives time-based transitions: every tick it sweeps the match
// registry for expired answer timers and due coin reveals, and dispatches
// each one on its own goroutine. A late client submission that races a sweep
// loses; the app rejects it once the timeout has been forced.
type Scheduler struct {
	app    MatchSweeper
	clock  clockwork.Clock
	config Config

	inflightMu sync.Mutex
	inflight   map[uuid.UUID]struct{}

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a new match scheduler
func NewScheduler(app MatchSweeper, clock clockwork.Clock, cfg Config) *Scheduler {
	return &Scheduler{
		app:      app,
		clock:    clock,
		config:   cfg,
		inflight: make(map[uuid.UUID]struct{}),
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	log.Info().
		Dur("tick_interval", s.config.TickInterval).
		Msg("match scheduler started")
	return nil
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler not running")
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()

	log.Info().Msg("match scheduler stopped")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over due work. Exported so tests and recovery can
// drive it without the ticker.
func (s *Scheduler) Sweep(ctx context.Context) {
	for _, id := range s.app.DueCoinReveals() {
		s.dispatch(ctx, id, s.resolveReveal)
	}
	for _, id := range s.app.DueTimeouts() {
		s.dispatch(ctx, id, s.forceTimeout)
	}
}

// dispatch runs fn for a match on its own goroutine, skipping matches that
// already have a handler in flight so one stalled match never delays the
// sweep and no match is handled twice per deadline.
func (s *Scheduler) dispatch(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, id uuid.UUID)) {
	s.inflightMu.Lock()
	if _, busy := s.inflight[id]; busy {
		s.inflightMu.Unlock()
		return
	}
	s.inflight[id] = struct{}{}
	s.inflightMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.inflightMu.Lock()
			delete(s.inflight, id)
			s.inflightMu.Unlock()
		}()

		hctx, cancel := context.WithTimeout(ctx, s.config.HandlerTimeout)
		defer cancel()
		fn(hctx, id)
	}()
}

func (s *Scheduler) forceTimeout(ctx context.Context, id uuid.UUID) {
	result, err := s.app.ForceTimeout(ctx, id)
	if err != nil {
		// a submission or pause can land between sweep and dispatch; the
		// deadline this sweep saw no longer exists
		if errors.Is(err, match.ErrInvalidTransition) || errors.Is(err, match.ErrNotFound) {
			log.Debug().Str("match_id", id.String()).Msg("timeout no longer due")
			return
		}
		log.Error().Err(err).Str("match_id", id.String()).Msg("failed to force timeout")
		return
	}

	log.Info().
		Str("match_id", id.String()).
		Bool("completed", result.Completed).
		Msg("forced timeout")
}

func (s *Scheduler) resolveReveal(ctx context.Context, id uuid.UUID) {
	if err := s.app.ResolveCoinReveal(ctx, id); err != nil {
		if errors.Is(err, match.ErrInvalidTransition) || errors.Is(err, match.ErrNotFound) {
			return
		}
		log.Error().Err(err).Str("match_id", id.String()).Msg("failed to resolve coin reveal")
		return
	}
	log.Info().Str("match_id", id.String()).Msg("coin toss revealed")
}
