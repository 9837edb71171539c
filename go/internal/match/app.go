package match

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/events"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/rs/zerolog/log"
)

// QuestionSupply defines what the match app needs from the question bank
type QuestionSupply interface {
	DrawQuestions(ctx context.Context, count int) ([]models.Question, error)
}

// LiveMatchRepository defines what the match app needs from storage
type LiveMatchRepository interface {
	SaveLiveMatch(ctx context.Context, m *models.LiveMatch) error
	GetLiveMatch(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)
	ListActiveLiveMatches(ctx context.Context) ([]*models.LiveMatch, error)
	SaveFinalResult(ctx context.Context, result FinalResult) error
}

// OutboxApp defines what the match app needs from the outbox
type OutboxApp interface {
	InsertMatchUpdated(ctx context.Context, matchID uuid.UUID, payload []byte) error
	InsertMatchCompleted(ctx context.Context, matchID uuid.UUID, payload []byte) error
}

// liveEntry pairs a live match with the mutex serializing its mutations.
type liveEntry struct {
	mu sync.Mutex
	m  *models.LiveMatch
}

// App owns every running live match. All mutations of one match serialize on
// its entry mutex; matches never block each other.
type App struct {
	repo   LiveMatchRepository
	supply QuestionSupply
	outbox OutboxApp
	clock  clockwork.Clock
	cfg    models.GameConfig
	eng    *engine

	mu      sync.RWMutex
	matches map[uuid.UUID]*liveEntry

	onCompleted func(matchID uuid.UUID)
}

// NewApp creates a new match App
func NewApp(repo LiveMatchRepository, supply QuestionSupply, outbox OutboxApp, clock clockwork.Clock, cfg models.GameConfig) *App {
	return &App{
		repo:    repo,
		supply:  supply,
		outbox:  outbox,
		clock:   clock,
		cfg:     cfg,
		eng:     newEngine(clock, cfg),
		matches: make(map[uuid.UUID]*liveEntry),
	}
}

// SetCompletedHandler registers the callback invoked after a match reaches
// COMPLETED. Set once at wiring time, before any match runs.
func (a *App) SetCompletedHandler(fn func(matchID uuid.UUID)) {
	a.onCompleted = fn
}

// Recover reloads active live matches from storage after a restart. Running
// timers keep their persisted deadlines, so in-flight turns survive.
func (a *App) Recover(ctx context.Context) error {
	actives, err := a.repo.ListActiveLiveMatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover live matches: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range actives {
		a.matches[m.ID] = &liveEntry{m: m}
	}
	log.Info().Int("count", len(actives)).Msg("recovered live matches")
	return nil
}

// CreateLiveMatch draws the full question queue and registers a new match in
// the coin-toss state. Fails with the supply's error when the question bank
// cannot produce enough unique items.
func (a *App) CreateLiveMatch(ctx context.Context, req CreateLiveMatchRequest) (*models.LiveMatch, error) {
	if req.TeamAID == req.TeamBID {
		return nil, fmt.Errorf("%w: a match needs two distinct teams", ErrInvalidTransition)
	}

	drawn, err := a.supply.DrawQuestions(ctx, a.cfg.QueueLength())
	if err != nil {
		return nil, fmt.Errorf("failed to draw question queue: %w", err)
	}

	queue := make([]models.QuestionInstance, len(drawn))
	for i, q := range drawn {
		queue[i] = models.QuestionInstance{InstanceID: uuid.New(), Question: q}
	}

	id := uuid.New()
	if req.ID != nil {
		id = *req.ID
	}
	now := a.clock.Now()
	m := &models.LiveMatch{
		ID:                id,
		Teams:             [2]uuid.UUID{req.TeamAID, req.TeamBID},
		Scores:            map[uuid.UUID]int{req.TeamAID: 0, req.TeamBID: 0},
		QuestionQueue:     queue,
		Status:            models.LiveMatchStatusCoinToss,
		CoinToss:          models.CoinToss{Status: models.CoinTossStatusReady},
		TournamentID:      req.TournamentID,
		TournamentMatchID: req.TournamentMatchID,
		ModeratorID:       req.ModeratorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	entry := &liveEntry{m: m}
	a.mu.Lock()
	if _, exists := a.matches[id]; exists {
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: live match %s already registered", ErrInvalidTransition, id)
	}
	a.matches[id] = entry
	a.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := a.persistAndPublish(ctx, m); err != nil {
		return nil, err
	}

	log.Info().
		Str("match_id", id.String()).
		Str("team_a", req.TeamAID.String()).
		Str("team_b", req.TeamBID.String()).
		Msg("created live match")
	return cloneLiveMatch(m), nil
}

// GetLiveMatch returns a snapshot copy of a registered live match.
func (a *App) GetLiveMatch(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	entry, err := a.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneLiveMatch(entry.m), nil
}

// FlipCoin starts the coin reveal for a match awaiting its toss.
func (a *App) FlipCoin(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return a.mutate(ctx, id, func(m *models.LiveMatch) error {
		return a.eng.flipCoin(m)
	})
}

// ResolveCoinReveal settles a due coin flip. Invoked by the scheduler sweep.
func (a *App) ResolveCoinReveal(ctx context.Context, id uuid.UUID) error {
	_, err := a.mutate(ctx, id, func(m *models.LiveMatch) error {
		if !a.eng.resolveCoinReveal(m) {
			return ErrInvalidTransition
		}
		return nil
	})
	return err
}

// DecideFirst applies the toss winner's choice and starts play.
func (a *App) DecideFirst(ctx context.Context, id uuid.UUID, req DecideFirstRequest) (*models.LiveMatch, error) {
	return a.mutate(ctx, id, func(m *models.LiveMatch) error {
		return a.eng.decideFirst(m, req.DeciderID, req.FirstTeamID)
	})
}

// SubmitAnswer validates and applies an answer submission. Rejections return
// a result carrying the late/stale reason alongside ErrStaleSubmission and
// leave the match untouched.
func (a *App) SubmitAnswer(ctx context.Context, id uuid.UUID, req SubmitAnswerRequest) (SubmitResult, error) {
	var res SubmitResult
	_, err := a.mutate(ctx, id, func(m *models.LiveMatch) error {
		var applyErr error
		res, applyErr = a.eng.submitAnswer(m, req.TeamID, req.AnswerKey, req.QuestionInstanceID)
		return applyErr
	})
	return res, err
}

// ForceTimeout scores the active team's expired window as an incorrect
// answer. Invoked by the scheduler sweep only.
func (a *App) ForceTimeout(ctx context.Context, id uuid.UUID) (SubmitResult, error) {
	var res SubmitResult
	_, err := a.mutate(ctx, id, func(m *models.LiveMatch) error {
		var applyErr error
		res, applyErr = a.eng.forceTimeout(m)
		return applyErr
	})
	return res, err
}

// Pause freezes an in-progress match.
func (a *App) Pause(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return a.mutate(ctx, id, func(m *models.LiveMatch) error {
		return a.eng.pause(m)
	})
}

// Resume restarts a paused match with the remaining time it was paused at.
func (a *App) Resume(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return a.mutate(ctx, id, func(m *models.LiveMatch) error {
		return a.eng.resume(m)
	})
}

// Reset discards all turn state and returns the match to a fresh coin toss.
func (a *App) Reset(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return a.mutate(ctx, id, func(m *models.LiveMatch) error {
		return a.eng.reset(m)
	})
}

// DueTimeouts returns the ids of in-progress matches whose running timer has
// passed its deadline.
func (a *App) DueTimeouts() []uuid.UUID {
	return a.collect(func(m *models.LiveMatch) bool {
		return m.Status == models.LiveMatchStatusInProgress && timerExpired(a.clock, m.Timer)
	})
}

// DueCoinReveals returns the ids of matches whose coin flip reveal is due.
func (a *App) DueCoinReveals() []uuid.UUID {
	return a.collect(func(m *models.LiveMatch) bool {
		return m.CoinToss.Status == models.CoinTossStatusFlipping &&
			m.CoinToss.RevealAt != nil && !a.clock.Now().Before(*m.CoinToss.RevealAt)
	})
}

// FinalResultFor computes the terminal outcome of a completed match. Equal
// scores are a tie: both winner and loser stay nil.
func (a *App) FinalResultFor(ctx context.Context, id uuid.UUID) (FinalResult, error) {
	entry, err := a.entry(id)
	if err != nil {
		return FinalResult{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	m := entry.m
	if m.Status != models.LiveMatchStatusCompleted {
		return FinalResult{}, fmt.Errorf("%w: match %s not completed", ErrInvalidTransition, id)
	}

	result := FinalResult{
		MatchID:           m.ID,
		TournamentID:      m.TournamentID,
		TournamentMatchID: m.TournamentMatchID,
		Scores:            cloneScores(m.Scores),
	}
	scoreA, scoreB := m.Scores[m.Teams[0]], m.Scores[m.Teams[1]]
	switch {
	case scoreA > scoreB:
		winner, loser := m.Teams[0], m.Teams[1]
		result.WinnerID, result.LoserID = &winner, &loser
	case scoreB > scoreA:
		winner, loser := m.Teams[1], m.Teams[0]
		result.WinnerID, result.LoserID = &winner, &loser
	default:
		result.Tie = true
	}
	return result, nil
}

// FinishLiveMatch records the final result, publishes MatchCompleted, and
// drops the match from the registry. Invoked by the finalizer exactly once.
func (a *App) FinishLiveMatch(ctx context.Context, result FinalResult) error {
	entry, err := a.entry(result.MatchID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	if err := a.repo.SaveFinalResult(ctx, result); err != nil {
		entry.mu.Unlock()
		return fmt.Errorf("failed to save final result: %w", err)
	}

	payload, err := json.Marshal(events.MatchCompletedPayload{
		MatchID:           result.MatchID,
		TournamentMatchID: result.TournamentMatchID,
		WinnerID:          result.WinnerID,
		LoserID:           result.LoserID,
		Scores:            result.Scores,
		Tie:               result.Tie,
		CompletedAt:       a.clock.Now(),
	})
	if err != nil {
		entry.mu.Unlock()
		return fmt.Errorf("failed to marshal MatchCompleted payload: %w", err)
	}
	if err := a.outbox.InsertMatchCompleted(ctx, result.MatchID, payload); err != nil {
		// keep the registry entry so the finalizer can retry; dropping it
		// here would lose the once-only MatchCompleted event
		entry.mu.Unlock()
		return fmt.Errorf("failed to insert MatchCompleted event: %w", err)
	}
	entry.mu.Unlock()

	a.mu.Lock()
	delete(a.matches, result.MatchID)
	a.mu.Unlock()

	log.Info().Str("match_id", result.MatchID.String()).Bool("tie", result.Tie).Msg("live match finished")
	return nil
}

// mutate runs fn under the match's lock, then persists and publishes the
// post-mutation snapshot. A failed fn leaves the match untouched.
func (a *App) mutate(ctx context.Context, id uuid.UUID, fn func(m *models.LiveMatch) error) (*models.LiveMatch, error) {
	entry, err := a.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.m); err != nil {
		return nil, err
	}
	entry.m.UpdatedAt = a.clock.Now()
	if err := a.persistAndPublish(ctx, entry.m); err != nil {
		return nil, err
	}

	if entry.m.Status == models.LiveMatchStatusCompleted && a.onCompleted != nil {
		// hand off outside the lock path; the finalizer re-reads state
		go a.onCompleted(entry.m.ID)
	}
	return cloneLiveMatch(entry.m), nil
}

// persistAndPublish saves the snapshot and inserts a MatchUpdated outbox
// event, both built under the entry lock so observers get consistent state.
func (a *App) persistAndPublish(ctx context.Context, m *models.LiveMatch) error {
	if err := a.repo.SaveLiveMatch(ctx, m); err != nil {
		return fmt.Errorf("failed to save live match: %w", err)
	}

	payload, err := json.Marshal(events.MatchUpdatedPayload{
		Match:       m,
		RemainingMs: timerRemainingMs(a.clock, m.Timer),
		PublishedAt: a.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal MatchUpdated payload: %w", err)
	}
	if err := a.outbox.InsertMatchUpdated(ctx, m.ID, payload); err != nil {
		return fmt.Errorf("failed to insert MatchUpdated event: %w", err)
	}
	return nil
}

func (a *App) entry(id uuid.UUID) (*liveEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, nil
}

func (a *App) collect(pred func(m *models.LiveMatch) bool) []uuid.UUID {
	a.mu.RLock()
	entries := make([]*liveEntry, 0, len(a.matches))
	for _, e := range a.matches {
		entries = append(entries, e)
	}
	a.mu.RUnlock()

	var due []uuid.UUID
	for _, e := range entries {
		e.mu.Lock()
		if pred(e.m) {
			due = append(due, e.m.ID)
		}
		e.mu.Unlock()
	}
	return due
}

func cloneLiveMatch(m *models.LiveMatch) *models.LiveMatch {
	cp := *m
	cp.Scores = cloneScores(m.Scores)
	cp.QuestionQueue = append([]models.QuestionInstance(nil), m.QuestionQueue...)
	cp.TeamOrder = append([]uuid.UUID(nil), m.TeamOrder...)
	if m.ActiveTeamID != nil {
		id := *m.ActiveTeamID
		cp.ActiveTeamID = &id
	}
	if m.Timer != nil {
		t := *m.Timer
		cp.Timer = &t
	}
	if m.CoinToss.Decision != nil {
		d := *m.CoinToss.Decision
		cp.CoinToss.Decision = &d
	}
	return &cp
}

func cloneScores(scores map[uuid.UUID]int) map[uuid.UUID]int {
	cp := make(map[uuid.UUID]int, len(scores))
	for k, v := range scores {
		cp[k] = v
	}
	return cp
}
