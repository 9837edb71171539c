package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/mcdev12/finfootball/go/internal/tournament"
	"github.com/rs/zerolog/log"
)

// MatchFinisher defines what the finalizer needs from the match app
type MatchFinisher interface {
	FinalResultFor(ctx context.Context, id uuid.UUID) (match.FinalResult, error)
	FinishLiveMatch(ctx context.Context, result match.FinalResult) error
}

// BracketRecorder defines what the finalizer needs from the tournament app
type BracketRecorder interface {
	RecordResult(ctx context.Context, tournamentID, matchID uuid.UUID, req tournament.RecordResultRequest) (*models.Tournament, error)
}

// Finalizer runs exactly once per completed match: compute the final result,
// feed it into the bracket when the match belongs to one, then retire the
// live match. It is registered as the match app's completion handler.
type Finalizer struct {
	matches  MatchFinisher
	brackets BracketRecorder
	timeout  time.Duration

	mu   sync.Mutex
	done map[uuid.UUID]struct{}
}

// NewFinalizer creates a new match finalizer
func NewFinalizer(matches MatchFinisher, brackets BracketRecorder) *Finalizer {
	return &Finalizer{
		matches:  matches,
		brackets: brackets,
		timeout:  10 * time.Second,
		done:     make(map[uuid.UUID]struct{}),
	}
}

// HandleCompleted finalizes one completed match. Safe to call multiple
// times; only the first call per match does work.
func (f *Finalizer) HandleCompleted(matchID uuid.UUID) {
	f.mu.Lock()
	if _, seen := f.done[matchID]; seen {
		f.mu.Unlock()
		return
	}
	f.done[matchID] = struct{}{}
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	result, err := f.matches.FinalResultFor(ctx, matchID)
	if err != nil {
		f.forget(matchID)
		log.Error().Err(err).Str("match_id", matchID.String()).Msg("failed to compute final result")
		return
	}

	if result.TournamentID != nil && result.TournamentMatchID != nil && f.brackets != nil {
		req := tournament.RecordResultRequest{
			WinnerID: result.WinnerID,
			LoserID:  result.LoserID,
			Scores:   result.Scores,
		}
		_, err := f.brackets.RecordResult(ctx, *result.TournamentID, *result.TournamentMatchID, req)
		if err != nil && !errors.Is(err, tournament.ErrAlreadyCompleted) {
			f.forget(matchID)
			log.Error().
				Err(err).
				Str("match_id", matchID.String()).
				Str("tournament_id", result.TournamentID.String()).
				Msg("failed to record bracket result")
			return
		}
	}

	if err := f.matches.FinishLiveMatch(ctx, result); err != nil {
		// a re-run is safe: the bracket tolerates the duplicate result
		f.forget(matchID)
		log.Error().Err(err).Str("match_id", matchID.String()).Msg("failed to finish live match")
		return
	}

	log.Info().
		Str("match_id", matchID.String()).
		Bool("tie", result.Tie).
		Msg("match finalized")
}

// forget clears the idempotency marker after a failure so a later completion
// signal can retry.
func (f *Finalizer) forget(matchID uuid.UUID) {
	f.mu.Lock()
	delete(f.done, matchID)
	f.mu.Unlock()
}
