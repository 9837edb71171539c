package match

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// RejectReason distinguishes why a submission was not applied.
type RejectReason string

const (
	// RejectReasonLate means the answer arrived after the turn deadline.
	RejectReasonLate RejectReason = "late"
	// RejectReasonStale means the answer targets a question, team, or match
	// state that is no longer current.
	RejectReasonStale RejectReason = "stale"
)

// SubmitResult describes the outcome of an applied or rejected answer.
type SubmitResult struct {
	Accepted      bool         `json:"accepted"`
	Reason        RejectReason `json:"reason,omitempty"`
	Correct       bool         `json:"correct"`
	PointsAwarded int          `json:"points_awarded"`
	Completed     bool         `json:"completed"`
}

// engine applies state transitions to a live match. Callers hold the
// per-match lock; nothing here is safe for concurrent use on the same match.
type engine struct {
	clock clockwork.Clock
	cfg   models.GameConfig
	// flipFace picks the coin result, swappable in tests
	flipFace func() models.CoinFace
}

func newEngine(clock clockwork.Clock, cfg models.GameConfig) *engine {
	return &engine{
		clock: clock,
		cfg:   cfg,
		flipFace: func() models.CoinFace {
			if rand.Intn(2) == 0 {
				return models.CoinFaceHeads
			}
			return models.CoinFaceTails
		},
	}
}

// flipCoin starts the coin reveal. The toss settles to FLIPPED once the
// reveal deadline passes (resolved by the scheduler sweep).
func (e *engine) flipCoin(m *models.LiveMatch) error {
	if m.Status != models.LiveMatchStatusCoinToss || m.CoinToss.Status != models.CoinTossStatusReady {
		return ErrInvalidTransition
	}

	face := e.flipFace()
	winner := m.Teams[0]
	if face == models.CoinFaceTails {
		winner = m.Teams[1]
	}
	revealAt := e.clock.Now().Add(time.Duration(e.cfg.CoinRevealMs) * time.Millisecond)

	m.CoinToss.Status = models.CoinTossStatusFlipping
	m.CoinToss.ResultFace = face
	m.CoinToss.WinnerID = &winner
	m.CoinToss.RevealAt = &revealAt
	return nil
}

// resolveCoinReveal settles a due FLIPPING toss to FLIPPED. Returns true if
// the state changed.
func (e *engine) resolveCoinReveal(m *models.LiveMatch) bool {
	if m.CoinToss.Status != models.CoinTossStatusFlipping || m.CoinToss.RevealAt == nil {
		return false
	}
	if e.clock.Now().Before(*m.CoinToss.RevealAt) {
		return false
	}
	m.CoinToss.Status = models.CoinTossStatusFlipped
	m.CoinToss.RevealAt = nil
	return true
}

// decideFirst accepts the toss winner's (or moderator's) choice of which team
// answers first, builds the turn order, and starts the first primary window.
func (e *engine) decideFirst(m *models.LiveMatch, deciderID, firstTeamID uuid.UUID) error {
	if m.Status != models.LiveMatchStatusCoinToss || m.CoinToss.Status != models.CoinTossStatusFlipped {
		return ErrInvalidTransition
	}
	if !m.HasTeam(firstTeamID) {
		return ErrStaleSubmission
	}

	authorized := m.CoinToss.WinnerID != nil && *m.CoinToss.WinnerID == deciderID
	if !authorized && m.ModeratorID != nil && *m.ModeratorID == deciderID {
		// moderator override is an explicit capability, not a fallback
		authorized = true
	}
	if !authorized {
		return ErrUnauthorized
	}

	m.CoinToss.Status = models.CoinTossStatusDecided
	m.CoinToss.Decision = &models.CoinDecision{DeciderID: deciderID, FirstTeamID: firstTeamID}
	m.TeamOrder = BuildTeamOrder(firstTeamID, m.Teams, e.cfg.QuestionsPerTeam)

	active := m.TeamOrder[0]
	m.ActiveTeamID = &active
	m.Timer = startTimer(e.clock, models.TimerTypePrimary, e.cfg)
	m.Status = models.LiveMatchStatusInProgress
	return nil
}

// submitAnswer validates and applies an answer from teamID for the question
// instance it believes is current.
func (e *engine) submitAnswer(m *models.LiveMatch, teamID uuid.UUID, selectedKey string, instanceID uuid.UUID) (SubmitResult, error) {
	if m.Status != models.LiveMatchStatusInProgress {
		return SubmitResult{Reason: RejectReasonStale}, ErrStaleSubmission
	}
	if m.ActiveTeamID == nil || *m.ActiveTeamID != teamID {
		return SubmitResult{Reason: RejectReasonStale}, ErrStaleSubmission
	}
	current := m.QuestionQueue[m.QuestionIndex]
	if current.InstanceID != instanceID {
		return SubmitResult{Reason: RejectReasonStale}, ErrStaleSubmission
	}
	if timerExpired(e.clock, m.Timer) {
		// the sweep will force the timeout; the late answer never applies
		return SubmitResult{Reason: RejectReasonLate}, ErrStaleSubmission
	}

	correct := selectedKey == current.Question.CorrectKey
	return e.applyAnswer(m, teamID, correct), nil
}

// forceTimeout scores the active team's expired window as an incorrect
// answer. Only legal while a timer is running past its deadline.
func (e *engine) forceTimeout(m *models.LiveMatch) (SubmitResult, error) {
	if m.Status != models.LiveMatchStatusInProgress || m.ActiveTeamID == nil {
		return SubmitResult{}, ErrInvalidTransition
	}
	if !timerExpired(e.clock, m.Timer) {
		return SubmitResult{}, ErrInvalidTransition
	}
	return e.applyAnswer(m, *m.ActiveTeamID, false), nil
}

// applyAnswer runs the answer-result algorithm for a correct or incorrect
// attempt by teamID, covering both primary and steal windows.
func (e *engine) applyAnswer(m *models.LiveMatch, teamID uuid.UUID, correct bool) SubmitResult {
	res := SubmitResult{Accepted: true, Correct: correct}

	if m.AwaitingSteal {
		if correct {
			m.Scores[teamID] += e.cfg.StealPoints
			res.PointsAwarded = e.cfg.StealPoints
		}
		m.AwaitingSteal = false
		e.advance(m)
		res.Completed = m.Status == models.LiveMatchStatusCompleted
		return res
	}

	if correct {
		m.Scores[teamID] += e.cfg.PrimaryPoints
		res.PointsAwarded = e.cfg.PrimaryPoints
		e.advance(m)
		res.Completed = m.Status == models.LiveMatchStatusCompleted
		return res
	}

	opponent := m.Opponent(teamID)
	if opponent == nil {
		e.advance(m)
		res.Completed = m.Status == models.LiveMatchStatusCompleted
		return res
	}

	// same question is now contested by the opponent
	m.AwaitingSteal = true
	m.ActiveTeamID = opponent
	m.Timer = startTimer(e.clock, models.TimerTypeSteal, e.cfg)
	return res
}

// advance moves to the next question slot or completes the match.
func (e *engine) advance(m *models.LiveMatch) {
	m.QuestionIndex++
	if m.QuestionIndex >= len(m.QuestionQueue) {
		m.Status = models.LiveMatchStatusCompleted
		m.ActiveTeamID = nil
		m.Timer = nil
		return
	}
	active := m.TeamOrder[m.QuestionIndex]
	m.ActiveTeamID = &active
	m.Timer = startTimer(e.clock, models.TimerTypePrimary, e.cfg)
	m.Status = models.LiveMatchStatusInProgress
}

// pause freezes an in-progress match and its timer.
func (e *engine) pause(m *models.LiveMatch) error {
	if m.Status != models.LiveMatchStatusInProgress {
		return ErrInvalidTransition
	}
	pauseTimer(e.clock, m.Timer)
	m.Status = models.LiveMatchStatusPaused
	return nil
}

// resume restarts a paused match from the timer's remaining time.
func (e *engine) resume(m *models.LiveMatch) error {
	if m.Status != models.LiveMatchStatusPaused {
		return ErrInvalidTransition
	}
	resumeTimer(e.clock, m.Timer)
	m.Status = models.LiveMatchStatusInProgress
	return nil
}

// reset discards all turn state and returns the match to a fresh coin toss.
// Completed matches cannot be reset.
func (e *engine) reset(m *models.LiveMatch) error {
	if m.Status == models.LiveMatchStatusCompleted {
		return ErrInvalidTransition
	}
	for id := range m.Scores {
		m.Scores[id] = 0
	}
	m.QuestionIndex = 0
	m.TeamOrder = nil
	m.ActiveTeamID = nil
	m.AwaitingSteal = false
	m.Timer = nil
	m.CoinToss = models.CoinToss{Status: models.CoinTossStatusReady}
	m.Status = models.LiveMatchStatusCoinToss
	return nil
}
