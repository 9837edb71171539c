package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/mcdev12/finfootball/go/internal/questions"
	"github.com/mcdev12/finfootball/go/internal/teams"
	"github.com/mcdev12/finfootball/go/internal/tournament"
	"github.com/rs/zerolog/log"
)

// MatchCommands defines what the command handler needs from the match app
type MatchCommands interface {
	CreateLiveMatch(ctx context.Context, req match.CreateLiveMatchRequest) (*models.LiveMatch, error)
	GetLiveMatch(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)
	FlipCoin(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)
	DecideFirst(ctx context.Context, id uuid.UUID, req match.DecideFirstRequest) (*models.LiveMatch, error)
	SubmitAnswer(ctx context.Context, id uuid.UUID, req match.SubmitAnswerRequest) (match.SubmitResult, error)
	Pause(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)
	Resume(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)
	Reset(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)
}

// TournamentCommands defines what the command handler needs from the
// tournament app
type TournamentCommands interface {
	CreateTournament(ctx context.Context, req tournament.CreateTournamentRequest) (*models.Tournament, error)
	Launch(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	ListStages(ctx context.Context, id uuid.UUID) ([]models.Stage, error)
	RecordResult(ctx context.Context, tournamentID, matchID uuid.UUID, req tournament.RecordResultRequest) (*models.Tournament, error)
	GrantBye(ctx context.Context, tournamentID, matchID uuid.UUID, req tournament.GrantByeRequest) (*models.Tournament, error)
	AttachLiveMatch(ctx context.Context, tournamentID, matchID, liveMatchID uuid.UUID) (*models.Tournament, error)
}

// TeamCommands defines what the command handler needs from the teams app
type TeamCommands interface {
	CreateTeam(ctx context.Context, req teams.CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
}

// QuestionCommands defines what the command handler needs from the question
// bank
type QuestionCommands interface {
	CreateQuestion(ctx context.Context, req questions.CreateQuestionRequest) (*models.Question, error)
}

// CommandHandler exposes the moderator command surface over HTTP. State flows
// back to observers through the event stream; command responses return the
// post-command snapshot for the moderator console.
type CommandHandler struct {
	matches     MatchCommands
	tournaments TournamentCommands
	teams       TeamCommands
	questions   QuestionCommands
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(matches MatchCommands, tournaments TournamentCommands, teamApp TeamCommands, questionApp QuestionCommands) *CommandHandler {
	return &CommandHandler{
		matches:     matches,
		tournaments: tournaments,
		teams:       teamApp,
		questions:   questionApp,
	}
}

// RegisterRoutes registers command routes with an HTTP mux
func (h *CommandHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/teams", h.handleCreateTeam)
	mux.HandleFunc("GET /api/teams", h.handleListTeams)
	mux.HandleFunc("GET /api/teams/{id}", h.handleGetTeam)
	mux.HandleFunc("POST /api/questions", h.handleCreateQuestion)

	mux.HandleFunc("POST /api/matches", h.handleCreateMatch)
	mux.HandleFunc("GET /api/matches/{id}", h.handleGetMatch)
	mux.HandleFunc("POST /api/matches/{id}/flip", h.matchAction(h.matches.FlipCoin))
	mux.HandleFunc("POST /api/matches/{id}/decide", h.handleDecideFirst)
	mux.HandleFunc("POST /api/matches/{id}/answer", h.handleSubmitAnswer)
	mux.HandleFunc("POST /api/matches/{id}/pause", h.matchAction(h.matches.Pause))
	mux.HandleFunc("POST /api/matches/{id}/resume", h.matchAction(h.matches.Resume))
	mux.HandleFunc("POST /api/matches/{id}/reset", h.matchAction(h.matches.Reset))

	mux.HandleFunc("POST /api/tournaments", h.handleCreateTournament)
	mux.HandleFunc("GET /api/tournaments/{id}", h.handleGetTournament)
	mux.HandleFunc("GET /api/tournaments/{id}/stages", h.handleListStages)
	mux.HandleFunc("POST /api/tournaments/{id}/launch", h.handleLaunch)
	mux.HandleFunc("POST /api/tournaments/{id}/matches/{matchID}/result", h.handleRecordResult)
	mux.HandleFunc("POST /api/tournaments/{id}/matches/{matchID}/bye", h.handleGrantBye)
	mux.HandleFunc("POST /api/tournaments/{id}/matches/{matchID}/attach", h.handleAttachLiveMatch)
}

func (h *CommandHandler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teams.CreateTeamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	team, err := h.teams.CreateTeam(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *CommandHandler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	list, err := h.teams.ListTeams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CommandHandler) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	team, err := h.teams.GetTeam(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *CommandHandler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questions.CreateQuestionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	q, err := h.questions.CreateQuestion(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *CommandHandler) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req match.CreateLiveMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.matches.CreateLiveMatch(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *CommandHandler) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.matches.GetLiveMatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// matchAction adapts the zero-body match commands into handlers.
func (h *CommandHandler) matchAction(fn func(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		m, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (h *CommandHandler) handleDecideFirst(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req match.DecideFirstRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.matches.DecideFirst(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *CommandHandler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req match.SubmitAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.matches.SubmitAnswer(r.Context(), id, req)
	if err != nil && !errors.Is(err, match.ErrStaleSubmission) {
		writeError(w, err)
		return
	}
	// late and stale rejections are part of the result, not HTTP failures
	writeJSON(w, http.StatusOK, result)
}

func (h *CommandHandler) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req tournament.CreateTournamentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.tournaments.CreateTournament(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *CommandHandler) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CommandHandler) handleListStages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	stages, err := h.tournaments.ListStages(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stages)
}

func (h *CommandHandler) handleLaunch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.tournaments.Launch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CommandHandler) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	matchID, ok := pathUUID(w, r, "matchID")
	if !ok {
		return
	}
	var req tournament.RecordResultRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.tournaments.RecordResult(r.Context(), tournamentID, matchID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CommandHandler) handleGrantBye(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	matchID, ok := pathUUID(w, r, "matchID")
	if !ok {
		return
	}
	var req tournament.GrantByeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.tournaments.GrantBye(r.Context(), tournamentID, matchID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CommandHandler) handleAttachLiveMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	matchID, ok := pathUUID(w, r, "matchID")
	if !ok {
		return
	}
	var req struct {
		LiveMatchID uuid.UUID `json:"live_match_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.tournaments.AttachLiveMatch(r.Context(), tournamentID, matchID, req.LiveMatchID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// writeError maps app errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, match.ErrNotFound),
		errors.Is(err, tournament.ErrNotFound),
		errors.Is(err, teams.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, match.ErrInvalidTransition),
		errors.Is(err, tournament.ErrInvalidState),
		errors.Is(err, tournament.ErrAlreadyCompleted):
		status = http.StatusConflict
	case errors.Is(err, match.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, questions.ErrInsufficientContent):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("command failed")
	}
	http.Error(w, err.Error(), status)
}
