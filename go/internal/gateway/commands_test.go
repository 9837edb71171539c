package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/mcdev12/finfootball/go/internal/questions"
	"github.com/mcdev12/finfootball/go/internal/teams"
	"github.com/mcdev12/finfootball/go/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMatches struct {
	err          error
	submitResult match.SubmitResult
	submitErr    error
}

func (s *stubMatches) CreateLiveMatch(ctx context.Context, req match.CreateLiveMatchRequest) (*models.LiveMatch, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.LiveMatch{ID: uuid.New(), Teams: [2]uuid.UUID{req.TeamAID, req.TeamBID}}, nil
}

func (s *stubMatches) GetLiveMatch(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.LiveMatch{ID: id}, nil
}

func (s *stubMatches) FlipCoin(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return s.GetLiveMatch(ctx, id)
}

func (s *stubMatches) DecideFirst(ctx context.Context, id uuid.UUID, req match.DecideFirstRequest) (*models.LiveMatch, error) {
	return s.GetLiveMatch(ctx, id)
}

func (s *stubMatches) SubmitAnswer(ctx context.Context, id uuid.UUID, req match.SubmitAnswerRequest) (match.SubmitResult, error) {
	return s.submitResult, s.submitErr
}

func (s *stubMatches) Pause(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return s.GetLiveMatch(ctx, id)
}

func (s *stubMatches) Resume(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return s.GetLiveMatch(ctx, id)
}

func (s *stubMatches) Reset(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	return s.GetLiveMatch(ctx, id)
}

type stubTournaments struct {
	err error
}

func (s *stubTournaments) tournament(id uuid.UUID) (*models.Tournament, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Tournament{ID: id}, nil
}

func (s *stubTournaments) CreateTournament(ctx context.Context, req tournament.CreateTournamentRequest) (*models.Tournament, error) {
	return s.tournament(uuid.New())
}

func (s *stubTournaments) Launch(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.tournament(id)
}

func (s *stubTournaments) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.tournament(id)
}

func (s *stubTournaments) ListStages(ctx context.Context, id uuid.UUID) ([]models.Stage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Stage{{ID: uuid.New(), Name: "Winners Round 1"}}, nil
}

func (s *stubTournaments) RecordResult(ctx context.Context, tournamentID, matchID uuid.UUID, req tournament.RecordResultRequest) (*models.Tournament, error) {
	return s.tournament(tournamentID)
}

func (s *stubTournaments) GrantBye(ctx context.Context, tournamentID, matchID uuid.UUID, req tournament.GrantByeRequest) (*models.Tournament, error) {
	return s.tournament(tournamentID)
}

func (s *stubTournaments) AttachLiveMatch(ctx context.Context, tournamentID, matchID, liveMatchID uuid.UUID) (*models.Tournament, error) {
	return s.tournament(tournamentID)
}

type stubTeams struct {
	err error
}

func (s *stubTeams) CreateTeam(ctx context.Context, req teams.CreateTeamRequest) (*models.Team, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Team{ID: uuid.New(), Name: req.Name}, nil
}

func (s *stubTeams) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Team{ID: id}, nil
}

func (s *stubTeams) ListTeams(ctx context.Context) ([]*models.Team, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Team{{ID: uuid.New()}}, nil
}

type stubQuestions struct {
	err error
}

func (s *stubQuestions) CreateQuestion(ctx context.Context, req questions.CreateQuestionRequest) (*models.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Question{ID: uuid.New(), Prompt: req.Prompt}, nil
}

type commandFixture struct {
	matches     *stubMatches
	tournaments *stubTournaments
	teams       *stubTeams
	questions   *stubQuestions
	mux         *http.ServeMux
}

func newCommandFixture() *commandFixture {
	f := &commandFixture{
		matches:     &stubMatches{},
		tournaments: &stubTournaments{},
		teams:       &stubTeams{},
		questions:   &stubQuestions{},
		mux:         http.NewServeMux(),
	}
	h := NewCommandHandler(f.matches, f.tournaments, f.teams, f.questions)
	h.RegisterRoutes(f.mux)
	return f
}

func (f *commandFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateTeamEndpoint(t *testing.T) {
	f := newCommandFixture()

	rec := f.do(t, http.MethodPost, "/api/teams", teams.CreateTeamRequest{Name: "The Compounders"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var team models.Team
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&team))
	assert.Equal(t, "The Compounders", team.Name)
}

func TestCreateMatchEndpoint(t *testing.T) {
	f := newCommandFixture()
	teamA, teamB := uuid.New(), uuid.New()

	rec := f.do(t, http.MethodPost, "/api/matches", match.CreateLiveMatchRequest{TeamAID: teamA, TeamBID: teamB})
	require.Equal(t, http.StatusCreated, rec.Code)

	var m models.LiveMatch
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&m))
	assert.Equal(t, [2]uuid.UUID{teamA, teamB}, m.Teams)
}

func TestMatchActionEndpoint(t *testing.T) {
	f := newCommandFixture()
	id := uuid.New()

	rec := f.do(t, http.MethodPost, "/api/matches/"+id.String()+"/flip", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitAnswerRejectionIsNotAnHTTPFailure(t *testing.T) {
	f := newCommandFixture()
	f.matches.submitResult = match.SubmitResult{Reason: match.RejectReasonLate}
	f.matches.submitErr = match.ErrStaleSubmission

	rec := f.do(t, http.MethodPost, "/api/matches/"+uuid.New().String()+"/answer", match.SubmitAnswerRequest{
		TeamID:             uuid.New(),
		AnswerKey:          "a",
		QuestionInstanceID: uuid.New(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result match.SubmitResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.Accepted)
	assert.Equal(t, match.RejectReasonLate, result.Reason)
}

func TestInvalidPathUUID(t *testing.T) {
	f := newCommandFixture()

	rec := f.do(t, http.MethodGet, "/api/matches/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		name   string
		setup  func(f *commandFixture)
		method string
		path   string
		body   interface{}
		want   int
	}{
		{
			name:   "unknown match is 404",
			setup:  func(f *commandFixture) { f.matches.err = match.ErrNotFound },
			method: http.MethodGet,
			path:   "/api/matches/" + id,
			want:   http.StatusNotFound,
		},
		{
			name:   "invalid transition is 409",
			setup:  func(f *commandFixture) { f.matches.err = match.ErrInvalidTransition },
			method: http.MethodPost,
			path:   "/api/matches/" + id + "/flip",
			want:   http.StatusConflict,
		},
		{
			name:   "unauthorized decider is 403",
			setup:  func(f *commandFixture) { f.matches.err = match.ErrUnauthorized },
			method: http.MethodPost,
			path:   "/api/matches/" + id + "/decide",
			body:   match.DecideFirstRequest{DeciderID: uuid.New(), FirstTeamID: uuid.New()},
			want:   http.StatusForbidden,
		},
		{
			name:   "exhausted question bank is 422",
			setup:  func(f *commandFixture) { f.matches.err = questions.ErrInsufficientContent },
			method: http.MethodPost,
			path:   "/api/matches",
			body:   match.CreateLiveMatchRequest{TeamAID: uuid.New(), TeamBID: uuid.New()},
			want:   http.StatusUnprocessableEntity,
		},
		{
			name:   "completed bracket match is 409",
			setup:  func(f *commandFixture) { f.tournaments.err = tournament.ErrAlreadyCompleted },
			method: http.MethodPost,
			path:   "/api/tournaments/" + id + "/matches/" + uuid.New().String() + "/result",
			body:   tournament.RecordResultRequest{},
			want:   http.StatusConflict,
		},
		{
			name:   "unknown team is 404",
			setup:  func(f *commandFixture) { f.teams.err = teams.ErrNotFound },
			method: http.MethodGet,
			path:   "/api/teams/" + id,
			want:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommandFixture()
			tt.setup(f)
			rec := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
