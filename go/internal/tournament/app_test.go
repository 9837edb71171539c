package tournament

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/mcdev12/finfootball/go/internal/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTournamentRepo struct {
	mu    sync.Mutex
	saved map[uuid.UUID]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{saved: make(map[uuid.UUID]*models.Tournament)}
}

func (r *fakeTournamentRepo) SaveTournament(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.saved[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneTournament(t), nil
}

func (r *fakeTournamentRepo) ListActiveTournaments(ctx context.Context) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Tournament
	for _, t := range r.saved {
		if t.Status != models.TournamentStatusCompleted {
			out = append(out, cloneTournament(t))
		}
	}
	return out, nil
}

type fakeRoster struct {
	mu     sync.Mutex
	teams  map[uuid.UUID]*models.Team
	deltas map[uuid.UUID]teams.RecordDelta
}

func newFakeRoster(roster []*models.Team) *fakeRoster {
	r := &fakeRoster{
		teams:  make(map[uuid.UUID]*models.Team),
		deltas: make(map[uuid.UUID]teams.RecordDelta),
	}
	for _, team := range roster {
		r.teams[team.ID] = team
	}
	return r
}

func (r *fakeRoster) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w: team %s", teams.ErrNotFound, id)
	}
	cp := *team
	return &cp, nil
}

func (r *fakeRoster) ApplyRecordDelta(ctx context.Context, id uuid.UUID, delta teams.RecordDelta) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := r.deltas[id]
	total.Wins += delta.Wins
	total.Losses += delta.Losses
	total.ScoreDelta += delta.ScoreDelta
	r.deltas[id] = total
	team := r.teams[id]
	cp := *team
	return &cp, nil
}

func (r *fakeRoster) deltaFor(id uuid.UUID) teams.RecordDelta {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deltas[id]
}

type fakeMatchCreator struct {
	mu       sync.Mutex
	err      error
	requests []match.CreateLiveMatchRequest
}

func (c *fakeMatchCreator) CreateLiveMatch(ctx context.Context, req match.CreateLiveMatchRequest) (*models.LiveMatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.requests = append(c.requests, req)
	return &models.LiveMatch{ID: uuid.New()}, nil
}

func (c *fakeMatchCreator) spawned() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

type fakeTournamentOutbox struct {
	mu         sync.Mutex
	updated    int
	completed  int
	updatedErr error
}

func (o *fakeTournamentOutbox) InsertTournamentUpdated(ctx context.Context, tournamentID uuid.UUID, payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.updatedErr != nil {
		return o.updatedErr
	}
	o.updated++
	return nil
}

func (o *fakeTournamentOutbox) InsertTournamentCompleted(ctx context.Context, tournamentID uuid.UUID, payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed++
	return nil
}

type tournamentFixture struct {
	app     *App
	repo    *fakeTournamentRepo
	roster  *fakeRoster
	creator *fakeMatchCreator
	outbox  *fakeTournamentOutbox
	teams   []*models.Team
}

func newTournamentFixture(t *testing.T, teamCount int) *tournamentFixture {
	t.Helper()
	roster := makeTeams(teamCount)
	f := &tournamentFixture{
		repo:    newFakeTournamentRepo(),
		roster:  newFakeRoster(roster),
		creator: &fakeMatchCreator{},
		outbox:  &fakeTournamentOutbox{},
		teams:   roster,
	}
	f.app = NewApp(f.repo, f.roster, f.creator, f.outbox, clockwork.NewFakeClock())
	return f
}

func (f *tournamentFixture) create(t *testing.T) *models.Tournament {
	t.Helper()
	ids := make([]uuid.UUID, len(f.teams))
	for i, team := range f.teams {
		ids[i] = team.ID
	}
	tn, err := f.app.CreateTournament(context.Background(), CreateTournamentRequest{Name: "Spring Cup", TeamIDs: ids})
	require.NoError(t, err)
	return tn
}

func (f *tournamentFixture) record(t *testing.T, tournamentID uuid.UUID, label string, winner, loser uuid.UUID) *models.Tournament {
	t.Helper()
	tn, err := f.app.GetTournament(context.Background(), tournamentID)
	require.NoError(t, err)
	m := matchByLabel(t, tn, label)
	updated, err := f.app.RecordResult(context.Background(), tournamentID, m.ID, RecordResultRequest{
		WinnerID: &winner,
		LoserID:  &loser,
		Scores:   map[uuid.UUID]int{winner: 9, loser: 3},
	})
	require.NoError(t, err)
	return updated
}

func TestCreateTournament(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)

	assert.Equal(t, "Spring Cup", tn.Name)
	assert.Equal(t, models.TournamentStatusSetup, tn.Status)
	assert.Len(t, tn.Matches, 7)
	assert.Len(t, tn.Teams, 4)

	// persisted and announced, nothing spawned while in setup
	f.repo.mu.Lock()
	_, persisted := f.repo.saved[tn.ID]
	f.repo.mu.Unlock()
	assert.True(t, persisted)
	assert.Zero(t, f.creator.spawned())
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture(t, 4)
	ctx := context.Background()

	_, err := f.app.CreateTournament(ctx, CreateTournamentRequest{TeamIDs: []uuid.UUID{uuid.New()}})
	assert.Error(t, err)

	// every roster id must resolve
	_, err = f.app.CreateTournament(ctx, CreateTournamentRequest{Name: "Ghost Cup", TeamIDs: []uuid.UUID{uuid.New(), uuid.New()}})
	assert.ErrorIs(t, err, teams.ErrNotFound)
}

func TestCreateTournamentOutboxFailureSurfaces(t *testing.T) {
	f := newTournamentFixture(t, 4)
	insertErr := fmt.Errorf("outbox insert failed")
	f.outbox.mu.Lock()
	f.outbox.updatedErr = insertErr
	f.outbox.mu.Unlock()

	ids := make([]uuid.UUID, len(f.teams))
	for i, team := range f.teams {
		ids[i] = team.ID
	}
	_, err := f.app.CreateTournament(context.Background(), CreateTournamentRequest{Name: "Doomed Cup", TeamIDs: ids})
	assert.ErrorIs(t, err, insertErr)
}

func TestLaunchSpawnsRoundOne(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)

	launched, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TournamentStatusActive, launched.Status)
	assert.Equal(t, 2, f.creator.spawned())
	for _, label := range []string{"W1-1", "W1-2"} {
		m := matchByLabel(t, launched, label)
		assert.Equal(t, models.MatchStatusActive, m.Status, label)
		assert.NotNil(t, m.LiveMatchID, label)
	}

	// spawned matches carry their bracket coordinates
	req := f.creator.requests[0]
	require.NotNil(t, req.TournamentID)
	assert.Equal(t, tn.ID, *req.TournamentID)
	require.NotNil(t, req.TournamentMatchID)

	_, err = f.app.Launch(context.Background(), tn.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLaunchResolvesSystemByes(t *testing.T) {
	f := newTournamentFixture(t, 3)
	tn := f.create(t)

	launched, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	// the third team advances without playing
	w12 := matchByLabel(t, launched, "W1-2")
	assert.Equal(t, models.MatchStatusCompleted, w12.Status)
	assert.True(t, w12.ByeAwarded)
	require.NotNil(t, w12.WinnerID)
	assert.Equal(t, f.teams[2].ID, *w12.WinnerID)
	require.Len(t, w12.History, 1)
	assert.True(t, w12.History[0].Bye)

	w21 := matchByLabel(t, launched, "W2-1")
	require.NotNil(t, w21.Teams[1])
	assert.Equal(t, f.teams[2].ID, *w21.Teams[1])

	// a bye produces no loser; the losers-bracket slot it feeds is void
	l11 := matchByLabel(t, launched, "L1-1")
	assert.True(t, l11.SlotVoid[1])

	// no win is charged for a system bye
	assert.Zero(t, f.roster.deltaFor(f.teams[2].ID).Wins)
}

func TestLaunchSurvivesSpawnFailure(t *testing.T) {
	f := newTournamentFixture(t, 4)
	f.creator.err = fmt.Errorf("question bank empty")
	tn := f.create(t)

	launched, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	// matches stay scheduled for a manual attach
	for _, label := range []string{"W1-1", "W1-2"} {
		m := matchByLabel(t, launched, label)
		assert.Equal(t, models.MatchStatusScheduled, m.Status, label)
		assert.Nil(t, m.LiveMatchID, label)
	}
}

func TestRecordResultPropagates(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	teamA, teamB, teamC, teamD := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID, f.teams[3].ID
	_, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	updated := f.record(t, tn.ID, "W1-1", teamA, teamB)

	w11 := matchByLabel(t, updated, "W1-1")
	assert.Equal(t, models.MatchStatusCompleted, w11.Status)
	assert.Equal(t, teamA, *w11.WinnerID)
	require.Len(t, w11.History, 1)
	assert.Equal(t, 9, w11.History[0].Scores[teamA])

	// winner waits in the winners final, loser drops down
	w21 := matchByLabel(t, updated, "W2-1")
	require.NotNil(t, w21.Teams[0])
	assert.Equal(t, teamA, *w21.Teams[0])
	l11 := matchByLabel(t, updated, "L1-1")
	require.NotNil(t, l11.Teams[0])
	assert.Equal(t, teamB, *l11.Teams[0])

	// records accumulate on roster and tournament copies
	assert.Equal(t, teams.RecordDelta{Wins: 1, ScoreDelta: 9}, f.roster.deltaFor(teamA))
	assert.Equal(t, teams.RecordDelta{Losses: 1, ScoreDelta: 3}, f.roster.deltaFor(teamB))
	assert.Equal(t, 1, updated.Teams[teamA].Wins)

	// second result fills both downstream matches and spawns them
	updated = f.record(t, tn.ID, "W1-2", teamC, teamD)
	assert.Equal(t, models.MatchStatusActive, matchByLabel(t, updated, "W2-1").Status)
	assert.Equal(t, models.MatchStatusActive, matchByLabel(t, updated, "L1-1").Status)
	assert.Equal(t, 4, f.creator.spawned())
}

func TestRecordResultValidation(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	ctx := context.Background()
	teamA, teamB := f.teams[0].ID, f.teams[1].ID
	w11 := matchByLabel(t, tn, "W1-1")

	// unknown match
	_, err := f.app.RecordResult(ctx, tn.ID, uuid.New(), RecordResultRequest{WinnerID: &teamA, LoserID: &teamB})
	assert.ErrorIs(t, err, ErrNotFound)

	// half a result is no result
	_, err = f.app.RecordResult(ctx, tn.ID, w11.ID, RecordResultRequest{WinnerID: &teamA})
	assert.ErrorIs(t, err, ErrInvalidState)

	// both teams must actually play in the match
	stranger := f.teams[2].ID
	_, err = f.app.RecordResult(ctx, tn.ID, w11.ID, RecordResultRequest{WinnerID: &stranger, LoserID: &teamB})
	assert.ErrorIs(t, err, ErrInvalidState)

	// completed matches take no further results
	f.record(t, tn.ID, "W1-1", teamA, teamB)
	_, err = f.app.RecordResult(ctx, tn.ID, w11.ID, RecordResultRequest{WinnerID: &teamA, LoserID: &teamB})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestRecordResultTieReschedules(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	teamA, teamB := f.teams[0].ID, f.teams[1].ID
	_, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	w11 := matchByLabel(t, tn, "W1-1")
	updated, err := f.app.RecordResult(context.Background(), tn.ID, w11.ID, RecordResultRequest{
		Scores: map[uuid.UUID]int{teamA: 6, teamB: 6},
	})
	require.NoError(t, err)

	m := matchByLabel(t, updated, "W1-1")
	assert.Equal(t, models.MatchStatusScheduled, m.Status)
	assert.Nil(t, m.WinnerID)
	assert.Nil(t, m.LiveMatchID)
	require.Len(t, m.History, 1)
	assert.True(t, m.History[0].Tie)

	// nothing advanced
	assert.False(t, matchByLabel(t, updated, "W2-1").FullySeeded())

	// points still count toward season totals
	assert.Equal(t, teams.RecordDelta{ScoreDelta: 6}, f.roster.deltaFor(teamA))
	assert.Equal(t, teams.RecordDelta{ScoreDelta: 6}, f.roster.deltaFor(teamB))
}

func TestFourTeamRunToChampion(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	teamA, teamB, teamC, teamD := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID, f.teams[3].ID
	_, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	f.record(t, tn.ID, "W1-1", teamA, teamB)
	f.record(t, tn.ID, "W1-2", teamC, teamD)
	f.record(t, tn.ID, "W2-1", teamA, teamC)
	updated := f.record(t, tn.ID, "L1-1", teamB, teamD)

	// D lost twice and is out
	assert.True(t, updated.Teams[teamD].Eliminated())
	assert.False(t, updated.Teams[teamB].Eliminated())

	updated = f.record(t, tn.ID, "L2-1", teamB, teamC)
	gf := matchByLabel(t, updated, "GF")
	assert.Equal(t, models.MatchStatusActive, gf.Status)
	assert.Equal(t, teamA, *gf.Teams[0])
	assert.Equal(t, teamB, *gf.Teams[1])

	// the winners-bracket representative takes the grand final outright
	updated = f.record(t, tn.ID, "GF", teamA, teamB)
	assert.Equal(t, models.TournamentStatusCompleted, updated.Status)
	require.NotNil(t, updated.ChampionID)
	assert.Equal(t, teamA, *updated.ChampionID)
	assert.Equal(t, models.MatchStatusPending, matchByLabel(t, updated, "GF-RESET").Status)

	f.outbox.mu.Lock()
	completed := f.outbox.completed
	f.outbox.mu.Unlock()
	assert.Equal(t, 1, completed)
}

func TestThreeTeamRunToChampion(t *testing.T) {
	f := newTournamentFixture(t, 3)
	tn := f.create(t)
	teamA, teamB, teamC := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID
	_, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	// the W1-1 loser lands against the void slot left by C's launch bye and
	// advances immediately instead of waiting for an opponent that can never
	// arrive
	updated := f.record(t, tn.ID, "W1-1", teamA, teamB)
	l11 := matchByLabel(t, updated, "L1-1")
	assert.Equal(t, models.MatchStatusCompleted, l11.Status)
	assert.True(t, l11.ByeAwarded)
	require.NotNil(t, l11.WinnerID)
	assert.Equal(t, teamB, *l11.WinnerID)

	l21 := matchByLabel(t, updated, "L2-1")
	require.NotNil(t, l21.Teams[1])
	assert.Equal(t, teamB, *l21.Teams[1])

	// advancing past a void slot charges no win
	assert.Zero(t, f.roster.deltaFor(teamB).Wins)

	updated = f.record(t, tn.ID, "W2-1", teamA, teamC)
	assert.Equal(t, models.MatchStatusActive, matchByLabel(t, updated, "L2-1").Status)

	updated = f.record(t, tn.ID, "L2-1", teamC, teamB)
	assert.True(t, updated.Teams[teamB].Eliminated())
	assert.Equal(t, models.MatchStatusActive, matchByLabel(t, updated, "GF").Status)

	updated = f.record(t, tn.ID, "GF", teamA, teamC)
	assert.Equal(t, models.TournamentStatusCompleted, updated.Status)
	require.NotNil(t, updated.ChampionID)
	assert.Equal(t, teamA, *updated.ChampionID)
}

func TestFiveTeamRunToChampion(t *testing.T) {
	f := newTournamentFixture(t, 5)
	tn := f.create(t)
	teamA, teamB, teamC := f.teams[0].ID, f.teams[1].ID, f.teams[2].ID
	teamD, teamE := f.teams[3].ID, f.teams[4].ID
	launched, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	// E byes through the empty half of the winners bracket straight into the
	// winners final
	w31 := matchByLabel(t, launched, "W3-1")
	require.NotNil(t, w31.Teams[1])
	assert.Equal(t, teamE, *w31.Teams[1])

	f.record(t, tn.ID, "W1-1", teamA, teamB)
	f.record(t, tn.ID, "W1-2", teamC, teamD)
	f.record(t, tn.ID, "W2-1", teamA, teamC)
	f.record(t, tn.ID, "L1-1", teamB, teamD)

	// C drops into a losers round whose other feeder died at launch; the
	// bye resolves mid-bracket and C moves straight on
	updated := f.record(t, tn.ID, "L2-1", teamC, teamB)
	l31 := matchByLabel(t, updated, "L3-1")
	assert.Equal(t, models.MatchStatusCompleted, l31.Status)
	assert.True(t, l31.ByeAwarded)
	require.NotNil(t, l31.WinnerID)
	assert.Equal(t, teamC, *l31.WinnerID)

	f.record(t, tn.ID, "W3-1", teamA, teamE)
	updated = f.record(t, tn.ID, "L4-1", teamC, teamE)
	assert.True(t, updated.Teams[teamE].Eliminated())

	updated = f.record(t, tn.ID, "GF", teamA, teamC)
	assert.Equal(t, models.TournamentStatusCompleted, updated.Status)
	require.NotNil(t, updated.ChampionID)
	assert.Equal(t, teamA, *updated.ChampionID)
}

func TestGrandFinalBracketReset(t *testing.T) {
	f := newTournamentFixture(t, 2)
	tn := f.create(t)
	teamA, teamB := f.teams[0].ID, f.teams[1].ID
	_, err := f.app.Launch(context.Background(), tn.ID)
	require.NoError(t, err)

	f.record(t, tn.ID, "W1-1", teamA, teamB)

	// the losers-bracket side taking the grand final forces one more match
	updated := f.record(t, tn.ID, "GF", teamB, teamA)
	assert.Equal(t, models.TournamentStatusActive, updated.Status)
	assert.Nil(t, updated.ChampionID)

	reset := matchByLabel(t, updated, "GF-RESET")
	require.True(t, reset.FullySeeded())
	assert.Equal(t, teamA, *reset.Teams[0])
	assert.Equal(t, teamB, *reset.Teams[1])

	updated = f.record(t, tn.ID, "GF-RESET", teamB, teamA)
	assert.Equal(t, models.TournamentStatusCompleted, updated.Status)
	assert.Equal(t, teamB, *updated.ChampionID)
}

func TestGrantBye(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	teamA, teamB := f.teams[0].ID, f.teams[1].ID
	ctx := context.Background()

	w11 := matchByLabel(t, tn, "W1-1")
	updated, err := f.app.GrantBye(ctx, tn.ID, w11.ID, GrantByeRequest{TeamID: teamA})
	require.NoError(t, err)

	m := matchByLabel(t, updated, "W1-1")
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	assert.True(t, m.ByeAwarded)
	assert.Equal(t, teamA, *m.WinnerID)

	// an administrative bye charges the opponent a real loss
	assert.Equal(t, 1, f.roster.deltaFor(teamB).Losses)
	assert.Equal(t, 1, updated.Teams[teamB].Losses)

	// the forfeiting team still drops into the losers bracket
	l11 := matchByLabel(t, updated, "L1-1")
	require.NotNil(t, l11.Teams[0])
	assert.Equal(t, teamB, *l11.Teams[0])
}

func TestGrantByeValidation(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	ctx := context.Background()

	// pending matches cannot take byes
	w21 := matchByLabel(t, tn, "W2-1")
	_, err := f.app.GrantBye(ctx, tn.ID, w21.ID, GrantByeRequest{TeamID: f.teams[0].ID})
	assert.ErrorIs(t, err, ErrInvalidState)

	// the team must play in the match
	w11 := matchByLabel(t, tn, "W1-1")
	_, err = f.app.GrantBye(ctx, tn.ID, w11.ID, GrantByeRequest{TeamID: f.teams[2].ID})
	assert.ErrorIs(t, err, ErrNotFound)

	// a linked live match blocks administrative byes
	_, err = f.app.AttachLiveMatch(ctx, tn.ID, w11.ID, uuid.New())
	require.NoError(t, err)
	_, err = f.app.GrantBye(ctx, tn.ID, w11.ID, GrantByeRequest{TeamID: f.teams[0].ID})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAttachLiveMatch(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	ctx := context.Background()
	liveID := uuid.New()

	w11 := matchByLabel(t, tn, "W1-1")
	updated, err := f.app.AttachLiveMatch(ctx, tn.ID, w11.ID, liveID)
	require.NoError(t, err)

	m := matchByLabel(t, updated, "W1-1")
	assert.Equal(t, models.MatchStatusActive, m.Status)
	assert.Equal(t, liveID, *m.LiveMatchID)

	// one live match per bracket match
	_, err = f.app.AttachLiveMatch(ctx, tn.ID, w11.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListStagesAndMatches(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)
	ctx := context.Background()

	stages, err := f.app.ListStages(ctx, tn.ID)
	require.NoError(t, err)
	require.Len(t, stages, 5)
	for i := 1; i < len(stages); i++ {
		assert.Less(t, stages[i-1].Order, stages[i].Order)
	}

	matches, err := f.app.ListMatchesForStage(ctx, tn.ID, stages[0].ID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = f.app.ListMatchesForStage(ctx, tn.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntryLazyLoadsFromStorage(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)

	// a fresh app sharing the repo finds the tournament on demand
	restarted := NewApp(f.repo, f.roster, f.creator, f.outbox, clockwork.NewFakeClock())
	got, err := restarted.GetTournament(context.Background(), tn.ID)
	require.NoError(t, err)
	assert.Equal(t, tn.ID, got.ID)

	_, err = restarted.GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecover(t *testing.T) {
	f := newTournamentFixture(t, 4)
	tn := f.create(t)

	restarted := NewApp(f.repo, f.roster, f.creator, f.outbox, clockwork.NewFakeClock())
	require.NoError(t, restarted.Recover(context.Background()))

	got, err := restarted.GetTournament(context.Background(), tn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusSetup, got.Status)
}
