package teams

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/rs/zerolog/log"
)

// TeamRepository defines what the teams app needs from storage
type TeamRepository interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	ApplyRecordDelta(ctx context.Context, id uuid.UUID, delta RecordDelta) (*models.Team, error)
}

// App handles team roster business logic
type App struct {
	repo TeamRepository
}

// NewApp creates a new teams App
func NewApp(repo TeamRepository) *App {
	return &App{repo: repo}
}

// CreateTeam registers a team on the roster.
func (a *App) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("team name is required")
	}
	team, err := a.repo.CreateTeam(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Info().Str("team_id", team.ID.String()).Str("name", team.Name).Msg("registered team")
	return team, nil
}

// GetTeam retrieves a team by ID
func (a *App) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return a.repo.GetTeam(ctx, id)
}

// ListTeams retrieves the full roster ordered by seed.
func (a *App) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return a.repo.ListTeams(ctx)
}

// ApplyRecordDelta accumulates a match outcome onto a team's aggregate
// record. Invoked by bracket result propagation and bye grants.
func (a *App) ApplyRecordDelta(ctx context.Context, id uuid.UUID, delta RecordDelta) (*models.Team, error) {
	team, err := a.repo.ApplyRecordDelta(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if team.Eliminated() {
		log.Info().Str("team_id", id.String()).Int("losses", team.Losses).Msg("team eliminated")
	}
	return team, nil
}
