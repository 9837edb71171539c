package teams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// Repository implements team roster data access
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new teams repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateTeam registers a new team.
func (r *Repository) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	team := &models.Team{
		ID:      uuid.New(),
		Name:    req.Name,
		Members: req.Members,
		Seed:    req.Seed,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO teams (id, name, members, seed, wins, losses, total_score)
		VALUES ($1, $2, $3, $4, 0, 0, 0)
		RETURNING created_at, updated_at`,
		team.ID, team.Name, pq.Array(team.Members), team.Seed,
	).Scan(&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := r.scanTeam(r.db.QueryRowContext(ctx, `
		SELECT id, name, members, seed, wins, losses, total_score, created_at, updated_at
		FROM teams WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// ListTeams retrieves the full roster ordered by seed.
func (r *Repository) ListTeams(ctx context.Context) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, members, seed, wins, losses, total_score, created_at, updated_at
		FROM teams ORDER BY seed, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var roster []*models.Team
	for rows.Next() {
		team, err := r.scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		roster = append(roster, team)
	}
	return roster, rows.Err()
}

// ApplyRecordDelta accumulates wins/losses/score onto a team's record.
func (r *Repository) ApplyRecordDelta(ctx context.Context, id uuid.UUID, delta RecordDelta) (*models.Team, error) {
	team, err := r.scanTeam(r.db.QueryRowContext(ctx, `
		UPDATE teams
		SET wins = wins + $2,
		    losses = losses + $3,
		    total_score = total_score + $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, members, seed, wins, losses, total_score, created_at, updated_at`,
		id, delta.Wins, delta.Losses, delta.ScoreDelta))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply record delta: %w", err)
	}
	return team, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanTeam(row rowScanner) (*models.Team, error) {
	var team models.Team
	var members pq.StringArray
	if err := row.Scan(&team.ID, &team.Name, &members, &team.Seed,
		&team.Wins, &team.Losses, &team.TotalScore, &team.CreatedAt, &team.UpdatedAt); err != nil {
		return nil, err
	}
	team.Members = members
	return &team, nil
}
