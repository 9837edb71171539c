package tournament

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// Repository persists tournament brackets as full JSONB snapshots. The
// in-memory registry is the source of truth while the process runs; storage
// exists for durability and restart recovery.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new tournament repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveTournament upserts the full snapshot of a tournament.
func (r *Repository) SaveTournament(ctx context.Context, t *models.Tournament) error {
	snapshot, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, status, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    snapshot = EXCLUDED.snapshot,
		    updated_at = EXCLUDED.updated_at`,
		t.ID, t.Name, string(t.Status), snapshot, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save tournament: %w", err)
	}
	return nil
}

// GetTournament loads one tournament snapshot by id.
func (r *Repository) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	var snapshot []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM tournaments WHERE id = $1`, id,
	).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	var t models.Tournament
	if err := json.Unmarshal(snapshot, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament snapshot: %w", err)
	}
	return &t, nil
}

// ListActiveTournaments loads every non-completed tournament, for restart
// recovery.
func (r *Repository) ListActiveTournaments(ctx context.Context) ([]*models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT snapshot FROM tournaments WHERE status != $1 ORDER BY updated_at`,
		string(models.TournamentStatusCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		var snapshot []byte
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		var t models.Tournament
		if err := json.Unmarshal(snapshot, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tournament snapshot: %w", err)
		}
		tournaments = append(tournaments, &t)
	}
	return tournaments, rows.Err()
}
