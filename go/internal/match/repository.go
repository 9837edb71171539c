package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/models"
	"github.com/mcdev12/finfootball/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Repository persists live match snapshots for durability and restart
// recovery. State is stored as a full JSONB snapshot keyed by match id; the
// in-memory registry remains the source of truth while the process runs.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new live match repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveLiveMatch upserts the full snapshot of a live match.
func (r *Repository) SaveLiveMatch(ctx context.Context, m *models.LiveMatch) error {
	snapshot, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal live match snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO live_matches (id, status, tournament_match_id, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    snapshot = EXCLUDED.snapshot,
		    updated_at = EXCLUDED.updated_at`,
		m.ID, string(m.Status), sqlutil.ToNullUUID(m.TournamentMatchID), snapshot, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save live match: %w", err)
	}
	return nil
}

// GetLiveMatch loads one live match snapshot by id.
func (r *Repository) GetLiveMatch(ctx context.Context, id uuid.UUID) (*models.LiveMatch, error) {
	var snapshot []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM live_matches WHERE id = $1`, id,
	).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get live match: %w", err)
	}

	var m models.LiveMatch
	if err := json.Unmarshal(snapshot, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal live match snapshot: %w", err)
	}
	return &m, nil
}

// ListActiveLiveMatches loads every match that has not completed, for restart
// recovery.
func (r *Repository) ListActiveLiveMatches(ctx context.Context) ([]*models.LiveMatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT snapshot FROM live_matches WHERE status != $1 ORDER BY updated_at`,
		string(models.LiveMatchStatusCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active live matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.LiveMatch
	for rows.Next() {
		var snapshot []byte
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan live match row: %w", err)
		}
		var m models.LiveMatch
		if err := json.Unmarshal(snapshot, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal live match snapshot: %w", err)
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// SaveFinalResult stores the terminal outcome next to the snapshot. The
// result column stays NULL until finalization.
func (r *Repository) SaveFinalResult(ctx context.Context, result FinalResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal final result: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE live_matches SET result = $2 WHERE id = $1`,
		result.MatchID, pqtype.NullRawMessage{RawMessage: payload, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("failed to save final result: %w", err)
	}
	return nil
}

// GetFinalResult loads the terminal outcome of a finalized match, or
// ErrNotFound while the result column is still NULL.
func (r *Repository) GetFinalResult(ctx context.Context, id uuid.UUID) (*FinalResult, error) {
	var raw pqtype.NullRawMessage
	err := r.db.QueryRowContext(ctx,
		`SELECT result FROM live_matches WHERE id = $1`, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get final result: %w", err)
	}
	if !raw.Valid {
		return nil, fmt.Errorf("%w: match %s has no final result", ErrNotFound, id)
	}

	var result FinalResult
	if err := json.Unmarshal(raw.RawMessage, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal final result: %w", err)
	}
	return &result, nil
}
