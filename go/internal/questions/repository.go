package questions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// Repository implements question bank data access
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new questions repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateQuestion inserts a question into the bank.
func (r *Repository) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error) {
	optionsJSON, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question options: %w", err)
	}

	q := &models.Question{
		ID:         uuid.New(),
		Prompt:     req.Prompt,
		Options:    req.Options,
		CorrectKey: req.CorrectKey,
		Category:   req.Category,
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO questions (id, prompt, options, correct_key, category)
		VALUES ($1, $2, $3, $4, $5)`,
		q.ID, q.Prompt, optionsJSON, q.CorrectKey, q.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// DrawRandomQuestions returns up to count distinct questions in random order.
func (r *Repository) DrawRandomQuestions(ctx context.Context, count int) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, prompt, options, correct_key, category
		FROM questions
		ORDER BY random()
		LIMIT $1`,
		count,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to draw questions: %w", err)
	}
	defer rows.Close()

	var drawn []models.Question
	for rows.Next() {
		var q models.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.Prompt, &optionsJSON, &q.CorrectKey, &q.Category); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question options: %w", err)
		}
		drawn = append(drawn, q)
	}
	return drawn, rows.Err()
}

// CountQuestions returns the size of the question bank.
func (r *Repository) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
