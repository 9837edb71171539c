package questions

import (
	"context"
	"fmt"

	"github.com/mcdev12/finfootball/go/internal/models"
)

// QuestionRepository defines what the questions app needs from storage
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error)
	DrawRandomQuestions(ctx context.Context, count int) ([]models.Question, error)
	CountQuestions(ctx context.Context) (int, error)
}

// App handles question bank business logic
type App struct {
	repo QuestionRepository
}

// NewApp creates a new questions App
func NewApp(repo QuestionRepository) *App {
	return &App{repo: repo}
}

// CreateQuestion validates and adds a question to the bank.
func (a *App) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}
	return a.repo.CreateQuestion(ctx, req)
}

// DrawQuestions returns exactly count unique questions in shuffled order.
// A short draw means the bank is exhausted and signals
// ErrInsufficientContent so no unfinishable match gets created.
func (a *App) DrawQuestions(ctx context.Context, count int) ([]models.Question, error) {
	drawn, err := a.repo.DrawRandomQuestions(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("failed to draw questions: %w", err)
	}
	if len(drawn) < count {
		return nil, fmt.Errorf("%w: need %d questions, bank has %d", ErrInsufficientContent, count, len(drawn))
	}
	return drawn, nil
}
