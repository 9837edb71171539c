package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// Worker drains the outbox table: fetch a locked batch, publish each event,
// mark the successes sent, commit.
type Worker struct {
	db        *sql.DB
	repo      *Repository
	publisher EventPublisher
	config    Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(database *sql.DB, repo *Repository, publisher EventPublisher, cfg Config) *Worker {
	return &Worker{
		db:        database,
		repo:      repo,
		publisher: publisher,
		config:    cfg,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int32("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	var total, successful int

	err := sqlutil.Run(ctx, w.db, func(tx *sql.Tx) error {
		events, err := w.repo.FetchUnsentOutbox(ctx, tx, w.config.BatchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		total = len(events)

		log.Debug().Int("count", len(events)).Msg("processing outbox events")

		var successfulIDs []uuid.UUID
		for _, event := range events {
			if err := w.publishWithRetry(ctx, event); err != nil {
				log.Error().
					Err(err).
					Str("event_id", event.ID.String()).
					Str("event_type", event.EventType).
					Msg("failed to publish event")
				continue
			}
			successfulIDs = append(successfulIDs, event.ID)
		}
		successful = len(successfulIDs)

		return w.repo.MarkOutboxSent(ctx, tx, successfulIDs)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to process outbox batch")
		return
	}

	if total > 0 {
		log.Info().
			Int("total", total).
			Int("successful", successful).
			Msg("processed outbox events")
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
