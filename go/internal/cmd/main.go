package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/finfootball/go/internal/gateway"
	"github.com/mcdev12/finfootball/go/internal/outbox"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	services := setupServices(database, config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reload in-flight matches and brackets before accepting traffic
	if err := services.Matches.Recover(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to recover live matches")
	}
	if err := services.Tournaments.Recover(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to recover tournaments")
	}

	// Outbox drain to JetStream
	jsConfig := outbox.DefaultJetStreamConfig()
	jsConfig.URL = config.NATS.URL
	publisher, err := outbox.NewJetStreamPublisher(jsConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create JetStream publisher")
	}
	defer publisher.Close()

	outboxWorker := outbox.NewWorker(database, services.OutboxRepo, publisher, outbox.Config{
		PollInterval: config.OutboxPollInterval(),
		BatchSize:    config.Outbox.BatchSize,
		MaxRetries:   outbox.DefaultConfig().MaxRetries,
		RetryDelay:   outbox.DefaultConfig().RetryDelay,
	})
	if err := outboxWorker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start outbox worker")
	}
	defer outboxWorker.Stop()

	// Timer sweep loop
	if err := services.Scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer services.Scheduler.Stop()

	// WebSocket fanout
	connectionManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go connectionManager.Start(ctx)

	consumerConfig := gateway.DefaultJetStreamConsumerConfig()
	consumerConfig.URL = config.NATS.URL
	eventConsumer, err := gateway.NewEventConsumer(connectionManager, consumerConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event consumer")
	}
	go func() {
		if err := eventConsumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event consumer stopped")
		}
	}()
	defer eventConsumer.Stop()

	wsHandler := gateway.NewWebSocketHandler(connectionManager)
	server := setupServer(services, wsHandler, config.Server.Port)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	cancel()
}
