package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/finfootball/go/internal/gateway"
	"github.com/mcdev12/finfootball/go/internal/match"
	"github.com/mcdev12/finfootball/go/internal/match/scheduler"
	"github.com/mcdev12/finfootball/go/internal/outbox"
	"github.com/mcdev12/finfootball/go/internal/questions"
	"github.com/mcdev12/finfootball/go/internal/teams"
	"github.com/mcdev12/finfootball/go/internal/tournament"
)

type Services struct {
	Teams       *teams.App
	Questions   *questions.App
	Matches     *match.App
	Tournaments *tournament.App
	Outbox      *outbox.App
	OutboxRepo  *outbox.Repository
	Scheduler   *scheduler.Scheduler
	Finalizer   *scheduler.Finalizer
	Commands    *gateway.CommandHandler
}

func setupServices(database *sql.DB, config *Config) *Services {
	// Database layer → Repository layer → App layer
	clock := clockwork.NewRealClock()

	outboxRepo := outbox.NewRepository(database)
	outboxApp := outbox.NewApp(outboxRepo)

	teamsRepo := teams.NewRepository(database)
	teamsApp := teams.NewApp(teamsRepo)

	questionsRepo := questions.NewRepository(database)
	questionsApp := questions.NewApp(questionsRepo)

	matchRepo := match.NewRepository(database)
	matchApp := match.NewApp(matchRepo, questionsApp, outboxApp, clock, config.Game)

	tournamentRepo := tournament.NewRepository(database)
	tournamentApp := tournament.NewApp(tournamentRepo, teamsApp, matchApp, outboxApp, clock)

	// Completed matches flow back into the bracket
	finalizer := scheduler.NewFinalizer(matchApp, tournamentApp)
	matchApp.SetCompletedHandler(finalizer.HandleCompleted)

	sched := scheduler.NewScheduler(matchApp, clock, scheduler.Config{
		TickInterval:   config.Game.TickInterval(),
		HandlerTimeout: scheduler.DefaultConfig().HandlerTimeout,
	})

	commands := gateway.NewCommandHandler(matchApp, tournamentApp, teamsApp, questionsApp)

	return &Services{
		Teams:       teamsApp,
		Questions:   questionsApp,
		Matches:     matchApp,
		Tournaments: tournamentApp,
		Outbox:      outboxApp,
		OutboxRepo:  outboxRepo,
		Scheduler:   sched,
		Finalizer:   finalizer,
		Commands:    commands,
	}
}
