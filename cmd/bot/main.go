// Package main contains the entrypoint for the GroupWarden moderation bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"groupwarden/internal/bot"
	"groupwarden/internal/bot/handlers"
	"groupwarden/internal/bot/tasks"
	"groupwarden/internal/config"
	"groupwarden/internal/database"
	"groupwarden/internal/logger"
	"groupwarden/internal/moderation"
	"groupwarden/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the bot, and blocks until shutdown.
// It returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	clock := moderation.SystemClock()
	engine := moderation.NewEngine(moderation.Config{
		GracePeriod:        cfg.Moderation.GracePeriod,
		SpamLimit:          cfg.Moderation.SpamLimit,
		SpamInterval:       cfg.Moderation.SpamInterval,
		MuteDuration:       cfg.Moderation.MuteDuration,
		LeaderboardSize:    cfg.Moderation.LeaderboardSize,
		CountAdminMessages: cfg.Moderation.CountAdminMessages,
	}, clock, log)

	// The moderation pipeline needs the gateway, which in turn needs the bot
	// client, so the default handler is bound after the client exists. Updates
	// only start flowing once Run calls Start.
	var pipeline tgbot.HandlerFunc
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if pipeline != nil {
				pipeline(ctx, b, update)
			}
		}),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	gateway := telegram.NewGateway(tg, log)
	admins := telegram.NewAdminChecker(tg, clock, cfg.Telegram.AdminCacheTTL, log)
	pipeline = telegram.NewUpdateHandler(telegram.UpdateHandlerDeps{
		Logger:  log,
		Config:  cfg,
		Engine:  engine,
		Gateway: gateway,
		Admins:  admins,
		Store:   store,
		Clock:   clock,
	})

	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Engine:  engine,
		Gateway: gateway,
		Admins:  admins,
		Store:   store,
	}
	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		Engine:  engine,
		Gateway: gateway,
		Store:   store,
		Clock:   clock,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, store, engine, tg, sched)

	log.Info("Starting bot")
	runErr := app.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return 1
	}
	return 0
}
