// Package bot implements the core bot lifecycle: it runs the Telegram
// listener and the rollover scheduler side by side and shuts both down
// together.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"groupwarden/internal/config"
	"groupwarden/internal/database"
	"groupwarden/internal/moderation"
)

// Bot represents the application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	store     database.Store
	engine    *moderation.Engine
	tgBot     *tgbot.Bot
	scheduler *Scheduler
}

// NewBot creates a bot instance with all required dependencies.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	store database.Store,
	engine *moderation.Engine,
	tgBot *tgbot.Bot,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		store:     store,
		engine:    engine,
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run starts the listener and the scheduler and blocks until the context is
// cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram listener")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram listener stopped")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot stopped gracefully")
	return nil
}
