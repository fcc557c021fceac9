// Package telegram implements the messaging-platform gateway: the bot
// client, the platform side effects behind moderation decisions, and the
// inbound update pipeline feeding the moderation engine.
package telegram

import (
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
)

// NewTelegramBot creates the underlying Telegram bot client with the given
// options.
func NewTelegramBot(token string, log *slog.Logger, opts ...tgbot.Option) (*tgbot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}

	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot client created")
	return b, nil
}

// RegisteredHandler represents a command handler with its registration
// parameters and middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	MatchType   tgbot.MatchType
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
}

// RegisterHandlers attaches all command handlers to the bot.
func RegisterHandlers(b *tgbot.Bot, log *slog.Logger, handlers map[string]RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance is nil")
	}

	for name, h := range handlers {
		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, h.Handler, h.Middleware...)
		log.Debug("Registered command handler", "command", name)
	}

	log.Info("Command handlers registered", "count", len(handlers))
	return nil
}
