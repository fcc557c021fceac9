// Package handlers implements the chat commands: /top, /winners, /unmute
// and /id.
package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"groupwarden/internal/config"
	"groupwarden/internal/database"
	"groupwarden/internal/moderation"
	"groupwarden/internal/telegram"
)

// HandlerDeps holds dependencies required by command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Engine  *moderation.Engine
	Gateway *telegram.Gateway
	Admins  *telegram.AdminChecker
	Store   database.Store
}

// reply sends a plain reply in the message's chat; failures are logged, not
// surfaced, since there is nobody left to report them to.
func reply(ctx context.Context, b *tgbot.Bot, log *slog.Logger, msg *models.Message, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    msg.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to send command reply",
			"chat_id", msg.Chat.ID, "error", err)
	}
}
