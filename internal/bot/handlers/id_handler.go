package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewIDHandler replies with the chat's numeric identifier.
func NewIDHandler(deps HandlerDeps) tgbot.HandlerFunc {
	log := deps.Logger.With("handler", "id")

	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil {
			return
		}
		reply(ctx, b, log, msg, fmt.Sprintf("Chat ID: <code>%d</code>", msg.Chat.ID))
	}
}
