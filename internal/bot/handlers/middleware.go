package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChatAdminOnly rejects commands from non-administrators with the configured
// notice.
func ChatAdminOnly(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "chat_admin_only")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil || msg.From == nil {
				return
			}

			if !deps.Admins.IsAdmin(ctx, msg.Chat.ID, msg.From.ID) {
				log.DebugContext(ctx, "Rejected command from non-admin",
					"chat_id", msg.Chat.ID, "user_id", msg.From.ID)
				reply(ctx, b, log, msg, deps.Config.Messages.NotAuthorized)
				return
			}

			next(ctx, b, update)
		}
	}
}
