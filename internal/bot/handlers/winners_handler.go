package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewWinnersHandler replies with the most recently archived weekly report
// for the chat.
func NewWinnersHandler(deps HandlerDeps) tgbot.HandlerFunc {
	log := deps.Logger.With("handler", "winners")

	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil {
			return
		}
		chatID := msg.Chat.ID

		winners, err := deps.Store.GetLatestWinners(ctx, chatID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to load winners", "chat_id", chatID, "error", err)
			reply(ctx, b, log, msg, deps.Config.Messages.GeneralError)
			return
		}
		if len(winners) == 0 {
			reply(ctx, b, log, msg, deps.Config.Messages.NoWinners)
			return
		}

		var sb strings.Builder
		sb.WriteString(deps.Config.Messages.WinnersHeader)
		for _, winner := range winners {
			name := deps.Gateway.MemberName(ctx, chatID, winner.UserID)
			fmt.Fprintf(&sb, "%d. %s — %d\n", winner.Position, name, winner.Score)
		}

		reply(ctx, b, log, msg, strings.TrimRight(sb.String(), "\n"))
	}
}
