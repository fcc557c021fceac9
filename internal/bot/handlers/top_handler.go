package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"groupwarden/internal/moderation"
)

// NewTopHandler replies with the sender's current rank and the leaderboard
// head for the running week.
func NewTopHandler(deps HandlerDeps) tgbot.HandlerFunc {
	log := deps.Logger.With("handler", "top")

	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil {
			return
		}
		chatID := msg.Chat.ID

		var sb strings.Builder

		rank, score, err := deps.Engine.Rank(chatID, msg.From.ID)
		switch {
		case errors.Is(err, moderation.ErrNoActivity):
			sb.WriteString(deps.Config.Messages.NoActivity)
			sb.WriteString("\n\n")
		case err != nil:
			log.ErrorContext(ctx, "Failed to compute rank",
				"chat_id", chatID, "user_id", msg.From.ID, "error", err)
			reply(ctx, b, log, msg, deps.Config.Messages.GeneralError)
			return
		default:
			fmt.Fprintf(&sb, deps.Config.Messages.RankReply, rank, score)
			sb.WriteString("\n\n")
		}

		top := deps.Engine.TopN(chatID, deps.Config.Moderation.LeaderboardSize)
		for i, entry := range top {
			name := deps.Gateway.MemberName(ctx, chatID, entry.UserID)
			fmt.Fprintf(&sb, "%d. %s — %d\n", i+1, name, entry.Score)
		}

		reply(ctx, b, log, msg, strings.TrimRight(sb.String(), "\n"))
	}
}
