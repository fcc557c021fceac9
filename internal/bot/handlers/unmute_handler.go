package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"groupwarden/internal/database"
	"groupwarden/internal/moderation"
)

// NewUnmuteHandler lifts a mute ahead of schedule. The target is taken from
// the replied-to message, or from a numeric argument: /unmute 12345.
func NewUnmuteHandler(deps HandlerDeps) tgbot.HandlerFunc {
	log := deps.Logger.With("handler", "unmute")

	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil {
			return
		}
		chatID := msg.Chat.ID

		userID, ok := unmuteTarget(msg)
		if !ok {
			reply(ctx, b, log, msg, deps.Config.Messages.UnmuteUsage)
			return
		}

		if err := deps.Engine.Unmute(chatID, userID); err != nil {
			if errors.Is(err, moderation.ErrInvalidTarget) {
				reply(ctx, b, log, msg, deps.Config.Messages.UnmuteUsage)
				return
			}
			log.ErrorContext(ctx, "Failed to lift mute",
				"chat_id", chatID, "user_id", userID, "error", err)
			reply(ctx, b, log, msg, deps.Config.Messages.GeneralError)
			return
		}

		if err := deps.Gateway.ApplyUnmute(ctx, chatID, userID); err != nil {
			log.WarnContext(ctx, "Failed to lift platform restriction",
				"chat_id", chatID, "user_id", userID, "error", err)
		}

		event := &database.ModerationEvent{
			ChatID:    chatID,
			UserID:    userID,
			MessageID: int64(msg.ID),
			Action:    database.ActionUnmute,
		}
		if err := deps.Store.RecordModerationEvent(ctx, event); err != nil {
			log.WarnContext(ctx, "Failed to record unmute event",
				"chat_id", chatID, "user_id", userID, "error", err)
		}

		reply(ctx, b, log, msg, deps.Config.Messages.UnmuteDone)
	}
}

func unmuteTarget(msg *models.Message) (int64, bool) {
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From.ID, true
	}

	fields := strings.Fields(msg.Text)
	if len(fields) < 2 {
		return 0, false
	}
	userID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}
