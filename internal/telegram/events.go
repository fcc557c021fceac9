package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"groupwarden/internal/config"
	"groupwarden/internal/database"
	"groupwarden/internal/moderation"
)

// UpdateHandlerDeps provides dependencies for the inbound update pipeline.
type UpdateHandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Engine  *moderation.Engine
	Gateway *Gateway
	Admins  *AdminChecker
	Store   database.Store
	Clock   moderation.Clock
}

// NewUpdateHandler returns the default handler that routes group traffic
// through the moderation engine and carries out the resulting side effects.
func NewUpdateHandler(deps UpdateHandlerDeps) tgbot.HandlerFunc {
	if deps.Clock == nil {
		deps.Clock = moderation.SystemClock()
	}
	h := updateHandler{
		deps: deps,
		log:  deps.Logger.With("handler", "moderation_pipeline"),
	}
	return h.Handle
}

type updateHandler struct {
	deps UpdateHandlerDeps
	log  *slog.Logger
}

func (h updateHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if len(msg.NewChatMembers) > 0 {
		h.handleNewMembers(ctx, msg)
		return
	}

	if msg.From == nil || msg.From.IsBot {
		return
	}
	if msg.Chat.Type != models.ChatTypeGroup && msg.Chat.Type != models.ChatTypeSupergroup {
		return
	}

	h.handleGroupMessage(ctx, msg)
}

// handleNewMembers records join times and posts the transient welcome.
func (h updateHandler) handleNewMembers(ctx context.Context, msg *models.Message) {
	chatID := msg.Chat.ID
	at := messageTime(msg, h.deps.Clock)

	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}
		h.deps.Engine.HandleNewMember(chatID, member.ID, at)

		welcome := fmt.Sprintf(h.deps.Config.Messages.Welcome, mention(&member))
		if err := h.deps.Gateway.SendTransientNotice(ctx, chatID, welcome, h.deps.Config.Moderation.NoticeTTL); err != nil {
			h.log.WarnContext(ctx, "Failed to send welcome notice",
				"chat_id", chatID, "user_id", member.ID, "error", err)
		}
	}
}

// handleGroupMessage runs one message through the engine and applies the
// verdict. The engine computes the decision under its own lock; every
// platform call below happens after that lock is released, and a failed
// side effect never rolls the decision back.
func (h updateHandler) handleGroupMessage(ctx context.Context, msg *models.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	at := messageTime(msg, h.deps.Clock)

	verdict := h.deps.Engine.HandleMessage(chatID, userID, at, moderation.Message{
		IsAdmin:   h.deps.Admins.IsAdmin(ctx, chatID, userID),
		IsCommand: IsCommandMessage(msg),
		Flags:     ExtractContentFlags(msg),
	})

	switch verdict.Decision {
	case moderation.Allow, moderation.AllowAndCount:
		return

	case moderation.RejectRestrictedContent:
		h.deleteMessage(ctx, msg)
		notice := fmt.Sprintf(h.deps.Config.Messages.RestrictedContent, mention(msg.From))
		if err := h.deps.Gateway.SendTransientNotice(ctx, chatID, notice, h.deps.Config.Moderation.NoticeTTL); err != nil {
			h.log.WarnContext(ctx, "Failed to send restricted-content notice",
				"chat_id", chatID, "error", err)
		}
		h.audit(ctx, msg, database.ActionDeleteRestricted, time.Time{})

	case moderation.RejectMuted:
		h.deleteMessage(ctx, msg)
		h.audit(ctx, msg, database.ActionDeleteMuted, time.Time{})

	case moderation.MuteAndReject:
		h.deleteMessage(ctx, msg)
		if err := h.deps.Gateway.ApplyMute(ctx, chatID, userID, verdict.MutedUntil); err != nil {
			h.log.ErrorContext(ctx, "Failed to apply platform mute",
				"chat_id", chatID, "user_id", userID, "error", err)
		}
		notice := fmt.Sprintf(h.deps.Config.Messages.MutedNotice, mention(msg.From))
		if err := h.deps.Gateway.SendTransientNotice(ctx, chatID, notice, h.deps.Config.Moderation.NoticeTTL); err != nil {
			h.log.WarnContext(ctx, "Failed to send mute notice", "chat_id", chatID, "error", err)
		}
		h.audit(ctx, msg, database.ActionMute, verdict.MutedUntil)
	}
}

func (h updateHandler) deleteMessage(ctx context.Context, msg *models.Message) {
	if err := h.deps.Gateway.DeleteMessage(ctx, msg.Chat.ID, msg.ID); err != nil {
		h.log.WarnContext(ctx, "Failed to delete message",
			"chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
	}
}

func (h updateHandler) audit(ctx context.Context, msg *models.Message, action string, expiresAt time.Time) {
	event := &database.ModerationEvent{
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		MessageID: int64(msg.ID),
		Action:    action,
	}
	if !expiresAt.IsZero() {
		event.ExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	}
	if err := h.deps.Store.RecordModerationEvent(ctx, event); err != nil {
		h.log.WarnContext(ctx, "Failed to record moderation event",
			"chat_id", msg.Chat.ID, "action", action, "error", err)
	}
}

// messageTime returns the platform timestamp of the message, falling back to
// the local clock for updates without one.
func messageTime(msg *models.Message, clock moderation.Clock) time.Time {
	if msg.Date == 0 {
		return clock.Now()
	}
	return time.Unix(int64(msg.Date), 0).UTC()
}

// ExtractContentFlags derives the moderation content flags from a platform
// message: any attached media, or a url/text_link entity in the text or
// caption.
func ExtractContentFlags(msg *models.Message) moderation.ContentFlags {
	flags := moderation.ContentFlags{}

	if len(msg.Photo) > 0 || msg.Video != nil || msg.Document != nil ||
		msg.Sticker != nil || msg.Animation != nil {
		flags.HasMedia = true
	}

	for _, entities := range [][]models.MessageEntity{msg.Entities, msg.CaptionEntities} {
		for _, entity := range entities {
			if entity.Type == models.MessageEntityTypeURL ||
				entity.Type == models.MessageEntityTypeTextLink {
				flags.HasLink = true
			}
		}
	}

	return flags
}

// IsCommandMessage reports whether the message is a bot command: a
// bot_command entity at offset zero, or a leading slash for clients that do
// not annotate entities.
func IsCommandMessage(msg *models.Message) bool {
	for _, entity := range msg.Entities {
		if entity.Type == models.MessageEntityTypeBotCommand && entity.Offset == 0 {
			return true
		}
	}
	return strings.HasPrefix(msg.Text, "/")
}

// mention renders an HTML user mention the way the platform expects.
func mention(user *models.User) string {
	name := user.FirstName
	if name == "" {
		name = "friend"
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, user.ID, html.EscapeString(name))
}
