package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Gateway carries out the platform side effects behind moderation
// decisions. The moderation core never calls the platform itself; it returns
// a verdict and the caller invokes these methods outside the core's locks.
type Gateway struct {
	bot    *tgbot.Bot
	logger *slog.Logger
}

// NewGateway creates a gateway around the bot client.
func NewGateway(b *tgbot.Bot, logger *slog.Logger) *Gateway {
	return &Gateway{
		bot:    b,
		logger: logger.With("component", "gateway"),
	}
}

// DeleteMessage removes a message from a chat.
func (g *Gateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := g.bot.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// SendTransientNotice sends a message and deletes it again after ttl. The
// deletion runs on its own goroutine so the caller is never blocked; a
// failed cleanup only leaves a stale notice behind, so it is just logged.
func (g *Gateway) SendTransientNotice(ctx context.Context, chatID int64, text string, ttl time.Duration) error {
	msg, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send notice to chat %d: %w", chatID, err)
	}

	go func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := g.DeleteMessage(ctx, chatID, msg.ID); err != nil {
			g.logger.Warn("Failed to delete transient notice",
				"chat_id", chatID, "message_id", msg.ID, "error", err)
		}
	}()

	return nil
}

// ApplyMute restricts a member from sending anything until the given time.
func (g *Gateway) ApplyMute(ctx context.Context, chatID, userID int64, until time.Time) error {
	_, err := g.bot.RestrictChatMember(ctx, &tgbot.RestrictChatMemberParams{
		ChatID:      chatID,
		UserID:      userID,
		Permissions: &models.ChatPermissions{},
		UntilDate:   int(until.Unix()),
	})
	if err != nil {
		return fmt.Errorf("failed to restrict user %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

// ApplyUnmute restores a member's default send permissions.
func (g *Gateway) ApplyUnmute(ctx context.Context, chatID, userID int64) error {
	_, err := g.bot.RestrictChatMember(ctx, &tgbot.RestrictChatMemberParams{
		ChatID: chatID,
		UserID: userID,
		Permissions: &models.ChatPermissions{
			CanSendMessages:       true,
			CanSendAudios:         true,
			CanSendDocuments:      true,
			CanSendPhotos:         true,
			CanSendVideos:         true,
			CanSendVideoNotes:     true,
			CanSendVoiceNotes:     true,
			CanSendPolls:          true,
			CanSendOtherMessages:  true,
			CanAddWebPagePreviews: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to lift restriction for user %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

// Announce sends a permanent message to a chat and returns its message ID.
func (g *Gateway) Announce(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to announce in chat %d: %w", chatID, err)
	}
	return msg.ID, nil
}

// Pin pins a message without notifying the chat.
func (g *Gateway) Pin(ctx context.Context, chatID int64, messageID int) error {
	_, err := g.bot.PinChatMessage(ctx, &tgbot.PinChatMessageParams{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	if err != nil {
		return fmt.Errorf("failed to pin message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// MemberName returns a display name for a chat member, falling back to a
// generic label when the platform lookup fails (the user may have left).
func (g *Gateway) MemberName(ctx context.Context, chatID, userID int64) string {
	member, err := g.bot.GetChatMember(ctx, &tgbot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil || member == nil {
		g.logger.Debug("Failed to resolve member name",
			"chat_id", chatID, "user_id", userID, "error", err)
		return "User"
	}

	if user := memberUser(member); user != nil {
		name := user.FirstName
		if user.LastName != "" {
			name += " " + user.LastName
		}
		if name != "" {
			return name
		}
		if user.Username != "" {
			return "@" + user.Username
		}
	}
	return "User"
}

func memberUser(member *models.ChatMember) *models.User {
	switch {
	case member.Owner != nil:
		return member.Owner.User
	case member.Administrator != nil:
		return &member.Administrator.User
	case member.Member != nil:
		return member.Member.User
	case member.Restricted != nil:
		return member.Restricted.User
	case member.Left != nil:
		return member.Left.User
	case member.Banned != nil:
		return member.Banned.User
	default:
		return nil
	}
}
