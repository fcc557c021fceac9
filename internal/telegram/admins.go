package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"groupwarden/internal/moderation"
)

// AdminChecker answers "is this user an administrator of this chat" with a
// small TTL cache in front of the platform, so the hot message path does not
// hit the API for every message.
type AdminChecker struct {
	bot    *tgbot.Bot
	clock  moderation.Clock
	ttl    time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	cache map[adminKey]adminEntry
}

type adminKey struct {
	chatID int64
	userID int64
}

type adminEntry struct {
	isAdmin   bool
	checkedAt time.Time
}

// NewAdminChecker creates a checker with the given cache TTL.
func NewAdminChecker(b *tgbot.Bot, clock moderation.Clock, ttl time.Duration, logger *slog.Logger) *AdminChecker {
	if clock == nil {
		clock = moderation.SystemClock()
	}
	return &AdminChecker{
		bot:    b,
		clock:  clock,
		ttl:    ttl,
		logger: logger.With("component", "admin_checker"),
		cache:  make(map[adminKey]adminEntry),
	}
}

// IsAdmin reports whether the user is an administrator or the owner of the
// chat. Lookup failures are treated as "not admin" so moderation fails
// closed rather than skipping checks.
func (c *AdminChecker) IsAdmin(ctx context.Context, chatID, userID int64) bool {
	key := adminKey{chatID: chatID, userID: userID}
	now := c.clock.Now()

	c.mu.Lock()
	entry, ok := c.cache[key]
	c.mu.Unlock()
	if ok && now.Sub(entry.checkedAt) < c.ttl {
		return entry.isAdmin
	}

	member, err := c.bot.GetChatMember(ctx, &tgbot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		c.logger.Warn("Failed to fetch chat member status",
			"chat_id", chatID, "user_id", userID, "error", err)
		return false
	}

	isAdmin := member.Type == models.ChatMemberTypeOwner ||
		member.Type == models.ChatMemberTypeAdministrator

	c.mu.Lock()
	c.cache[key] = adminEntry{isAdmin: isAdmin, checkedAt: now}
	c.mu.Unlock()

	return isAdmin
}
