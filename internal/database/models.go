package database

import (
	"database/sql"
	"time"
)

// WeeklyWinner is one archived leaderboard row from a weekly rollover.
// The in-memory core only retains the latest report; the archive keeps
// history so /winners works after a restart.
type WeeklyWinner struct {
	ID        uint      `db:"id"`
	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Position  int       `db:"position"`
	Score     int       `db:"score"`
	WeekEnd   time.Time `db:"week_ending"`
	CreatedAt time.Time `db:"created_at"`
}

// ModerationEvent is one audit row recorded after the gateway has carried
// out a moderation side effect.
type ModerationEvent struct {
	ID        uint         `db:"id"`
	ChatID    int64        `db:"chat_id"`
	UserID    int64        `db:"user_id"`
	MessageID int64        `db:"message_id"`
	Action    string       `db:"action"`
	ExpiresAt sql.NullTime `db:"expires_at"`
	CreatedAt time.Time    `db:"created_at"`
}

// Audit actions recorded in moderation_events.
const (
	ActionDeleteRestricted = "delete_restricted"
	ActionDeleteMuted      = "delete_muted"
	ActionMute             = "mute"
	ActionUnmute           = "unmute"
)
