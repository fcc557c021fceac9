// Package tasks contains the scheduled jobs: the weekly awards rollover and
// database maintenance.
package tasks

import (
	"context"
	"log/slog"

	"groupwarden/internal/config"
	"groupwarden/internal/database"
	"groupwarden/internal/moderation"
	"groupwarden/internal/telegram"
)

// ScheduledTaskFunc is the function signature for all scheduled tasks.
type ScheduledTaskFunc func(ctx context.Context) error

// TaskDeps holds dependencies required by scheduled task handlers.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Engine  *moderation.Engine
	Gateway *telegram.Gateway
	Store   database.Store
	Clock   moderation.Clock
}
