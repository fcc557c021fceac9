// Package config provides configuration loading, validation, and defaults
// for GroupWarden. Values come from a YAML file, BOT_* environment variable
// overrides, and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Messages   MessagesConfig   `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the platform credentials and gateway tuning.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// AdminCacheTTL bounds how long a chat member's admin status is
	// reused before asking the platform again.
	AdminCacheTTL time.Duration `mapstructure:"admin_cache_ttl" validate:"min=1s"`
}

// DatabaseConfig locates the SQLite file used for the winners archive and
// the moderation audit log. Live moderation state is never persisted.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`

	// AuditRetention is how long moderation audit rows are kept before
	// the maintenance task prunes them.
	AuditRetention time.Duration `mapstructure:"audit_retention" validate:"min=24h"`
}

// ModerationConfig holds the moderation core tunables.
type ModerationConfig struct {
	GracePeriod        time.Duration `mapstructure:"grace_period" validate:"min=1m"`
	SpamLimit          int           `mapstructure:"spam_limit" validate:"min=1"`
	SpamInterval       time.Duration `mapstructure:"spam_interval" validate:"min=1s"`
	MuteDuration       time.Duration `mapstructure:"mute_duration" validate:"min=1m"`
	LeaderboardSize    int           `mapstructure:"leaderboard_size" validate:"min=1,max=25"`
	CountAdminMessages bool          `mapstructure:"count_admin_messages"`

	// NoticeTTL is how long transient warnings stay before the gateway
	// deletes them.
	NoticeTTL time.Duration `mapstructure:"notice_ttl" validate:"min=1s"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds the user-facing message templates.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"`
	RestrictedContent string `mapstructure:"restricted_content"`
	MutedNotice       string `mapstructure:"muted_notice"`
	WinnersHeader     string `mapstructure:"winners_header"`
	NoWinners         string `mapstructure:"no_winners"`
	NoActivity        string `mapstructure:"no_activity"`
	RankReply         string `mapstructure:"rank_reply"`
	NotAuthorized     string `mapstructure:"not_authorized"`
	UnmuteUsage       string `mapstructure:"unmute_usage"`
	UnmuteDone        string `mapstructure:"unmute_done"`
	GeneralError      string `mapstructure:"general_error"`
}

// LoadConfig reads the configuration file at path, layers BOT_* environment
// variables on top, and validates the result. A missing config file is not
// an error; defaults and environment variables apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// The empty default keeps the key known to viper so the BOT_TELEGRAM_TOKEN
	// environment override is picked up; validation rejects the empty value.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_cache_ttl", 5*time.Minute)

	v.SetDefault("database.path", "groupwarden.db")
	v.SetDefault("database.audit_retention", 90*24*time.Hour)

	v.SetDefault("moderation.grace_period", 24*time.Hour)
	v.SetDefault("moderation.spam_limit", 3)
	v.SetDefault("moderation.spam_interval", 60*time.Second)
	v.SetDefault("moderation.mute_duration", time.Hour)
	v.SetDefault("moderation.leaderboard_size", 5)
	v.SetDefault("moderation.count_admin_messages", false)
	v.SetDefault("moderation.notice_ttl", 10*time.Second)

	v.SetDefault("scheduler.tasks.weekly_awards.enabled", true)
	v.SetDefault("scheduler.tasks.weekly_awards.schedule", "0 0 * * 1")
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 12 * * *")

	v.SetDefault("messages.welcome",
		"Welcome, %s!\nFor the first 24 hours you cannot post photos, videos or links.")
	v.SetDefault("messages.restricted_content",
		"%s, media and links are not allowed during your first 24 hours.")
	v.SetDefault("messages.muted_notice",
		"%s has been muted for flooding. The mute lifts in an hour.")
	v.SetDefault("messages.winners_header", "🏆 Winners of the week:\n\n")
	v.SetDefault("messages.no_winners", "No winners recorded yet.")
	v.SetDefault("messages.no_activity", "You have no counted messages this week yet.")
	v.SetDefault("messages.rank_reply", "You are #%d this week with %d messages.")
	v.SetDefault("messages.not_authorized", "Only chat administrators can do that.")
	v.SetDefault("messages.unmute_usage", "Usage: /unmute <user-id>, or reply to the user's message.")
	v.SetDefault("messages.unmute_done", "Mute lifted.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again later.")
}
