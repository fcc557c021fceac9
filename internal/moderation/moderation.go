// Package moderation implements the per-chat moderation core: join
// grace-period tracking, sliding-window spam detection, mute lifecycle, and
// per-user activity counting with weekly rollover. All state is held in
// memory for the lifetime of the process; the package performs no I/O and
// never calls the messaging platform. Side effects implied by a Verdict
// (deleting a message, restricting a member) are carried out by the caller.
package moderation

import (
	"errors"
	"time"
)

// Decision tells the caller what to do with an inbound message.
type Decision int

const (
	// Allow lets the message stand without counting it (commands, admin
	// messages when admin counting is disabled).
	Allow Decision = iota

	// AllowAndCount lets the message stand and credits it to the author's
	// activity counter.
	AllowAndCount

	// RejectRestrictedContent means the message violates the join
	// grace-period media/link ban: delete it and optionally warn.
	RejectRestrictedContent

	// RejectMuted means the author is currently muted: delete silently.
	RejectMuted

	// MuteAndReject means the spam threshold was crossed: delete the
	// message and restrict the member until Verdict.MutedUntil.
	MuteAndReject
)

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case AllowAndCount:
		return "allow_and_count"
	case RejectRestrictedContent:
		return "reject_restricted_content"
	case RejectMuted:
		return "reject_muted"
	case MuteAndReject:
		return "mute_and_reject"
	default:
		return "unknown"
	}
}

// Verdict is the engine's answer for a single message.
type Verdict struct {
	Decision Decision

	// MutedUntil is set when Decision is MuteAndReject and carries the
	// expiry the caller must pass to the platform restriction call.
	MutedUntil time.Time
}

// ContentFlags describes the message content relevant to the grace-period
// restriction. The gateway extracts these from the platform message.
type ContentFlags struct {
	HasMedia bool // photo, video, document, sticker or animation
	HasLink  bool // url or text_link entity in text or caption
}

// Restricted reports whether the content falls under the new-member ban.
func (f ContentFlags) Restricted() bool {
	return f.HasMedia || f.HasLink
}

// Message carries the per-message facts the engine needs to decide.
type Message struct {
	IsAdmin   bool
	IsCommand bool
	Flags     ContentFlags
}

var (
	// ErrNoActivity is returned by rank queries for users without any
	// counted message in the current period.
	ErrNoActivity = errors.New("no recorded activity")

	// ErrInvalidTarget is returned for administrative actions aimed at a
	// malformed user identifier.
	ErrInvalidTarget = errors.New("invalid target user")
)

// Config holds the moderation tunables. The zero value is not usable; use
// DefaultConfig as a base.
type Config struct {
	// GracePeriod is how long after joining a member may not post media
	// or links.
	GracePeriod time.Duration

	// SpamLimit is the number of messages tolerated inside SpamInterval.
	// The message after the limit (strictly greater) triggers a mute.
	SpamLimit int

	// SpamInterval is the width of the spam sliding window.
	SpamInterval time.Duration

	// MuteDuration is how long an escalated user stays muted.
	MuteDuration time.Duration

	// LeaderboardSize caps the weekly winners report.
	LeaderboardSize int

	// CountAdminMessages credits administrator messages to the activity
	// leaderboard. Disabled by default so the board reflects regular
	// members only.
	CountAdminMessages bool
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		GracePeriod:        24 * time.Hour,
		SpamLimit:          3,
		SpamInterval:       60 * time.Second,
		MuteDuration:       time.Hour,
		LeaderboardSize:    5,
		CountAdminMessages: false,
	}
}
