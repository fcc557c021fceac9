package moderation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// chatState bundles the per-chat components behind a single mutex. Every
// operation touching a chat locks its state, so different chats never
// contend while counters and windows within one chat stay consistent.
type chatState struct {
	mu       sync.Mutex
	joins    *JoinTracker
	activity *ActivityLedger
	spam     *SpamDetector
	mutes    *MuteRegistry
	winners  []Entry // last weekly report, overwritten each rollover
}

// Engine is the moderation core's single entry point. It owns all per-chat
// state and returns a Verdict per message; the gateway carries out the
// platform side effects outside the engine's locks.
type Engine struct {
	cfg    Config
	clock  Clock
	logger *slog.Logger

	mu    sync.RWMutex
	chats map[int64]*chatState
}

// NewEngine creates an engine with the given tunables. A nil clock falls
// back to the system clock.
func NewEngine(cfg Config, clock Clock, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		clock:  clock,
		logger: logger.With("component", "moderation_engine"),
		chats:  make(map[int64]*chatState),
	}
}

// chat returns the state for a chat, creating it on first contact.
func (e *Engine) chat(chatID int64) *chatState {
	e.mu.RLock()
	state, ok := e.chats[chatID]
	e.mu.RUnlock()
	if ok {
		return state
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok = e.chats[chatID]; ok {
		return state
	}
	state = &chatState{
		joins:    NewJoinTracker(e.cfg.GracePeriod),
		activity: NewActivityLedger(),
		spam:     NewSpamDetector(e.cfg.SpamLimit, e.cfg.SpamInterval),
		mutes:    NewMuteRegistry(),
	}
	e.chats[chatID] = state
	return state
}

// HandleNewMember records a member's join time, starting the restricted
// window. A rejoin overwrites the earlier timestamp.
func (e *Engine) HandleNewMember(chatID, userID int64, at time.Time) {
	state := e.chat(chatID)
	state.mu.Lock()
	state.joins.Record(userID, at)
	state.mu.Unlock()

	e.logger.Debug("recorded join", "chat_id", chatID, "user_id", userID, "joined_at", at)
}

// HandleMessage evaluates one inbound message and returns the verdict. The
// checks run in a fixed order: admin bypass, mute check, grace-period content
// check, command bypass, spam check, then activity counting.
func (e *Engine) HandleMessage(chatID, userID int64, at time.Time, msg Message) Verdict {
	state := e.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if msg.IsAdmin {
		if msg.IsCommand || !e.cfg.CountAdminMessages {
			return Verdict{Decision: Allow}
		}
		state.activity.Increment(userID)
		return Verdict{Decision: AllowAndCount}
	}

	if state.mutes.IsMuted(userID, at) {
		return Verdict{Decision: RejectMuted}
	}

	if msg.Flags.Restricted() && state.joins.WithinGracePeriod(userID, at) {
		return Verdict{Decision: RejectRestrictedContent}
	}

	if msg.IsCommand {
		return Verdict{Decision: Allow}
	}

	if state.spam.RecordAndCheck(userID, at) {
		until := state.mutes.Mute(userID, at, e.cfg.MuteDuration)
		e.logger.Info("spam threshold crossed, muting user",
			"chat_id", chatID, "user_id", userID, "muted_until", until)
		return Verdict{Decision: MuteAndReject, MutedUntil: until}
	}

	state.activity.Increment(userID)
	return Verdict{Decision: AllowAndCount}
}

// Unmute lifts a user's mute ahead of its expiry. Unmuting a user without an
// active mute succeeds as a no-op; a non-positive target is rejected.
func (e *Engine) Unmute(chatID, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, userID)
	}

	state := e.chat(chatID)
	state.mu.Lock()
	state.mutes.Unmute(userID)
	state.mu.Unlock()

	e.logger.Info("mute lifted", "chat_id", chatID, "user_id", userID)
	return nil
}

// IsMuted reports whether the user is currently silenced in the chat.
func (e *Engine) IsMuted(chatID, userID int64) bool {
	state := e.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.mutes.IsMuted(userID, e.clock.Now())
}

// Rank returns the user's 1-based leaderboard position and score for the
// current period, or ErrNoActivity.
func (e *Engine) Rank(chatID, userID int64) (int, int, error) {
	state := e.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.activity.Rank(userID)
}

// TopN returns the current leaderboard head for a chat.
func (e *Engine) TopN(chatID int64, n int) []Entry {
	state := e.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.activity.TopN(n)
}

// TakeWinners computes the weekly report for a chat and clears its ledger in
// one atomic step, so concurrent increments can neither be lost nor counted
// twice. Chats with an empty ledger return nil and are left untouched. The
// report also replaces the chat's retained last-winners list.
func (e *Engine) TakeWinners(chatID int64) []Entry {
	state := e.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.activity.Len() == 0 {
		return nil
	}

	winners := state.activity.TopN(e.cfg.LeaderboardSize)
	state.activity.Clear()
	state.winners = winners

	e.logger.Info("weekly rollover", "chat_id", chatID, "winners", len(winners))
	return winners
}

// Winners returns the last report produced by TakeWinners for the chat, or
// nil if no rollover has happened yet.
func (e *Engine) Winners(chatID int64) []Entry {
	state := e.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	winners := make([]Entry, len(state.winners))
	copy(winners, state.winners)
	return winners
}

// ActiveChats lists the chats whose ledgers hold at least one counted
// message, in unspecified order. The rollover task iterates this list.
func (e *Engine) ActiveChats() []int64 {
	e.mu.RLock()
	ids := make([]int64, 0, len(e.chats))
	states := make([]*chatState, 0, len(e.chats))
	for id, state := range e.chats {
		ids = append(ids, id)
		states = append(states, state)
	}
	e.mu.RUnlock()

	active := make([]int64, 0, len(ids))
	for i, state := range states {
		state.mu.Lock()
		if state.activity.Len() > 0 {
			active = append(active, ids[i])
		}
		state.mu.Unlock()
	}
	return active
}
