package moderation_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"groupwarden/internal/moderation"
)

const (
	testChat int64 = -1001
	testUser int64 = 42
)

func newTestEngine(cfg moderation.Config) *moderation.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return moderation.NewEngine(cfg, nil, logger)
}

func text() moderation.Message {
	return moderation.Message{}
}

func photo() moderation.Message {
	return moderation.Message{Flags: moderation.ContentFlags{HasMedia: true}}
}

func TestEngineGracePeriodBoundary(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	joined := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	engine.HandleNewMember(testChat, testUser, joined)

	v := engine.HandleMessage(testChat, testUser, joined.Add(24*time.Hour-time.Second), photo())
	if v.Decision != moderation.RejectRestrictedContent {
		t.Errorf("photo inside grace period: decision = %v, want %v",
			v.Decision, moderation.RejectRestrictedContent)
	}

	v = engine.HandleMessage(testChat, testUser, joined.Add(24*time.Hour+time.Second), text())
	if v.Decision != moderation.AllowAndCount {
		t.Errorf("text after grace period: decision = %v, want %v",
			v.Decision, moderation.AllowAndCount)
	}
}

func TestEngineRestrictedContentKinds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		flags moderation.ContentFlags
		want  moderation.Decision
	}{
		{
			name:  "media",
			flags: moderation.ContentFlags{HasMedia: true},
			want:  moderation.RejectRestrictedContent,
		},
		{
			name:  "link",
			flags: moderation.ContentFlags{HasLink: true},
			want:  moderation.RejectRestrictedContent,
		},
		{
			name:  "plain text",
			flags: moderation.ContentFlags{},
			want:  moderation.AllowAndCount,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			engine := newTestEngine(moderation.DefaultConfig())
			joined := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
			engine.HandleNewMember(testChat, testUser, joined)

			v := engine.HandleMessage(testChat, testUser, joined.Add(time.Minute),
				moderation.Message{Flags: tc.flags})
			if v.Decision != tc.want {
				t.Errorf("decision = %v, want %v", v.Decision, tc.want)
			}
		})
	}
}

func TestEngineSpamEscalationAndMute(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		v := engine.HandleMessage(testChat, testUser, base.Add(time.Duration(i)*3*time.Second), text())
		if v.Decision != moderation.AllowAndCount {
			t.Fatalf("message %d: decision = %v, want %v", i+1, v.Decision, moderation.AllowAndCount)
		}
	}

	v := engine.HandleMessage(testChat, testUser, base.Add(10*time.Second), text())
	if v.Decision != moderation.MuteAndReject {
		t.Fatalf("fourth burst message: decision = %v, want %v", v.Decision, moderation.MuteAndReject)
	}
	if want := base.Add(10*time.Second).Add(time.Hour); !v.MutedUntil.Equal(want) {
		t.Errorf("MutedUntil = %v, want %v", v.MutedUntil, want)
	}

	// While muted every message is rejected silently.
	v = engine.HandleMessage(testChat, testUser, base.Add(15*time.Second), text())
	if v.Decision != moderation.RejectMuted {
		t.Errorf("message while muted: decision = %v, want %v", v.Decision, moderation.RejectMuted)
	}

	// The escalating message is not counted: the counter stays at 3.
	_, score, err := engine.Rank(testChat, testUser)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if score != 3 {
		t.Errorf("score after escalation = %d, want 3", score)
	}
}

func TestEngineMuteExpiry(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		engine.HandleMessage(testChat, testUser, base.Add(time.Duration(i)*time.Second), text())
	}

	// Mute set at base+3s, expires one hour later.
	v := engine.HandleMessage(testChat, testUser, base.Add(3*time.Second).Add(time.Hour), text())
	if v.Decision != moderation.AllowAndCount {
		t.Errorf("message after mute expiry: decision = %v, want %v",
			v.Decision, moderation.AllowAndCount)
	}
}

func TestEngineEarlyUnmute(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		engine.HandleMessage(testChat, testUser, base.Add(time.Duration(i)*time.Second), text())
	}
	if err := engine.Unmute(testChat, testUser); err != nil {
		t.Fatalf("Unmute returned error: %v", err)
	}

	v := engine.HandleMessage(testChat, testUser, base.Add(10*time.Second), text())
	if v.Decision == moderation.RejectMuted {
		t.Error("user should not be muted after early unmute")
	}
}

func TestEngineUnmuteInvalidTarget(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	if err := engine.Unmute(testChat, 0); !errors.Is(err, moderation.ErrInvalidTarget) {
		t.Errorf("Unmute(0) error = %v, want ErrInvalidTarget", err)
	}
	if err := engine.Unmute(testChat, -5); !errors.Is(err, moderation.ErrInvalidTarget) {
		t.Errorf("Unmute(-5) error = %v, want ErrInvalidTarget", err)
	}
	// Absent record is a no-op, not an error.
	if err := engine.Unmute(testChat, 12345); err != nil {
		t.Errorf("Unmute on absent record returned error: %v", err)
	}
}

func TestEngineAdminExclusion(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	engine.HandleNewMember(testChat, testUser, base)

	// Admins bypass every rule, including the grace-period content ban,
	// and never touch the spam window or the ledger.
	for i := 0; i < 10; i++ {
		v := engine.HandleMessage(testChat, testUser, base.Add(time.Duration(i)*time.Second),
			moderation.Message{IsAdmin: true, Flags: moderation.ContentFlags{HasMedia: true}})
		if v.Decision != moderation.Allow {
			t.Fatalf("admin message %d: decision = %v, want %v", i+1, v.Decision, moderation.Allow)
		}
	}

	if _, _, err := engine.Rank(testChat, testUser); !errors.Is(err, moderation.ErrNoActivity) {
		t.Errorf("admin messages must not be counted, Rank error = %v, want ErrNoActivity", err)
	}
}

func TestEngineAdminCountingFlag(t *testing.T) {
	t.Parallel()

	cfg := moderation.DefaultConfig()
	cfg.CountAdminMessages = true
	engine := newTestEngine(cfg)
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	v := engine.HandleMessage(testChat, testUser, base, moderation.Message{IsAdmin: true})
	if v.Decision != moderation.AllowAndCount {
		t.Fatalf("admin message with counting enabled: decision = %v, want %v",
			v.Decision, moderation.AllowAndCount)
	}

	// Commands stay uncounted even with the flag on.
	v = engine.HandleMessage(testChat, testUser, base.Add(time.Second),
		moderation.Message{IsAdmin: true, IsCommand: true})
	if v.Decision != moderation.Allow {
		t.Errorf("admin command: decision = %v, want %v", v.Decision, moderation.Allow)
	}

	_, score, err := engine.Rank(testChat, testUser)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
}

func TestEngineCommandExclusion(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	// Commands are never counted and never feed the spam window.
	for i := 0; i < 10; i++ {
		v := engine.HandleMessage(testChat, testUser, base.Add(time.Duration(i)*time.Second),
			moderation.Message{IsCommand: true})
		if v.Decision != moderation.Allow {
			t.Fatalf("command %d: decision = %v, want %v", i+1, v.Decision, moderation.Allow)
		}
	}

	if _, _, err := engine.Rank(testChat, testUser); !errors.Is(err, moderation.ErrNoActivity) {
		t.Errorf("commands must not be counted, Rank error = %v, want ErrNoActivity", err)
	}
}

func TestEngineRollover(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		engine.HandleMessage(testChat, testUser, base.Add(time.Duration(i)*time.Minute), text())
	}

	winners := engine.TakeWinners(testChat)
	if len(winners) != 1 || winners[0].UserID != testUser || winners[0].Score != 3 {
		t.Fatalf("TakeWinners = %+v, want [{%d 3}]", winners, testUser)
	}

	// The report is retained until the next rollover.
	if got := engine.Winners(testChat); len(got) != 1 || got[0] != winners[0] {
		t.Errorf("Winners = %+v, want %+v", got, winners)
	}

	// Ledger cleared: no activity, no active chats, second take is a no-op.
	if got := engine.TopN(testChat, 5); got != nil {
		t.Errorf("TopN after rollover = %v, want nil", got)
	}
	if got := engine.ActiveChats(); len(got) != 0 {
		t.Errorf("ActiveChats after rollover = %v, want empty", got)
	}
	if got := engine.TakeWinners(testChat); got != nil {
		t.Errorf("TakeWinners on empty ledger = %v, want nil", got)
	}

	// Fresh activity starts a new count.
	engine.HandleMessage(testChat, testUser, base.Add(time.Hour), text())
	_, score, err := engine.Rank(testChat, testUser)
	if err != nil {
		t.Fatalf("Rank after rollover returned error: %v", err)
	}
	if score != 1 {
		t.Errorf("score after rollover = %d, want 1", score)
	}
}

func TestEngineConcreteScenario(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	joined := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	engine.HandleNewMember(testChat, testUser, joined)

	// T+1s: photo during the grace period.
	v := engine.HandleMessage(testChat, testUser, joined.Add(time.Second), photo())
	if v.Decision != moderation.RejectRestrictedContent {
		t.Fatalf("photo at T+1s: decision = %v, want %v",
			v.Decision, moderation.RejectRestrictedContent)
	}

	// T+1h: four plain-text messages within ten seconds.
	burst := joined.Add(time.Hour)
	for i := 0; i < 3; i++ {
		v = engine.HandleMessage(testChat, testUser, burst.Add(time.Duration(i)*3*time.Second), text())
		if v.Decision != moderation.AllowAndCount {
			t.Fatalf("burst message %d: decision = %v, want %v",
				i+1, v.Decision, moderation.AllowAndCount)
		}
	}
	v = engine.HandleMessage(testChat, testUser, burst.Add(10*time.Second), text())
	if v.Decision != moderation.MuteAndReject {
		t.Fatalf("fourth burst message: decision = %v, want %v", v.Decision, moderation.MuteAndReject)
	}
	if want := burst.Add(10 * time.Second).Add(time.Hour); !v.MutedUntil.Equal(want) {
		t.Errorf("MutedUntil = %v, want %v", v.MutedUntil, want)
	}

	// T+1h+15s: still muted.
	v = engine.HandleMessage(testChat, testUser, burst.Add(15*time.Second), text())
	if v.Decision != moderation.RejectMuted {
		t.Errorf("message while muted: decision = %v, want %v", v.Decision, moderation.RejectMuted)
	}

	// Week end: the only active user wins with the pre-mute count.
	winners := engine.TakeWinners(testChat)
	if len(winners) != 1 || winners[0].UserID != testUser || winners[0].Score != 3 {
		t.Fatalf("weekly winners = %+v, want [{%d 3}]", winners, testUser)
	}
	if got := engine.TopN(testChat, 5); got != nil {
		t.Errorf("TopN after rollover = %v, want nil", got)
	}
}

func TestEngineChatsAreIndependent(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(moderation.DefaultConfig())
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	engine.HandleMessage(-1, 1, base, text())
	engine.HandleMessage(-2, 1, base, text())
	engine.HandleMessage(-2, 1, base.Add(time.Second), text())

	if _, score, _ := engine.Rank(-1, 1); score != 1 {
		t.Errorf("chat -1 score = %d, want 1", score)
	}
	if _, score, _ := engine.Rank(-2, 1); score != 2 {
		t.Errorf("chat -2 score = %d, want 2", score)
	}

	active := engine.ActiveChats()
	if len(active) != 2 {
		t.Errorf("ActiveChats = %v, want two chats", active)
	}
}
