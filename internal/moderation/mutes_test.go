package moderation_test

import (
	"testing"
	"time"

	"groupwarden/internal/moderation"
)

func TestMuteRegistryLifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	registry := moderation.NewMuteRegistry()

	if registry.IsMuted(7, now) {
		t.Fatal("fresh registry should report no mutes")
	}

	expiry := registry.Mute(7, now, time.Hour)
	if want := now.Add(time.Hour); !expiry.Equal(want) {
		t.Errorf("Mute expiry = %v, want %v", expiry, want)
	}

	if !registry.IsMuted(7, now.Add(59*time.Minute)) {
		t.Error("user should be muted before expiry")
	}
	if registry.IsMuted(7, now.Add(time.Hour)) {
		t.Error("mute should expire exactly at expires_at")
	}
	if registry.IsMuted(7, now.Add(2*time.Hour)) {
		t.Error("expired mute should leave no residual state")
	}
}

func TestMuteRegistryRefreshDoesNotStack(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	registry := moderation.NewMuteRegistry()

	registry.Mute(7, now, time.Hour)
	expiry := registry.Mute(7, now.Add(30*time.Minute), time.Hour)

	if want := now.Add(90 * time.Minute); !expiry.Equal(want) {
		t.Errorf("refreshed expiry = %v, want %v", expiry, want)
	}
}

func TestMuteRegistryUnmuteIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	registry := moderation.NewMuteRegistry()

	registry.Unmute(7) // no record, no-op

	registry.Mute(7, now, time.Hour)
	registry.Unmute(7)
	if registry.IsMuted(7, now.Add(time.Minute)) {
		t.Error("user should not be muted after Unmute")
	}
	registry.Unmute(7) // repeated unmute is fine
}
