package moderation_test

import (
	"testing"
	"time"

	"groupwarden/internal/moderation"
)

func TestJoinTrackerGracePeriod(t *testing.T) {
	t.Parallel()

	joined := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	testCases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "immediately after join",
			now:  joined.Add(time.Second),
			want: true,
		},
		{
			name: "one second before window elapses",
			now:  joined.Add(window - time.Second),
			want: true,
		},
		{
			name: "exactly at window boundary",
			now:  joined.Add(window),
			want: false,
		},
		{
			name: "after window elapses",
			now:  joined.Add(window + time.Second),
			want: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tracker := moderation.NewJoinTracker(window)
			tracker.Record(42, joined)

			if got := tracker.WithinGracePeriod(42, tc.now); got != tc.want {
				t.Errorf("WithinGracePeriod(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestJoinTrackerUnknownUserNotRestricted(t *testing.T) {
	t.Parallel()

	tracker := moderation.NewJoinTracker(24 * time.Hour)
	if tracker.WithinGracePeriod(7, time.Now()) {
		t.Error("user without a join record should not be restricted")
	}
}

func TestJoinTrackerRejoinOverwrites(t *testing.T) {
	t.Parallel()

	window := 24 * time.Hour
	first := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	tracker := moderation.NewJoinTracker(window)
	tracker.Record(42, first)
	tracker.Record(42, second)

	// The first join is long elapsed, but the rejoin restarts the window.
	if !tracker.WithinGracePeriod(42, second.Add(time.Hour)) {
		t.Error("rejoin should restart the grace period")
	}
}
