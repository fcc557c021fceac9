package moderation

import "time"

// SpamDetector keeps a sliding window of recent message times per user in a
// single chat and decides when a burst should escalate to a mute. Not safe
// for concurrent use; the engine serializes access per chat.
type SpamDetector struct {
	windows  map[int64][]time.Time
	limit    int
	interval time.Duration
}

// NewSpamDetector creates a detector that escalates when more than limit
// messages arrive within interval.
func NewSpamDetector(limit int, interval time.Duration) *SpamDetector {
	return &SpamDetector{
		windows:  make(map[int64][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

// RecordAndCheck appends the message time to the user's window, evicts
// entries older than the interval, and reports whether the burst crossed the
// limit. On escalation the window is cleared so the burst does not re-trigger
// the moment the resulting mute lifts.
func (d *SpamDetector) RecordAndCheck(userID int64, now time.Time) bool {
	window := d.windows[userID]

	cutoff := 0
	for cutoff < len(window) && now.Sub(window[cutoff]) >= d.interval {
		cutoff++
	}
	window = append(window[cutoff:], now)

	if len(window) > d.limit {
		delete(d.windows, userID)
		return true
	}
	d.windows[userID] = window
	return false
}

// WindowSize returns the current window length for a user.
func (d *SpamDetector) WindowSize(userID int64) int {
	return len(d.windows[userID])
}
