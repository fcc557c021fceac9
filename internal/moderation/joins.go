package moderation

import "time"

// JoinTracker remembers when users joined a single chat, driving the
// restricted window for new members. It is not safe for concurrent use; the
// engine serializes access per chat.
type JoinTracker struct {
	joined map[int64]time.Time
	window time.Duration
}

// NewJoinTracker creates a tracker with the given grace-period window.
func NewJoinTracker(window time.Duration) *JoinTracker {
	return &JoinTracker{
		joined: make(map[int64]time.Time),
		window: window,
	}
}

// Record stores the join time for a user, overwriting any earlier join.
func (t *JoinTracker) Record(userID int64, at time.Time) {
	t.joined[userID] = at
}

// WithinGracePeriod reports whether the user joined less than the window ago.
// Users without a join record are treated as pre-existing members and are not
// restricted. Elapsed records are evicted on read.
func (t *JoinTracker) WithinGracePeriod(userID int64, now time.Time) bool {
	joinedAt, ok := t.joined[userID]
	if !ok {
		return false
	}
	if now.Sub(joinedAt) >= t.window {
		delete(t.joined, userID)
		return false
	}
	return true
}
