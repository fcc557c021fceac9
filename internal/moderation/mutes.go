package moderation

import "time"

// MuteRegistry tracks active mute expiries per user in a single chat. It is
// the source of truth for "is this user currently silenced". Not safe for
// concurrent use; the engine serializes access per chat.
type MuteRegistry struct {
	expiries map[int64]time.Time
}

// NewMuteRegistry creates an empty registry.
func NewMuteRegistry() *MuteRegistry {
	return &MuteRegistry{expiries: make(map[int64]time.Time)}
}

// Mute silences the user until now+duration, overwriting any existing mute.
// A repeated mute refreshes the expiry rather than stacking. Returns the new
// expiry.
func (r *MuteRegistry) Mute(userID int64, now time.Time, duration time.Duration) time.Time {
	expiry := now.Add(duration)
	r.expiries[userID] = expiry
	return expiry
}

// IsMuted reports whether the user has an unexpired mute. Expired records are
// evicted on read; no background sweep exists.
func (r *MuteRegistry) IsMuted(userID int64, now time.Time) bool {
	expiry, ok := r.expiries[userID]
	if !ok {
		return false
	}
	if !now.Before(expiry) {
		delete(r.expiries, userID)
		return false
	}
	return true
}

// Unmute lifts the user's mute. Unmuting a user without an active mute is a
// no-op.
func (r *MuteRegistry) Unmute(userID int64) {
	delete(r.expiries, userID)
}
