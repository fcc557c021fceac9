package moderation

import "sort"

// Entry is one leaderboard row.
type Entry struct {
	UserID int64
	Score  int
}

// ActivityLedger counts qualifying messages per user in a single chat. The
// engine decides eligibility; the ledger only counts. Not safe for concurrent
// use; the engine serializes access per chat.
type ActivityLedger struct {
	counts map[int64]int

	// order records the first-counted sequence of users. TopN sorts by
	// score descending with a stable sort over this order, so ties go to
	// whoever reached the board first.
	order []int64
}

// NewActivityLedger creates an empty ledger.
func NewActivityLedger() *ActivityLedger {
	return &ActivityLedger{counts: make(map[int64]int)}
}

// Increment credits one message to the user.
func (l *ActivityLedger) Increment(userID int64) {
	if _, ok := l.counts[userID]; !ok {
		l.order = append(l.order, userID)
	}
	l.counts[userID]++
}

// Len returns the number of users with at least one counted message.
func (l *ActivityLedger) Len() int {
	return len(l.counts)
}

// TopN returns up to n entries ordered by score descending. Ties are broken
// by first-counted order.
func (l *ActivityLedger) TopN(n int) []Entry {
	if n <= 0 || len(l.counts) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(l.order))
	for _, userID := range l.order {
		entries = append(entries, Entry{UserID: userID, Score: l.counts[userID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Rank returns the 1-based position and score of the user in the descending
// ordering, or ErrNoActivity if the user has no counter.
func (l *ActivityLedger) Rank(userID int64) (int, int, error) {
	score, ok := l.counts[userID]
	if !ok {
		return 0, 0, ErrNoActivity
	}
	for i, e := range l.TopN(len(l.counts)) {
		if e.UserID == userID {
			return i + 1, score, nil
		}
	}
	// Unreachable: the user is in counts, so TopN over all users contains it.
	return 0, 0, ErrNoActivity
}

// Clear drops every counter, starting a fresh period.
func (l *ActivityLedger) Clear() {
	l.counts = make(map[int64]int)
	l.order = nil
}
