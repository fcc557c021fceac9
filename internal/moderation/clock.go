package moderation

import "time"

// Clock supplies the current time. Components that need wall-clock time take
// a Clock so tests can drive them with a fixed or stepped time source.
type Clock interface {
	Now() time.Time
}

// SystemClock returns a Clock backed by time.Now in UTC.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
