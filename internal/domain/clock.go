package domain

import "time"

// Clock supplies the current instant. Every time-gated check takes its
// "now" from an injected Clock rather than a process-global one, so tests
// can simulate day rollovers and multi-day aging deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock. Instants are UTC and truncated to
// whole seconds so stored timestamps compare consistently.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// DayOf returns the UTC calendar day the given instant belongs to, in
// YYYY-MM-DD form. Rollover happens at UTC midnight: a message at 23:59:59
// and one at 00:00:01 belong to different counters.
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
