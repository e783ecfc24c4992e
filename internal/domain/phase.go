package domain

import "time"

// LifecyclePhase is the derived stage of a limited chat. It is never
// stored: it is recomputed from timestamps and flags on every read.
type LifecyclePhase string

const (
	PhaseListening         LifecyclePhase = "listening"
	PhaseNudge             LifecyclePhase = "nudge"
	PhaseCompletionMoment  LifecyclePhase = "completion_moment"
	PhaseArchiveOrRekindle LifecyclePhase = "archive_or_rekindle"
	PhaseCompleted         LifecyclePhase = "completed"
	PhaseArchived          LifecyclePhase = "archived"
	PhaseExpired           LifecyclePhase = "expired"
)

// PhaseParams fixes the day marks the projection is computed against.
type PhaseParams struct {
	NudgeAfter      time.Duration // start of the nudge window, typically 3 days
	CompletionAfter time.Duration // completion eligibility mark, typically 7 days
}

// Phase projects a chat's lifecycle stage at the given instant. It is a
// pure function of stored state: no caching, no mutation, recomputable from
// cold storage. Expiry is inclusive of the boundary instant.
func Phase(c *LimitedChat, now time.Time, p PhaseParams) LifecyclePhase {
	switch c.Status {
	case ChatStatusCompleted:
		return PhaseCompleted
	case ChatStatusArchived:
		return PhaseArchived
	case ChatStatusExpired:
		return PhaseExpired
	}
	if !now.Before(c.ExpiresAt) {
		return PhaseExpired
	}
	age := c.Age(now)
	switch {
	case age < p.NudgeAfter:
		return PhaseListening
	case age < p.CompletionAfter:
		return PhaseNudge
	case age < p.CompletionAfter+24*time.Hour:
		return PhaseCompletionMoment
	default:
		return PhaseArchiveOrRekindle
	}
}

// CompletionEligible reports whether the chat has reached the completion
// mark. Once the stored flag is set the result is true regardless of the
// clock: eligibility is monotonic and never re-evaluated backward.
func CompletionEligible(c *LimitedChat, now time.Time, completionAfter time.Duration) bool {
	if c.CanCompleteConnection {
		return true
	}
	return c.Age(now) >= completionAfter
}
