package service

import "time"

// Limits carries the lifecycle knobs shared by the services. Values come
// from configuration; defaults live in the config package.
type Limits struct {
	NoteMaxChars          int
	InviteMessageMaxChars int
	InviteTTL             time.Duration
	ChatTTL               time.Duration
	DailyMessageLimit     int
	GlobalDailyLimit      int
	CharacterLimit        int
	MessagePaceHours      int
	NudgeAfter            time.Duration
	CompletionAfter       time.Duration
	SingleThreadEnforced  bool
}
