package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echobackend/internal/domain"
)

var phaseParams = domain.PhaseParams{
	NudgeAfter:      3 * 24 * time.Hour,
	CompletionAfter: 7 * 24 * time.Hour,
}

func activeChat(createdAt time.Time) *domain.LimitedChat {
	return &domain.LimitedChat{
		Status:    domain.ChatStatusActive,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(14 * 24 * time.Hour),
	}
}

func TestPhase(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		after time.Duration
		want  domain.LifecyclePhase
	}{
		{"FreshChatIsListening", 0, domain.PhaseListening},
		{"JustUnderThreeDays", 3*24*time.Hour - time.Second, domain.PhaseListening},
		{"ExactlyThreeDaysIsNudge", 3 * 24 * time.Hour, domain.PhaseNudge},
		{"SixDaysIsNudge", 6 * 24 * time.Hour, domain.PhaseNudge},
		{"ExactlySevenDaysIsCompletionMoment", 7 * 24 * time.Hour, domain.PhaseCompletionMoment},
		{"JustUnderEightDays", 8*24*time.Hour - time.Second, domain.PhaseCompletionMoment},
		{"EightDaysIsArchiveOrRekindle", 8 * 24 * time.Hour, domain.PhaseArchiveOrRekindle},
		{"ThirteenDaysIsArchiveOrRekindle", 13 * 24 * time.Hour, domain.PhaseArchiveOrRekindle},
		{"ExactlyFourteenDaysIsExpired", 14 * 24 * time.Hour, domain.PhaseExpired},
		{"PastExpiryIsExpired", 20 * 24 * time.Hour, domain.PhaseExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := activeChat(createdAt)
			got := domain.Phase(chat, createdAt.Add(tt.after), phaseParams)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhaseTerminalStatusWins(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	// Well past expiry: stored status still decides.
	now := createdAt.Add(30 * 24 * time.Hour)

	tests := []struct {
		status string
		want   domain.LifecyclePhase
	}{
		{domain.ChatStatusCompleted, domain.PhaseCompleted},
		{domain.ChatStatusArchived, domain.PhaseArchived},
		{domain.ChatStatusExpired, domain.PhaseExpired},
	}
	for _, tt := range tests {
		chat := activeChat(createdAt)
		chat.Status = tt.status
		assert.Equal(t, tt.want, domain.Phase(chat, now, phaseParams))
	}
}

func TestCompletionEligible(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	t.Run("BeforeMark", func(t *testing.T) {
		chat := activeChat(createdAt)
		assert.False(t, domain.CompletionEligible(chat, createdAt.Add(week-time.Second), week))
	})

	t.Run("AtMark", func(t *testing.T) {
		chat := activeChat(createdAt)
		assert.True(t, domain.CompletionEligible(chat, createdAt.Add(week), week))
	})

	t.Run("StoredFlagIsMonotonic", func(t *testing.T) {
		chat := activeChat(createdAt)
		chat.CanCompleteConnection = true
		// Even a clock reading before the mark cannot revoke eligibility.
		assert.True(t, domain.CompletionEligible(chat, createdAt, week))
	})
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, "2026-01-05", domain.DayOf(time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "2026-01-06", domain.DayOf(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))
	// Local-time inputs are normalized to UTC before the day is taken.
	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "2026-01-06", domain.DayOf(time.Date(2026, 1, 5, 22, 0, 0, 0, est)))
}

func TestChatHelpers(t *testing.T) {
	chat := &domain.LimitedChat{User1ID: "alice", User2ID: "bob", Status: domain.ChatStatusActive}

	assert.True(t, chat.HasParticipant("alice"))
	assert.False(t, chat.HasParticipant("carol"))
	assert.Equal(t, "bob", chat.OtherParticipant("alice"))
	assert.Equal(t, "alice", chat.OtherParticipant("bob"))
	assert.Equal(t, "", chat.OtherParticipant("carol"))
	assert.False(t, chat.Terminal())

	chat.Status = domain.ChatStatusArchived
	assert.True(t, chat.Terminal())
}
