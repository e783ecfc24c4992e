package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echobackend/internal/domain"
)

func TestSendMessageDailyCap(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, defaultLimits())
	chat := startChat(t, e, "alice", "bob")

	for i := 0; i < 5; i++ {
		_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "hello")
		assert.NoError(t, err)
	}
	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "one too many")
	assert.ErrorIs(t, err, domain.ErrDailyLimitReached)

	// The cap is per chat per day, shared by both participants.
	_, err = e.chats.SendMessage(ctx, chat.ID, "bob", "me neither")
	assert.ErrorIs(t, err, domain.ErrDailyLimitReached)

	// Next UTC day the counter starts over.
	e.clock.Advance(24 * time.Hour)
	msg, err := e.chats.SendMessage(ctx, chat.ID, "alice", "new day")
	assert.NoError(t, err)
	assert.Equal(t, "alice", msg.SenderID)

	got, err := e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, 1, got.MessageCount)
}

func TestSendMessagePacing(t *testing.T) {
	ctx := context.Background()
	limits := defaultLimits()
	limits.MessagePaceHours = 4
	e := newEnv(t, limits)
	chat := startChat(t, e, "alice", "bob")

	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "first")
	assert.NoError(t, err)

	e.clock.Advance(2 * time.Hour)
	_, err = e.chats.SendMessage(ctx, chat.ID, "alice", "too soon")
	assert.ErrorIs(t, err, domain.ErrTooSoon)

	// Pacing is per sender; the other participant is not throttled.
	_, err = e.chats.SendMessage(ctx, chat.ID, "bob", "hi")
	assert.NoError(t, err)

	// Exactly the pace interval is allowed.
	e.clock.Advance(2 * time.Hour)
	_, err = e.chats.SendMessage(ctx, chat.ID, "alice", "four hours later")
	assert.NoError(t, err)
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, defaultLimits())
	chat := startChat(t, e, "alice", "bob")

	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.chats.SendMessage(ctx, chat.ID, "alice", strings.Repeat("x", 501))
	assert.ErrorIs(t, err, domain.ErrMessageTooLong)

	_, err = e.chats.SendMessage(ctx, chat.ID, "carol", "let me in")
	assert.ErrorIs(t, err, domain.ErrNotParticipant)

	_, err = e.chats.SendMessage(ctx, "no-such-chat", "alice", "hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendMessageExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, defaultLimits())
	chat := startChat(t, e, "alice", "bob")

	// A send at exactly expires_at is rejected, and the read path now
	// reports the chat expired without any sweep having run.
	e.clock.Advance(14 * 24 * time.Hour)
	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "last words")
	assert.ErrorIs(t, err, domain.ErrChatExpired)

	got, err := e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, domain.ChatStatusExpired, got.Status)
}

func TestSendMessageGlobalQuota(t *testing.T) {
	ctx := context.Background()
	limits := defaultLimits()
	limits.DailyMessageLimit = 10
	limits.GlobalDailyLimit = 3
	e := newEnv(t, limits)
	chat := startChat(t, e, "alice", "bob")

	for i := 0; i < 3; i++ {
		_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "hello")
		assert.NoError(t, err)
	}
	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "over budget")
	assert.ErrorIs(t, err, domain.ErrDailyLimitReached)

	remaining, err := e.chats.GlobalRemaining(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// The rejected send consumed no chat quota.
	got, err := e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, 3, got.MessageCount)

	remaining, err = e.chats.GlobalRemaining(ctx, "bob")
	assert.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestChatViewPhases(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, defaultLimits())
	chat := startChat(t, e, "alice", "bob")

	view := e.chats.ToView(chat)
	assert.Equal(t, domain.PhaseListening, view.Phase)
	assert.Equal(t, 5, view.RemainingToday)
	assert.True(t, view.CompletionAvailableAt.Equal(testStart.Add(7*24*time.Hour)))

	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "hello")
	assert.NoError(t, err)
	got, err := e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, 4, e.chats.ToView(got).RemainingToday)

	e.clock.Advance(3 * 24 * time.Hour)
	got, err = e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	view = e.chats.ToView(got)
	assert.Equal(t, domain.PhaseNudge, view.Phase)
	// Yesterday's count no longer eats into today's allowance.
	assert.Equal(t, 5, view.RemainingToday)
	assert.False(t, view.CanCompleteConnection)

	e.clock.Advance(4 * 24 * time.Hour)
	got, err = e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	view = e.chats.ToView(got)
	assert.Equal(t, domain.PhaseCompletionMoment, view.Phase)
	assert.True(t, view.CanCompleteConnection)

	e.clock.Advance(24 * time.Hour)
	got, err = e.chats.Get(ctx, chat.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, domain.PhaseArchiveOrRekindle, e.chats.ToView(got).Phase)
}

func TestMarkMessagesRead(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, defaultLimits())
	chat := startChat(t, e, "alice", "bob")

	_, err := e.chats.SendMessage(ctx, chat.ID, "alice", "hello")
	assert.NoError(t, err)
	_, err = e.chats.SendMessage(ctx, chat.ID, "bob", "hi")
	assert.NoError(t, err)

	assert.ErrorIs(t, e.chats.MarkMessagesRead(ctx, chat.ID, "carol"), domain.ErrNotParticipant)
	assert.NoError(t, e.chats.MarkMessagesRead(ctx, chat.ID, "bob"))

	msgs, err := e.chats.ListMessages(ctx, chat.ID, "bob")
	assert.NoError(t, err)
	if assert.Len(t, msgs, 2) {
		for _, m := range msgs {
			assert.Equal(t, m.SenderID == "alice", m.IsRead)
		}
	}

	// Idempotent.
	assert.NoError(t, e.chats.MarkMessagesRead(ctx, chat.ID, "bob"))
}
