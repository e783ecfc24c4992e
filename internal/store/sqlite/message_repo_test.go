package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageRepo(t *testing.T) {
	db := newTestDB(t)
	invites := NewInviteRepo(db)
	chats := NewChatRepo(db)
	messages := NewMessageRepo(db)
	ctx := context.Background()

	chat := seedChat(t, invites, "alice", "bob", baseTime, 10)

	first := newMessage(chat.ID, "alice", baseTime)
	second := newMessage(chat.ID, "bob", baseTime.Add(time.Hour))
	third := newMessage(chat.ID, "alice", baseTime.Add(2*time.Hour))
	assert.NoError(t, chats.RecordSend(ctx, first, "2026-01-05", 0))
	assert.NoError(t, chats.RecordSend(ctx, second, "2026-01-05", 0))
	assert.NoError(t, chats.RecordSend(ctx, third, "2026-01-05", 0))

	t.Run("ListIsChronological", func(t *testing.T) {
		msgs, err := messages.ListForChat(ctx, chat.ID)
		assert.NoError(t, err)
		if assert.Len(t, msgs, 3) {
			assert.Equal(t, first.ID, msgs[0].ID)
			assert.Equal(t, second.ID, msgs[1].ID)
			assert.Equal(t, third.ID, msgs[2].ID)
		}
	})

	t.Run("LastSentAtPerSender", func(t *testing.T) {
		at, err := messages.LastSentAt(ctx, chat.ID, "alice")
		assert.NoError(t, err)
		if assert.NotNil(t, at) {
			assert.True(t, at.Equal(third.CreatedAt))
		}

		at, err = messages.LastSentAt(ctx, chat.ID, "carol")
		assert.NoError(t, err)
		assert.Nil(t, at)
	})

	t.Run("MarkReadFromOther", func(t *testing.T) {
		assert.NoError(t, messages.MarkReadFromOther(ctx, chat.ID, "bob"))

		msgs, err := messages.ListForChat(ctx, chat.ID)
		assert.NoError(t, err)
		for _, m := range msgs {
			if m.SenderID == "alice" {
				assert.True(t, m.IsRead)
			} else {
				assert.False(t, m.IsRead)
			}
		}
	})
}
