package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteRepo(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteRepo(db)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		n := seedNote(t, notes, "alice", "bob")

		got, err := notes.GetByID(ctx, n.ID)
		assert.NoError(t, err)
		assert.Equal(t, n.Text, got.Text)
		assert.False(t, got.IsRead)
		assert.False(t, got.InviteSent)
		assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("GetMissing", func(t *testing.T) {
		got, err := notes.GetByID(ctx, "no-such-note")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ListsAreDirectional", func(t *testing.T) {
		n := seedNote(t, notes, "carol", "dan")

		received, err := notes.ListForRecipient(ctx, "dan")
		assert.NoError(t, err)
		assert.Len(t, received, 1)
		assert.Equal(t, n.ID, received[0].ID)

		sent, err := notes.ListForSender(ctx, "carol")
		assert.NoError(t, err)
		assert.Len(t, sent, 1)

		none, err := notes.ListForRecipient(ctx, "carol")
		assert.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("MarkRead", func(t *testing.T) {
		n := seedNote(t, notes, "erin", "frank")

		assert.NoError(t, notes.MarkRead(ctx, n.ID))

		got, err := notes.GetByID(ctx, n.ID)
		assert.NoError(t, err)
		assert.True(t, got.IsRead)
	})
}
