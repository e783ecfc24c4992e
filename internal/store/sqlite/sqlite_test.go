package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"echobackend/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedInvite inserts a pending invite with no backing note.
func seedInvite(t *testing.T, repo *InviteRepo, sender, recipient string, now time.Time) *domain.ResponseInvite {
	t.Helper()
	inv := &domain.ResponseInvite{
		ID:          uuid.NewString(),
		SenderID:    sender,
		RecipientID: recipient,
		Message:     "let's keep talking",
		Status:      domain.InviteStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(48 * time.Hour),
	}
	if err := repo.Create(context.Background(), inv); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
	return inv
}

// seedChat accepts a fresh invite, creating an active chat for the pair.
func seedChat(t *testing.T, invites *InviteRepo, user1, user2 string, now time.Time, dailyLimit int) *domain.LimitedChat {
	t.Helper()
	inv := seedInvite(t, invites, user1, user2, now)
	chat := &domain.LimitedChat{
		ID:                   uuid.NewString(),
		ResponseInviteID:     inv.ID,
		User1ID:              user1,
		User2ID:              user2,
		Status:               domain.ChatStatusActive,
		DailyMessageLimit:    dailyLimit,
		CharacterLimit:       500,
		MessagePaceHours:     0,
		SingleThreadEnforced: false,
		CreatedAt:            now,
		ExpiresAt:            now.Add(14 * 24 * time.Hour),
	}
	if err := invites.Accept(context.Background(), inv.ID, chat); err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return chat
}
