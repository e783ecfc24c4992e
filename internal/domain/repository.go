package domain

import (
	"context"
	"time"
)

// QuietNoteRepository defines persistence operations for quiet notes.
type QuietNoteRepository interface {
	Create(ctx context.Context, n *QuietNote) error
	GetByID(ctx context.Context, id string) (*QuietNote, error)
	ListForRecipient(ctx context.Context, userID string) ([]*QuietNote, error)
	ListForSender(ctx context.Context, userID string) ([]*QuietNote, error)
	MarkRead(ctx context.Context, id string) error
}

// InviteRepository defines persistence operations for response invites.
type InviteRepository interface {
	// Create inserts an invite with no backing note (rekindle cycles).
	Create(ctx context.Context, inv *ResponseInvite) error
	// CreateFromNote atomically flips the note's invite_sent flag and
	// inserts the invite. Returns ErrAlreadyInvited if the flag was
	// already set, in either order under concurrency.
	CreateFromNote(ctx context.Context, inv *ResponseInvite) error
	GetByID(ctx context.Context, id string) (*ResponseInvite, error)
	ListForUser(ctx context.Context, userID string) ([]*ResponseInvite, error)
	// Accept transitions the invite pending -> accepted and inserts the
	// chat in a single transaction. No reader may ever observe an
	// accepted invite without its chat. Returns ErrNotPending if the
	// invite is not pending, ErrActiveChatExists if the pair already has
	// an active chat and the new chat enforces a single thread.
	Accept(ctx context.Context, inviteID string, chat *LimitedChat) error
	// UpdateStatus performs a guarded transition; returns ErrNotPending
	// if the invite was not in the from status.
	UpdateStatus(ctx context.Context, id, from, to string) error
	// ExpirePending marks every pending invite whose expiry has passed.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// ChatRepository defines persistence operations for limited chats.
type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*LimitedChat, error)
	ListForUser(ctx context.Context, userID string) ([]*LimitedChat, error)
	// RecordSend applies the atomic check-and-increment for a send: the
	// chat's per-day cap (with day rollover), the sender's global daily
	// counter, and the message insert commit or fail as one unit.
	// Returns ErrDailyLimitReached when either quota is exhausted,
	// ErrChatExpired when the chat is no longer active.
	RecordSend(ctx context.Context, m *LimitedMessage, day string, globalLimit int) error
	// Complete transitions active -> completed; ErrNotEligible if the
	// chat was not active.
	Complete(ctx context.Context, id string, at time.Time) error
	// Archive transitions active -> archived; ErrNotEligible if the chat
	// was not active.
	Archive(ctx context.Context, id string, at time.Time) error
	// MarkExpired soft-retires a single overdue chat (lazy path).
	MarkExpired(ctx context.Context, id string) error
	// SetCompletionEligible flips can_complete_connection for one chat.
	SetCompletionEligible(ctx context.Context, id string) error
	// ExpireOverdue retires every active chat whose expiry has passed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	// MarkCompletionEligible flips eligibility for every active chat
	// created at or before the cutoff. Idempotent.
	MarkCompletionEligible(ctx context.Context, cutoff time.Time) (int64, error)
}

// MessageRepository defines read and bookkeeping operations for limited
// messages; inserts happen through ChatRepository.RecordSend.
type MessageRepository interface {
	ListForChat(ctx context.Context, chatID string) ([]*LimitedMessage, error)
	// LastSentAt returns the creation time of the sender's most recent
	// message in the chat, or nil if they have not sent one.
	LastSentAt(ctx context.Context, chatID, senderID string) (*time.Time, error)
	// MarkReadFromOther marks every message not sent by the reader as
	// read. Idempotent.
	MarkReadFromOther(ctx context.Context, chatID, readerID string) error
}

// DailyCounterRepository is the atomic day-keyed quota store.
type DailyCounterRepository interface {
	// TryIncrement atomically increments the (userID, day) counter if it
	// is below limit. Under concurrent callers exactly as many
	// increments as fit under the limit succeed; the rest observe
	// allowed=false with no side effects.
	TryIncrement(ctx context.Context, userID, day string, limit int) (allowed bool, remaining int, err error)
	Get(ctx context.Context, userID, day string) (int, error)
}
