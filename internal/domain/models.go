package domain

import "time"

// ResponseInvite status values. Transitions are pending -> accepted,
// pending -> declined, or pending -> expired; everything else is terminal.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

// LimitedChat status values. Chats are soft-retired, never hard-deleted.
const (
	ChatStatusActive    = "active"
	ChatStatusCompleted = "completed"
	ChatStatusArchived  = "archived"
	ChatStatusExpired   = "expired"
)

// QuietNote is a one-way anonymous note, the entry point of the lifecycle.
// Immutable once created except for the is_read and invite_sent flags.
type QuietNote struct {
	ID          string    `db:"id" json:"id"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Text        string    `db:"note_text" json:"note_text"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	InviteSent  bool      `db:"invite_sent" json:"invite_sent"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ResponseInvite is a time-bounded offer to upgrade a quiet note into a
// limited chat. QuietNoteID is nil for rekindle invites, which have no
// backing note.
type ResponseInvite struct {
	ID          string    `db:"id" json:"id"`
	QuietNoteID *string   `db:"quiet_note_id" json:"quiet_note_id,omitempty"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Message     string    `db:"invite_message" json:"invite_message"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}

// LimitedChat is the bounded conversation created when an invite is
// accepted. LastMessageDate is a UTC calendar day (YYYY-MM-DD); together
// with MessageCount it forms the chat's own per-day cap, independent of the
// global daily counter.
type LimitedChat struct {
	ID                    string     `db:"id" json:"id"`
	ResponseInviteID      string     `db:"response_invite_id" json:"response_invite_id"`
	User1ID               string     `db:"user1_id" json:"user1_id"`
	User2ID               string     `db:"user2_id" json:"user2_id"`
	Status                string     `db:"status" json:"status"`
	DailyMessageLimit     int        `db:"daily_message_limit" json:"daily_message_limit"`
	CharacterLimit        int        `db:"character_limit" json:"character_limit"`
	MessagePaceHours      int        `db:"message_pace_hours" json:"message_pace_hours"`
	MessageCount          int        `db:"message_count" json:"message_count"`
	LastMessageDate       *string    `db:"last_message_date" json:"last_message_date,omitempty"`
	CanCompleteConnection bool       `db:"can_complete_connection" json:"can_complete_connection"`
	SingleThreadEnforced  bool       `db:"single_thread_enforced" json:"single_thread_enforced"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt             time.Time  `db:"expires_at" json:"expires_at"`
	CompletedAt           *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	ArchivedAt            *time.Time `db:"archived_at" json:"archived_at,omitempty"`
}

// HasParticipant reports whether the given user is a member of the chat.
func (c *LimitedChat) HasParticipant(userID string) bool {
	return userID == c.User1ID || userID == c.User2ID
}

// OtherParticipant returns the counterpart of the given user, or "" if the
// user is not a participant.
func (c *LimitedChat) OtherParticipant(userID string) string {
	switch userID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	}
	return ""
}

// Terminal reports whether the chat has been soft-retired.
func (c *LimitedChat) Terminal() bool {
	return c.Status != ChatStatusActive
}

// Age returns how long the chat has existed at the given instant.
func (c *LimitedChat) Age(now time.Time) time.Duration {
	return now.Sub(c.CreatedAt)
}

// LimitedMessage belongs to exactly one chat and is immutable after
// creation; there are no edits in a limited chat.
type LimitedMessage struct {
	ID             string    `db:"id" json:"id"`
	ChatID         string    `db:"chat_id" json:"chat_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	Text           string    `db:"message_text" json:"message_text"`
	CharacterCount int       `db:"character_count" json:"character_count"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// DailyCounter is the per-(user, calendar day) message counter backing the
// global free-tier quota. Rows are created on first increment and never
// decremented; there is no reset job because the key includes the day.
type DailyCounter struct {
	UserID string `db:"user_id" json:"user_id"`
	Day    string `db:"day" json:"day"`
	Count  int    `db:"count" json:"count"`
}
