package domain

import (
	"context"
	"time"
)

// Event names emitted to the notification and match systems.
const (
	EventInviteCreated       = "InviteCreated"
	EventChatCreated         = "ChatCreated"
	EventConnectionCompleted = "ConnectionCompleted"
	EventChatArchived        = "ChatArchived"
)

// Event is a domain event. The core only emits events; formatting and
// delivering notifications is the consumer's job.
type Event struct {
	Name       string    `json:"name"`
	InviteID   string    `json:"invite_id,omitempty"`
	ChatID     string    `json:"chat_id,omitempty"`
	User1ID    string    `json:"user1_id,omitempty"`
	User2ID    string    `json:"user2_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventSink receives domain events for external delivery. Publishing is
// best-effort: a lost notification never rolls back a lifecycle transition.
type EventSink interface {
	Publish(ctx context.Context, e Event)
}
