package domain

import "errors"

// Sentinel errors for the application. Handlers map these to HTTP status
// codes; every state-conflict rejection has its own sentinel so clients can
// tell "come back later" apart from "daily limit reached".
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("invalid input")
	ErrNotAuthorized = errors.New("not authorized")
	ErrInternal      = errors.New("internal server error")

	ErrNotParticipant = errors.New("not a participant in this chat")
	ErrNotRecipient   = errors.New("not the recipient of this note")

	ErrAlreadyInvited    = errors.New("an invite has already been sent for this note")
	ErrNotPending        = errors.New("invite is no longer pending")
	ErrInviteExpired     = errors.New("invite has expired")
	ErrChatExpired       = errors.New("chat has expired or is closed")
	ErrMessageTooLong    = errors.New("message exceeds the chat character limit")
	ErrDailyLimitReached = errors.New("daily message limit reached")
	ErrTooSoon           = errors.New("message pacing window has not elapsed")
	ErrNotEligible       = errors.New("connection is not eligible for completion")
	ErrActiveChatExists  = errors.New("an active chat already exists for this pair")
)
