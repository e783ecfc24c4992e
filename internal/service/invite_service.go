package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"echobackend/internal/domain"
	"echobackend/internal/metrics"
)

// InviteService converts quiet notes into bounded-lifetime invitations and
// owns the pending -> accepted/declined/expired transitions.
type InviteService struct {
	notes   domain.QuietNoteRepository
	invites domain.InviteRepository
	clock   domain.Clock
	sink    domain.EventSink
	limits  Limits
}

func NewInviteService(
	notes domain.QuietNoteRepository,
	invites domain.InviteRepository,
	clock domain.Clock,
	sink domain.EventSink,
	limits Limits,
) *InviteService {
	return &InviteService{
		notes:   notes,
		invites: invites,
		clock:   clock,
		sink:    sink,
		limits:  limits,
	}
}

// Create derives an invite from a quiet note. Only the note's recipient
// may respond, and a note yields at most one invite ever.
func (s *InviteService) Create(ctx context.Context, quietNoteID, responderID, message string) (*domain.ResponseInvite, error) {
	if err := s.validateMessage(message); err != nil {
		return nil, err
	}

	n, err := s.notes.GetByID(ctx, quietNoteID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	if n.RecipientID != responderID {
		return nil, domain.ErrNotRecipient
	}
	if n.InviteSent {
		return nil, domain.ErrAlreadyInvited
	}

	now := s.clock.Now()
	inv := &domain.ResponseInvite{
		ID:          uuid.NewString(),
		QuietNoteID: &n.ID,
		SenderID:    responderID,
		RecipientID: n.SenderID,
		Message:     message,
		Status:      domain.InviteStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.limits.InviteTTL),
	}
	// The guarded transaction re-checks invite_sent, so two racing
	// responders cannot both derive an invite from the same note.
	if err := s.invites.CreateFromNote(ctx, inv); err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, domain.Event{
		Name:       domain.EventInviteCreated,
		InviteID:   inv.ID,
		User1ID:    inv.SenderID,
		User2ID:    inv.RecipientID,
		OccurredAt: now,
	})
	return inv, nil
}

// Accept transitions the invite to accepted and constructs the limited
// chat as one unit. If Accept returns an error, no chat exists.
func (s *InviteService) Accept(ctx context.Context, inviteID, accepterID string) (*domain.LimitedChat, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.RecipientID != accepterID {
		return nil, domain.ErrNotAuthorized
	}
	if inv.Status != domain.InviteStatusPending {
		return nil, domain.ErrNotPending
	}

	now := s.clock.Now()
	if !now.Before(inv.ExpiresAt) {
		// Lazy check-on-read stands in for a missed sweep.
		_ = s.invites.UpdateStatus(ctx, inv.ID, domain.InviteStatusPending, domain.InviteStatusExpired)
		return nil, domain.ErrInviteExpired
	}

	chat := &domain.LimitedChat{
		ID:                   uuid.NewString(),
		ResponseInviteID:     inv.ID,
		User1ID:              inv.SenderID,
		User2ID:              inv.RecipientID,
		Status:               domain.ChatStatusActive,
		DailyMessageLimit:    s.limits.DailyMessageLimit,
		CharacterLimit:       s.limits.CharacterLimit,
		MessagePaceHours:     s.limits.MessagePaceHours,
		SingleThreadEnforced: s.limits.SingleThreadEnforced,
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.limits.ChatTTL),
	}
	if err := s.invites.Accept(ctx, inv.ID, chat); err != nil {
		return nil, err
	}

	metrics.ChatsCreated.Inc()
	s.sink.Publish(ctx, domain.Event{
		Name:       domain.EventChatCreated,
		InviteID:   inv.ID,
		ChatID:     chat.ID,
		User1ID:    chat.User1ID,
		User2ID:    chat.User2ID,
		OccurredAt: now,
	})
	return chat, nil
}

// Decline is terminal and symmetric to Accept: recipient-only, pending-only.
func (s *InviteService) Decline(ctx context.Context, inviteID, declinerID string) error {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("get invite: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.RecipientID != declinerID {
		return domain.ErrNotAuthorized
	}
	if inv.Status != domain.InviteStatusPending {
		return domain.ErrNotPending
	}
	if !s.clock.Now().Before(inv.ExpiresAt) {
		_ = s.invites.UpdateStatus(ctx, inv.ID, domain.InviteStatusPending, domain.InviteStatusExpired)
		return domain.ErrInviteExpired
	}
	return s.invites.UpdateStatus(ctx, inv.ID, domain.InviteStatusPending, domain.InviteStatusDeclined)
}

// ListForUser returns the caller's invites in both directions. Stale
// pending invites are expired lazily so a missed sweep never shows a
// pending invite past its window.
func (s *InviteService) ListForUser(ctx context.Context, userID string) ([]*domain.ResponseInvite, error) {
	invs, err := s.invites.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	nowAt := s.clock.Now()
	for _, inv := range invs {
		if inv.Status == domain.InviteStatusPending && !nowAt.Before(inv.ExpiresAt) {
			if err := s.invites.UpdateStatus(ctx, inv.ID, domain.InviteStatusPending, domain.InviteStatusExpired); err == nil {
				inv.Status = domain.InviteStatusExpired
			}
		}
	}
	return invs, nil
}

func (s *InviteService) validateMessage(message string) error {
	if message == "" {
		return fmt.Errorf("%w: invite message cannot be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(message) > s.limits.InviteMessageMaxChars {
		return fmt.Errorf("%w: invite message exceeds %d characters", domain.ErrValidation, s.limits.InviteMessageMaxChars)
	}
	return nil
}
