package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"echobackend/internal/domain"
	"echobackend/internal/metrics"
)

// LifecycleService is the sweep plus the completion gateway: it recomputes
// expirations and eligibility in bulk, and finalizes chats into completed
// connections, archives, or fresh rekindle cycles.
type LifecycleService struct {
	chats   domain.ChatRepository
	invites domain.InviteRepository
	clock   domain.Clock
	sink    domain.EventSink
	limits  Limits
}

func NewLifecycleService(
	chats domain.ChatRepository,
	invites domain.InviteRepository,
	clock domain.Clock,
	sink domain.EventSink,
	limits Limits,
) *LifecycleService {
	return &LifecycleService{
		chats:   chats,
		invites: invites,
		clock:   clock,
		sink:    sink,
		limits:  limits,
	}
}

// SweepResult reports what a sweep changed.
type SweepResult struct {
	InvitesExpired int64
	ChatsExpired   int64
	ChatsEligible  int64
}

// Sweep recomputes expirations and completion eligibility for everything
// overdue. Idempotent: running it twice produces the same state, and the
// same transitions happen lazily on read, so a missed run self-heals.
func (s *LifecycleService) Sweep(ctx context.Context) (SweepResult, error) {
	now := s.clock.Now()
	var res SweepResult
	var err error

	if res.InvitesExpired, err = s.invites.ExpirePending(ctx, now); err != nil {
		return res, fmt.Errorf("expire invites: %w", err)
	}
	if res.ChatsEligible, err = s.chats.MarkCompletionEligible(ctx, now.Add(-s.limits.CompletionAfter)); err != nil {
		return res, fmt.Errorf("mark eligible: %w", err)
	}
	if res.ChatsExpired, err = s.chats.ExpireOverdue(ctx, now); err != nil {
		return res, fmt.Errorf("expire chats: %w", err)
	}

	metrics.SweepRuns.Inc()
	metrics.SweepTransitions.WithLabelValues("invite_expired").Add(float64(res.InvitesExpired))
	metrics.SweepTransitions.WithLabelValues("chat_expired").Add(float64(res.ChatsExpired))
	metrics.SweepTransitions.WithLabelValues("chat_eligible").Add(float64(res.ChatsEligible))
	return res, nil
}

// Complete finalizes a limited chat into a full connection. The emitted
// event is what the external match system consumes; the gateway itself
// does not manage the resulting open-ended relationship.
func (s *LifecycleService) Complete(ctx context.Context, chatID, completerID string) (*domain.LimitedChat, error) {
	now := s.clock.Now()
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if !chat.HasParticipant(completerID) {
		return nil, domain.ErrNotParticipant
	}
	if chat.Status != domain.ChatStatusActive {
		return nil, domain.ErrNotEligible
	}
	if !now.Before(chat.ExpiresAt) {
		_ = s.chats.MarkExpired(ctx, chat.ID)
		return nil, domain.ErrNotEligible
	}
	if !domain.CompletionEligible(chat, now, s.limits.CompletionAfter) {
		return nil, domain.ErrNotEligible
	}

	// Guarded active -> completed; a concurrent Complete or Archive
	// loses the race here and reports the conflict.
	if err := s.chats.Complete(ctx, chat.ID, now); err != nil {
		return nil, err
	}
	chat.Status = domain.ChatStatusCompleted
	chat.CompletedAt = &now

	metrics.ConnectionsCompleted.Inc()
	s.sink.Publish(ctx, domain.Event{
		Name:       domain.EventConnectionCompleted,
		ChatID:     chat.ID,
		User1ID:    chat.User1ID,
		User2ID:    chat.User2ID,
		OccurredAt: now,
	})
	return chat, nil
}

// Archive soft-retires a chat once it is past the completion mark. The
// message history is preserved; nothing is deleted.
func (s *LifecycleService) Archive(ctx context.Context, chatID, actorID string) (*domain.LimitedChat, error) {
	now := s.clock.Now()
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if !chat.HasParticipant(actorID) {
		return nil, domain.ErrNotParticipant
	}
	if chat.Status != domain.ChatStatusActive {
		return nil, domain.ErrNotEligible
	}
	if chat.Age(now) <= s.limits.CompletionAfter && now.Before(chat.ExpiresAt) {
		return nil, domain.ErrNotEligible
	}

	if err := s.chats.Archive(ctx, chat.ID, now); err != nil {
		return nil, err
	}
	chat.Status = domain.ChatStatusArchived
	chat.ArchivedAt = &now

	s.sink.Publish(ctx, domain.Event{
		Name:       domain.EventChatArchived,
		ChatID:     chat.ID,
		User1ID:    chat.User1ID,
		User2ID:    chat.User2ID,
		OccurredAt: now,
	})
	return chat, nil
}

// Rekindle starts a fresh invite cycle from a retired chat: a new pending
// invite toward the other participant, with no backing note and a clean
// slate for counters. The retired chat itself is never mutated.
func (s *LifecycleService) Rekindle(ctx context.Context, chatID, actorID, message string) (*domain.ResponseInvite, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: invite message cannot be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(message) > s.limits.InviteMessageMaxChars {
		return nil, fmt.Errorf("%w: invite message exceeds %d characters", domain.ErrValidation, s.limits.InviteMessageMaxChars)
	}

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if !chat.HasParticipant(actorID) {
		return nil, domain.ErrNotParticipant
	}
	if chat.Status != domain.ChatStatusArchived && chat.Status != domain.ChatStatusExpired {
		return nil, domain.ErrNotEligible
	}

	now := s.clock.Now()
	inv := &domain.ResponseInvite{
		ID:          uuid.NewString(),
		SenderID:    actorID,
		RecipientID: chat.OtherParticipant(actorID),
		Message:     message,
		Status:      domain.InviteStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.limits.InviteTTL),
	}
	if err := s.invites.Create(ctx, inv); err != nil {
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
