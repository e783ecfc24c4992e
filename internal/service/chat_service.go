package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"echobackend/internal/domain"
	"echobackend/internal/metrics"
)

// ChatService owns limited chats: the send gate (participant, expiry,
// length, pacing, daily caps) and the read views with derived phase and
// remaining quota.
type ChatService struct {
	chats    domain.ChatRepository
	messages domain.MessageRepository
	counters domain.DailyCounterRepository
	clock    domain.Clock
	limits   Limits
}

func NewChatService(
	chats domain.ChatRepository,
	messages domain.MessageRepository,
	counters domain.DailyCounterRepository,
	clock domain.Clock,
	limits Limits,
) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		counters: counters,
		clock:    clock,
		limits:   limits,
	}
}

// SendMessage runs the full send gate. The quota checks and the message
// insert are one store transaction; everything before them is a read.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, text string) (*domain.LimitedMessage, error) {
	now := s.clock.Now()

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if !chat.HasParticipant(senderID) {
		return nil, s.reject(domain.ErrNotParticipant)
	}
	if err := s.refresh(ctx, chat, now); err != nil {
		return nil, err
	}
	// Expiry is inclusive: a send at exactly expires_at is rejected.
	if chat.Terminal() || !now.Before(chat.ExpiresAt) {
		return nil, s.reject(domain.ErrChatExpired)
	}

	if text == "" {
		return nil, fmt.Errorf("%w: message text cannot be empty", domain.ErrValidation)
	}
	chars := utf8.RuneCountInString(text)
	if chars > chat.CharacterLimit {
		return nil, s.reject(domain.ErrMessageTooLong)
	}

	if chat.MessagePaceHours > 0 {
		last, err := s.messages.LastSentAt(ctx, chatID, senderID)
		if err != nil {
			return nil, fmt.Errorf("last sent at: %w", err)
		}
		pace := time.Duration(chat.MessagePaceHours) * time.Hour
		// A send at exactly the pace boundary is allowed.
		if last != nil && now.Sub(*last) < pace {
			return nil, s.reject(domain.ErrTooSoon)
		}
	}

	msg := &domain.LimitedMessage{
		ID:             uuid.NewString(),
		ChatID:         chatID,
		SenderID:       senderID,
		Text:           text,
		CharacterCount: chars,
		CreatedAt:      now,
	}
	if err := s.chats.RecordSend(ctx, msg, domain.DayOf(now), s.limits.GlobalDailyLimit); err != nil {
		return nil, s.reject(err)
	}

	metrics.MessagesSent.Inc()
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, chatID, userID string) ([]*domain.LimitedMessage, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if !chat.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	return s.messages.ListForChat(ctx, chatID)
}

// MarkMessagesRead marks the other participant's messages read. Idempotent.
func (s *ChatService) MarkMessagesRead(ctx context.Context, chatID, readerID string) error {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return domain.ErrNotFound
	}
	if !chat.HasParticipant(readerID) {
		return domain.ErrNotParticipant
	}
	return s.messages.MarkReadFromOther(ctx, chatID, readerID)
}

func (s *ChatService) Get(ctx context.Context, chatID, userID string) (*domain.LimitedChat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if !chat.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	if err := s.refresh(ctx, chat, s.clock.Now()); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) ListForUser(ctx context.Context, userID string) ([]*domain.LimitedChat, error) {
	chats, err := s.chats.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, chat := range chats {
		if err := s.refresh(ctx, chat, now); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

// GlobalRemaining reports how many sends the user has left today under the
// global free-tier quota.
func (s *ChatService) GlobalRemaining(ctx context.Context, userID string) (int, error) {
	count, err := s.counters.Get(ctx, userID, domain.DayOf(s.clock.Now()))
	if err != nil {
		return 0, err
	}
	remaining := s.limits.GlobalDailyLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// refresh applies the lifecycle transitions lazily on read, so the state a
// caller observes never depends on the background sweep having run.
// Expiry and eligibility recomputation are both idempotent.
func (s *ChatService) refresh(ctx context.Context, chat *domain.LimitedChat, now time.Time) error {
	if chat.Status != domain.ChatStatusActive {
		return nil
	}
	if !now.Before(chat.ExpiresAt) {
		if err := s.chats.MarkExpired(ctx, chat.ID); err != nil {
			return err
		}
		chat.Status = domain.ChatStatusExpired
		return nil
	}
	if !chat.CanCompleteConnection && chat.Age(now) >= s.limits.CompletionAfter {
		if err := s.chats.SetCompletionEligible(ctx, chat.ID); err != nil {
			return err
		}
		chat.CanCompleteConnection = true
	}
	return nil
}

func (s *ChatService) reject(err error) error {
	metrics.SendRejections.WithLabelValues(metrics.RejectReason(err)).Inc()
	return err
}

// ChatView is the client-facing projection of a chat: derived phase and
// remaining quota are computed at read time, never cached across a day
// boundary.
type ChatView struct {
	ID                    string                `json:"id"`
	ResponseInviteID      string                `json:"response_invite_id"`
	User1ID               string                `json:"user1_id"`
	User2ID               string                `json:"user2_id"`
	Status                string                `json:"status"`
	Phase                 domain.LifecyclePhase `json:"phase"`
	DailyMessageLimit     int                   `json:"daily_message_limit"`
	RemainingToday        int                   `json:"remaining_today"`
	CharacterLimit        int                   `json:"character_limit"`
	MessagePaceHours      int                   `json:"message_pace_hours"`
	MessageCount          int                   `json:"message_count"`
	CanCompleteConnection bool                  `json:"can_complete_connection"`
	CompletionAvailableAt time.Time             `json:"connection_completion_available_at"`
	CreatedAt             time.Time             `json:"created_at"`
	ExpiresAt             time.Time             `json:"expires_at"`
}

// ToView converts a chat into its client-facing projection.
func (s *ChatService) ToView(chat *domain.LimitedChat) *ChatView {
	now := s.clock.Now()
	remaining := chat.DailyMessageLimit
	if chat.LastMessageDate != nil && *chat.LastMessageDate == domain.DayOf(now) {
		remaining -= chat.MessageCount
	}
	if remaining < 0 {
		remaining = 0
	}
	return &ChatView{
		ID:                    chat.ID,
		ResponseInviteID:      chat.ResponseInviteID,
		User1ID:               chat.User1ID,
		User2ID:               chat.User2ID,
		Status:                chat.Status,
		Phase:                 domain.Phase(chat, now, s.phaseParams()),
		DailyMessageLimit:     chat.DailyMessageLimit,
		RemainingToday:        remaining,
		CharacterLimit:        chat.CharacterLimit,
		MessagePaceHours:      chat.MessagePaceHours,
		MessageCount:          chat.MessageCount,
		CanCompleteConnection: chat.CanCompleteConnection,
		CompletionAvailableAt: chat.CreatedAt.Add(s.limits.CompletionAfter),
		CreatedAt:             chat.CreatedAt,
		ExpiresAt:             chat.ExpiresAt,
	}
}

// ToViews converts a slice of chats into client-facing projections.
func (s *ChatService) ToViews(chats []*domain.LimitedChat) []*ChatView {
	res := make([]*ChatView, 0, len(chats))
	for _, chat := range chats {
		res = append(res, s.ToView(chat))
	}
	return res
}

func (s *ChatService) phaseParams() domain.PhaseParams {
	return domain.PhaseParams{
		NudgeAfter:      s.limits.NudgeAfter,
		CompletionAfter: s.limits.CompletionAfter,
	}
}
