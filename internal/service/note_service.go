package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"echobackend/internal/domain"
)

// NoteService owns the quiet note inbox: one-way anonymous notes and their
// read state. The invite_sent flag is mutated only through InviteService.
type NoteService struct {
	notes  domain.QuietNoteRepository
	clock  domain.Clock
	limits Limits
}

func NewNoteService(notes domain.QuietNoteRepository, clock domain.Clock, limits Limits) *NoteService {
	return &NoteService{notes: notes, clock: clock, limits: limits}
}

func (s *NoteService) Send(ctx context.Context, senderID, recipientID, text string) (*domain.QuietNote, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: note text cannot be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(text) > s.limits.NoteMaxChars {
		return nil, fmt.Errorf("%w: note text exceeds %d characters", domain.ErrValidation, s.limits.NoteMaxChars)
	}
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot send a note to yourself", domain.ErrValidation)
	}

	n := &domain.QuietNote{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkRead is idempotent; only the recipient may read their note.
func (s *NoteService) MarkRead(ctx context.Context, noteID, readerID string) error {
	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("get note: %w", err)
	}
	if n == nil {
		return domain.ErrNotFound
	}
	if n.RecipientID != readerID {
		return domain.ErrNotAuthorized
	}
	if n.IsRead {
		return nil
	}
	return s.notes.MarkRead(ctx, noteID)
}

func (s *NoteService) ListReceived(ctx context.Context, userID string) ([]*domain.QuietNote, error) {
	return s.notes.ListForRecipient(ctx, userID)
}

func (s *NoteService) ListSent(ctx context.Context, userID string) ([]*domain.QuietNote, error) {
	return s.notes.ListForSender(ctx, userID)
}
