package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"echobackend/internal/domain"
)

type NoteRepo struct {
	db *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

var _ domain.QuietNoteRepository = (*NoteRepo)(nil)

func (r *NoteRepo) Create(ctx context.Context, n *domain.QuietNote) error {
	query := `
		INSERT INTO echo_quiet_notes (id, sender_id, recipient_id, note_text, is_read, invite_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.SenderID,
		n.RecipientID,
		n.Text,
		n.IsRead,
		n.InviteSent,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiet note: %w", err)
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (*domain.QuietNote, error) {
	query := `
		SELECT id, sender_id, recipient_id, note_text, is_read, invite_sent, created_at
		FROM echo_quiet_notes
		WHERE id = ?
	`
	n := &domain.QuietNote{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.SenderID,
		&n.RecipientID,
		&n.Text,
		&n.IsRead,
		&n.InviteSent,
		&n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiet note: %w", err)
	}
	return n, nil
}

func (r *NoteRepo) ListForRecipient(ctx context.Context, userID string) ([]*domain.QuietNote, error) {
	return r.list(ctx, "recipient_id", userID)
}

func (r *NoteRepo) ListForSender(ctx context.Context, userID string) ([]*domain.QuietNote, error) {
	return r.list(ctx, "sender_id", userID)
}

func (r *NoteRepo) list(ctx context.Context, column, userID string) ([]*domain.QuietNote, error) {
	query := `
		SELECT id, sender_id, recipient_id, note_text, is_read, invite_sent, created_at
		FROM echo_quiet_notes
		WHERE ` + column + ` = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiet notes: %w", err)
	}
	defer rows.Close()

	var res []*domain.QuietNote
	for rows.Next() {
		n := &domain.QuietNote{}
		if err := rows.Scan(
			&n.ID,
			&n.SenderID,
			&n.RecipientID,
			&n.Text,
			&n.IsRead,
			&n.InviteSent,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiet note: %w", err)
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *NoteRepo) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE echo_quiet_notes SET is_read = 1 WHERE id = ?
	`, id); err != nil {
		return fmt.Errorf("mark note read: %w", err)
	}
	return nil
}
