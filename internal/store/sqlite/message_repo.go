package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"echobackend/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) ListForChat(ctx context.Context, chatID string) ([]*domain.LimitedMessage, error) {
	query := `
		SELECT id, chat_id, sender_id, message_text, character_count, is_read, created_at
		FROM echo_limited_messages
		WHERE chat_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.LimitedMessage
	for rows.Next() {
		m := &domain.LimitedMessage{}
		if err := rows.Scan(
			&m.ID,
			&m.ChatID,
			&m.SenderID,
			&m.Text,
			&m.CharacterCount,
			&m.IsRead,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MessageRepo) LastSentAt(ctx context.Context, chatID, senderID string) (*time.Time, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT created_at FROM echo_limited_messages
		WHERE chat_id = ? AND sender_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, chatID, senderID).Scan(&at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last sent at: %w", err)
	}
	return &at, nil
}

func (r *MessageRepo) MarkReadFromOther(ctx context.Context, chatID, readerID string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE echo_limited_messages SET is_read = 1
		WHERE chat_id = ? AND sender_id <> ? AND is_read = 0
	`, chatID, readerID); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}
