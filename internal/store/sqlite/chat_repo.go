package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"echobackend/internal/domain"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

var _ domain.ChatRepository = (*ChatRepo)(nil)

const chatColumns = `
	id, response_invite_id, user1_id, user2_id, status,
	daily_message_limit, character_limit, message_pace_hours,
	message_count, last_message_date, can_complete_connection,
	single_thread_enforced, created_at, expires_at, completed_at, archived_at
`

func scanChat(row interface{ Scan(...any) error }) (*domain.LimitedChat, error) {
	c := &domain.LimitedChat{}
	err := row.Scan(
		&c.ID,
		&c.ResponseInviteID,
		&c.User1ID,
		&c.User2ID,
		&c.Status,
		&c.DailyMessageLimit,
		&c.CharacterLimit,
		&c.MessagePaceHours,
		&c.MessageCount,
		&c.LastMessageDate,
		&c.CanCompleteConnection,
		&c.SingleThreadEnforced,
		&c.CreatedAt,
		&c.ExpiresAt,
		&c.CompletedAt,
		&c.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ChatRepo) GetByID(ctx context.Context, id string) (*domain.LimitedChat, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+chatColumns+` FROM echo_limited_chats WHERE id = ?
	`, id)
	c, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return c, nil
}

func (r *ChatRepo) ListForUser(ctx context.Context, userID string) ([]*domain.LimitedChat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+chatColumns+` FROM echo_limited_chats
		WHERE user1_id = ? OR user2_id = ?
		ORDER BY created_at DESC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var res []*domain.LimitedChat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// RecordSend commits a send as one transaction: the chat's own per-day cap
// (conditional increment with day rollover), the sender's global daily
// counter, and the message row. Two concurrent senders can never both slip
// under a cap because each check is a guarded single-statement write.
func (r *ChatRepo) RecordSend(ctx context.Context, m *domain.LimitedMessage, day string, globalLimit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE echo_limited_chats
		SET message_count = CASE WHEN last_message_date = ?1 THEN message_count + 1 ELSE 1 END,
		    last_message_date = ?1
		WHERE id = ?2
		  AND status = ?3
		  AND (last_message_date IS NULL OR last_message_date <> ?1 OR message_count < daily_message_limit)
	`, day, m.ChatID, domain.ChatStatusActive)
	if err != nil {
		return fmt.Errorf("increment chat counter: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Tell a retired chat apart from an exhausted cap.
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM echo_limited_chats WHERE id = ?
		`, m.ChatID).Scan(&status)
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check chat status: %w", err)
		}
		if status != domain.ChatStatusActive {
			return domain.ErrChatExpired
		}
		return domain.ErrDailyLimitReached
	}

	if globalLimit > 0 {
		allowed, err := counterTryIncrement(ctx, tx, m.SenderID, day, globalLimit)
		if err != nil {
			return err
		}
		if !allowed {
			// Rollback also undoes the chat increment, so a globally
			// capped send consumes no chat quota.
			return domain.ErrDailyLimitReached
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO echo_limited_messages (id, chat_id, sender_id, message_text, character_count, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		m.ChatID,
		m.SenderID,
		m.Text,
		m.CharacterCount,
		m.IsRead,
		m.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *ChatRepo) Complete(ctx context.Context, id string, at time.Time) error {
	return r.retire(ctx, id, domain.ChatStatusCompleted, "completed_at", at)
}

func (r *ChatRepo) Archive(ctx context.Context, id string, at time.Time) error {
	return r.retire(ctx, id, domain.ChatStatusArchived, "archived_at", at)
}

func (r *ChatRepo) retire(ctx context.Context, id, status, column string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE echo_limited_chats SET status = ?, `+column+` = ?
		WHERE id = ? AND status = ?
	`, status, at, id, domain.ChatStatusActive)
	if err != nil {
		return fmt.Errorf("retire chat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotEligible
	}
	return nil
}

func (r *ChatRepo) MarkExpired(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE echo_limited_chats SET status = ?
		WHERE id = ? AND status = ?
	`, domain.ChatStatusExpired, id, domain.ChatStatusActive); err != nil {
		return fmt.Errorf("mark chat expired: %w", err)
	}
	return nil
}

func (r *ChatRepo) SetCompletionEligible(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE echo_limited_chats SET can_complete_connection = 1
		WHERE id = ? AND status = ?
	`, id, domain.ChatStatusActive); err != nil {
		return fmt.Errorf("set completion eligible: %w", err)
	}
	return nil
}

func (r *ChatRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE echo_limited_chats SET status = ?
		WHERE status = ? AND expires_at <= ?
	`, domain.ChatStatusExpired, domain.ChatStatusActive, now)
	if err != nil {
		return 0, fmt.Errorf("expire chats: %w", err)
	}
	return res.RowsAffected()
}

func (r *ChatRepo) MarkCompletionEligible(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE echo_limited_chats SET can_complete_connection = 1
		WHERE status = ? AND can_complete_connection = 0 AND created_at <= ?
	`, domain.ChatStatusActive, cutoff)
	if err != nil {
		return 0, fmt.Errorf("mark completion eligible: %w", err)
	}
	return res.RowsAffected()
}
