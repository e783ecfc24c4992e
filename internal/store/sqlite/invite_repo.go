package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"echobackend/internal/domain"
)

type InviteRepo struct {
	db *sql.DB
}

func NewInviteRepo(db *sql.DB) *InviteRepo {
	return &InviteRepo{db: db}
}

var _ domain.InviteRepository = (*InviteRepo)(nil)

const insertInviteSQL = `
	INSERT INTO echo_response_invites (id, quiet_note_id, sender_id, recipient_id, invite_message, status, created_at, expires_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *InviteRepo) Create(ctx context.Context, inv *domain.ResponseInvite) error {
	_, err := r.db.ExecContext(ctx, insertInviteSQL,
		inv.ID,
		inv.QuietNoteID,
		inv.SenderID,
		inv.RecipientID,
		inv.Message,
		inv.Status,
		inv.CreatedAt,
		inv.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

// CreateFromNote flips the note's invite_sent flag and inserts the invite
// in one transaction. The guarded UPDATE is what makes one-invite-per-note
// hold under concurrent calls: only one caller sees a row change.
func (r *InviteRepo) CreateFromNote(ctx context.Context, inv *domain.ResponseInvite) error {
	if inv.QuietNoteID == nil {
		return fmt.Errorf("create invite from note: %w", domain.ErrValidation)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE echo_quiet_notes SET invite_sent = 1
		WHERE id = ? AND invite_sent = 0
	`, *inv.QuietNoteID)
	if err != nil {
		return fmt.Errorf("flag note invited: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrAlreadyInvited
	}

	if _, err := tx.ExecContext(ctx, insertInviteSQL,
		inv.ID,
		inv.QuietNoteID,
		inv.SenderID,
		inv.RecipientID,
		inv.Message,
		inv.Status,
		inv.CreatedAt,
		inv.ExpiresAt,
	); err != nil {
		return fmt.Errorf("insert invite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *InviteRepo) GetByID(ctx context.Context, id string) (*domain.ResponseInvite, error) {
	query := `
		SELECT id, quiet_note_id, sender_id, recipient_id, invite_message, status, created_at, expires_at
		FROM echo_response_invites
		WHERE id = ?
	`
	inv := &domain.ResponseInvite{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID,
		&inv.QuietNoteID,
		&inv.SenderID,
		&inv.RecipientID,
		&inv.Message,
		&inv.Status,
		&inv.CreatedAt,
		&inv.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

func (r *InviteRepo) ListForUser(ctx context.Context, userID string) ([]*domain.ResponseInvite, error) {
	query := `
		SELECT id, quiet_note_id, sender_id, recipient_id, invite_message, status, created_at, expires_at
		FROM echo_response_invites
		WHERE sender_id = ? OR recipient_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var res []*domain.ResponseInvite
	for rows.Next() {
		inv := &domain.ResponseInvite{}
		if err := rows.Scan(
			&inv.ID,
			&inv.QuietNoteID,
			&inv.SenderID,
			&inv.RecipientID,
			&inv.Message,
			&inv.Status,
			&inv.CreatedAt,
			&inv.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		res = append(res, inv)
	}
	return res, rows.Err()
}

// Accept performs the invite-accept-creates-chat step as one transaction.
// A half-applied accept (invite accepted, no chat) must never be
// observable, so both writes commit or neither does.
func (r *InviteRepo) Accept(ctx context.Context, inviteID string, chat *domain.LimitedChat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE echo_response_invites SET status = ?
		WHERE id = ? AND status = ?
	`, domain.InviteStatusAccepted, inviteID, domain.InviteStatusPending)
	if err != nil {
		return fmt.Errorf("accept invite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotPending
	}

	if chat.SingleThreadEnforced {
		var exists int
		err := tx.QueryRowContext(ctx, `
			SELECT 1 FROM echo_limited_chats
			WHERE status = ?
			  AND ((user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?))
		`, domain.ChatStatusActive, chat.User1ID, chat.User2ID, chat.User2ID, chat.User1ID).Scan(&exists)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("check active chat: %w", err)
		}
		if err == nil {
			return domain.ErrActiveChatExists
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO echo_limited_chats (
			id, response_invite_id, user1_id, user2_id, status,
			daily_message_limit, character_limit, message_pace_hours,
			message_count, last_message_date, can_complete_connection,
			single_thread_enforced, created_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		chat.ID,
		chat.ResponseInviteID,
		chat.User1ID,
		chat.User2ID,
		chat.Status,
		chat.DailyMessageLimit,
		chat.CharacterLimit,
		chat.MessagePaceHours,
		chat.MessageCount,
		chat.LastMessageDate,
		chat.CanCompleteConnection,
		chat.SingleThreadEnforced,
		chat.CreatedAt,
		chat.ExpiresAt,
	); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *InviteRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE echo_response_invites SET status = ?
		WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("update invite status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotPending
	}
	return nil
}

func (r *InviteRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE echo_response_invites SET status = ?
		WHERE status = ? AND expires_at <= ?
	`, domain.InviteStatusExpired, domain.InviteStatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("expire invites: %w", err)
	}
	return res.RowsAffected()
}
