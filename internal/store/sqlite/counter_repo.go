package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"echobackend/internal/domain"
)

type CounterRepo struct {
	db *sql.DB
}

func NewCounterRepo(db *sql.DB) *CounterRepo {
	return &CounterRepo{db: db}
}

var _ domain.DailyCounterRepository = (*CounterRepo)(nil)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// counterTryIncrement is the single-statement upsert-with-guard behind the
// daily quota. A naive read-then-write would let two concurrent senders
// both pass the check; here the guard and the increment are one atomic
// store operation, so RowsAffected == 0 is the only denial signal.
func counterTryIncrement(ctx context.Context, ex execer, userID, day string, limit int) (bool, error) {
	res, err := ex.ExecContext(ctx, `
		INSERT INTO daily_message_counters (user_id, day, count)
		VALUES (?, ?, 1)
		ON CONFLICT(user_id, day) DO UPDATE SET count = count + 1
		WHERE count < ?
	`, userID, day, limit)
	if err != nil {
		return false, fmt.Errorf("increment counter: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *CounterRepo) TryIncrement(ctx context.Context, userID, day string, limit int) (bool, int, error) {
	if limit <= 0 {
		return false, 0, nil
	}
	allowed, err := counterTryIncrement(ctx, r.db, userID, day, limit)
	if err != nil {
		return false, 0, err
	}
	if !allowed {
		return false, 0, nil
	}
	count, err := r.Get(ctx, userID, day)
	if err != nil {
		return true, 0, err
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, nil
}

func (r *CounterRepo) Get(ctx context.Context, userID, day string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT count FROM daily_message_counters WHERE user_id = ? AND day = ?
	`, userID, day).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}
	return count, nil
}
