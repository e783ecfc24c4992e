package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Message sends race by design; a single connection serializes writers
	// and the busy timeout covers readers waiting on them.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}

// Migrate creates the lifecycle schema. A simple, idempotent set of
// CREATE TABLE / CREATE INDEX statements.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Quiet notes
		`CREATE TABLE IF NOT EXISTS echo_quiet_notes (
			id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			note_text TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT 0,
			invite_sent BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
		// Response invites; quiet_note_id is NULL for rekindle invites
		`CREATE TABLE IF NOT EXISTS echo_response_invites (
			id TEXT PRIMARY KEY,
			quiet_note_id TEXT,
			sender_id TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			invite_message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			FOREIGN KEY (quiet_note_id) REFERENCES echo_quiet_notes(id)
		);`,
		// Limited chats; soft-retired via status, never deleted
		`CREATE TABLE IF NOT EXISTS echo_limited_chats (
			id TEXT PRIMARY KEY,
			response_invite_id TEXT NOT NULL,
			user1_id TEXT NOT NULL,
			user2_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			daily_message_limit INTEGER NOT NULL,
			character_limit INTEGER NOT NULL,
			message_pace_hours INTEGER NOT NULL,
			message_count INTEGER NOT NULL DEFAULT 0,
			last_message_date TEXT,
			can_complete_connection BOOLEAN NOT NULL DEFAULT 0,
			single_thread_enforced BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			completed_at DATETIME,
			archived_at DATETIME,
			FOREIGN KEY (response_invite_id) REFERENCES echo_response_invites(id)
		);`,
		// Limited messages; immutable rows
		`CREATE TABLE IF NOT EXISTS echo_limited_messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			message_text TEXT NOT NULL,
			character_count INTEGER NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (chat_id) REFERENCES echo_limited_chats(id)
		);`,
		// Day-keyed global counters; rows appear on first increment
		`CREATE TABLE IF NOT EXISTS daily_message_counters (
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_recipient ON echo_quiet_notes(recipient_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_sender ON echo_quiet_notes(sender_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_invites_recipient ON echo_response_invites(recipient_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_invites_sender ON echo_response_invites(sender_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_invites_status ON echo_response_invites(status, expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_chats_user1 ON echo_limited_chats(user1_id);`,
		`CREATE INDEX IF NOT EXISTS idx_chats_user2 ON echo_limited_chats(user2_id);`,
		`CREATE INDEX IF NOT EXISTS idx_chats_status ON echo_limited_chats(status, expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON echo_limited_messages(chat_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON echo_limited_messages(chat_id, sender_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
