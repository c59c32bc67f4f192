package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		phase      TEXT NOT NULL DEFAULT 'empty'
		           CHECK(phase IN ('empty','awaiting_task','awaiting_breakdown','checklist_active','normal_chat')),
		task_text  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL,
		role            TEXT NOT NULL CHECK(role IN ('user','assistant')),
		text            TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		UNIQUE(conversation_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq)`,
	`CREATE TABLE IF NOT EXISTS steps (
		message_id TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		id         TEXT NOT NULL,
		text       TEXT NOT NULL CHECK(text <> ''),
		done       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (message_id, seq)
	)`,

	// Per-message motivation bookkeeping.
	`ALTER TABLE messages ADD COLUMN motivation TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE messages ADD COLUMN last_milestone INTEGER NOT NULL DEFAULT 0`,
}
