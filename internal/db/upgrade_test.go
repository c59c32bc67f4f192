package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacyV1ToCurrentSchema simulates upgrading a
// database created before motivation tracking existed.
// Rows written under the old schema must survive and pick up the column
// defaults.
func TestMigrate_UpgradePath_LegacyV1ToCurrentSchema(t *testing.T) {
	// Create a raw DB without using OpenDB (to manually control schema).
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacyStatements := []string{
		`CREATE TABLE conversations (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			phase      TEXT NOT NULL DEFAULT 'empty',
			task_text  TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE messages (
			id              TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			seq             INTEGER NOT NULL,
			role            TEXT NOT NULL,
			text            TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			UNIQUE(conversation_id, seq)
		)`,
		`INSERT INTO conversations (id, title, phase, task_text, created_at, updated_at)
			VALUES ('c1', 'Clean my garage', 'checklist_active', 'clean my garage', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		`INSERT INTO messages (id, conversation_id, seq, role, text, created_at)
			VALUES ('m1', 'c1', 0, 'user', 'hello', '2025-01-01T00:00:00Z')`,
	}
	for _, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var text, motivation string
	var milestone int
	require.NoError(t, db.QueryRow(`SELECT text, motivation, last_milestone FROM messages WHERE id = 'm1'`).
		Scan(&text, &motivation, &milestone))
	assert.Equal(t, "hello", text)
	assert.Empty(t, motivation)
	assert.Zero(t, milestone)

	// The steps table is created fresh on upgrade.
	_, err = db.Exec(`INSERT INTO steps (message_id, seq, id, text) VALUES ('m1', 0, 'step-1', 'Sort tools')`)
	assert.NoError(t, err)

	// Re-running on the upgraded schema is a no-op.
	require.NoError(t, Migrate(db))
}
