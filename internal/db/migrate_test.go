package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-01-01T00:00:00Z"

func insertConversation(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, 'Chat', ?, ?)`, id, ts, ts)
	require.NoError(t, err)
}

func insertMessage(t *testing.T, db *sql.DB, id, convID string, seq int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO messages (id, conversation_id, seq, role, text, created_at) VALUES (?, ?, ?, 'assistant', '', ?)`,
		id, convID, seq, ts)
	require.NoError(t, err)
}

func columnNames(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; it should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"conversations", "messages", "steps"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_conversations_updated", "idx_messages_conversation"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddedColumns(t *testing.T) {
	db := openTestDB(t)

	msgCols := columnNames(t, db, "messages")
	assert.True(t, msgCols["motivation"])
	assert.True(t, msgCols["last_milestone"])
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestMigrate_PhaseCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO conversations (id, title, phase, created_at, updated_at) VALUES ('c1', 'Chat', 'bogus', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown phase should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO conversations (id, title, phase, created_at, updated_at) VALUES ('c1', 'Chat', 'checklist_active', ?, ?)`, ts, ts)
	assert.NoError(t, err)
}

func TestMigrate_MessageConstraints(t *testing.T) {
	db := openTestDB(t)
	insertConversation(t, db, "c1")

	_, err := db.Exec(`INSERT INTO messages (id, conversation_id, seq, role, created_at) VALUES ('m1', 'c1', 0, 'system', ?)`, ts)
	assert.Error(t, err, "role outside user/assistant should be rejected")

	insertMessage(t, db, "m1", "c1", 0)
	_, err = db.Exec(`INSERT INTO messages (id, conversation_id, seq, role, created_at) VALUES ('m2', 'c1', 0, 'user', ?)`, ts)
	assert.Error(t, err, "duplicate seq within a conversation should be rejected")

	_, err = db.Exec(`INSERT INTO messages (id, conversation_id, seq, role, created_at) VALUES ('m3', 'missing', 0, 'user', ?)`, ts)
	assert.Error(t, err, "message for unknown conversation should violate foreign key")
}

func TestMigrate_StepsRejectEmptyText(t *testing.T) {
	db := openTestDB(t)
	insertConversation(t, db, "c1")
	insertMessage(t, db, "m1", "c1", 0)

	_, err := db.Exec(`INSERT INTO steps (message_id, seq, id, text) VALUES ('m1', 0, 'step-1', '')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO steps (message_id, seq, id, text) VALUES ('m1', 0, 'step-1', 'Buy boxes')`)
	assert.NoError(t, err)
}

func TestMigrate_DeleteCascades(t *testing.T) {
	db := openTestDB(t)
	insertConversation(t, db, "c1")
	insertMessage(t, db, "m1", "c1", 0)
	_, err := db.Exec(`INSERT INTO steps (message_id, seq, id, text) VALUES ('m1', 0, 'step-1', 'Buy boxes')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM conversations WHERE id = 'c1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM steps`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpenDB_BusyTimeout(t *testing.T) {
	db := openTestDB(t)

	var ms int
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&ms))
	assert.Equal(t, 5000, ms)
}
