package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktamer/internal/db"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertChat(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, 'Chat', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id)
	return err
}

func countChats(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertChat(ctx, tx, "c1")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countChats(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	deliberate := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertChat(ctx, tx, "c1"); err != nil {
			return err
		}
		return deliberate
	})
	require.ErrorIs(t, err, deliberate)
	assert.Zero(t, countChats(t, database), "insert should be rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertChat(ctx, tx, "c1")
			panic("boom")
		})
	})

	assert.Zero(t, countChats(t, database), "insert should be rolled back after panic")

	// The single pooled connection must be usable again.
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertChat(ctx, tx, "c2")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countChats(t, database))
}

func TestWithinTx_ConstraintViolationRollsBackEarlierWrites(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertChat(ctx, tx, "c1"); err != nil {
			return err
		}
		return insertChat(ctx, tx, "c1")
	})
	require.Error(t, err)
	assert.Zero(t, countChats(t, database))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	_, uow := openUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
