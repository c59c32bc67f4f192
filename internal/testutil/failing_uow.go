package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/tasktamer/internal/db"
)

// FailOnNthExecUoW runs a real transaction but makes the FailOn-th write
// (1-based) return Err, so a save can be cut off between the conversation
// header and its message or step rows. Reads are untouched.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWrites{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingWrites struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
