package uow

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxManager implements Manager on top of a pgx connection pool. Each
// top-level work is a database transaction; independent works get their own
// transaction on a fresh connection so they commit regardless of the
// ambient transaction's fate.
type PgxManager struct {
	pool *pgxpool.Pool
}

// NewPgxManager creates a unit of work manager backed by the given pool.
func NewPgxManager(pool *pgxpool.Pool) *PgxManager {
	return &PgxManager{pool: pool}
}

func (m *PgxManager) Begin(ctx context.Context, opts Options) (context.Context, Work, error) {
	if !opts.Independent {
		if existing, ok := CurrentWork(ctx); ok {
			return ctx, &joinedWork{owner: existing}, nil
		}
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	w := &pgxWork{tx: tx}
	return withWork(ctx, w), w, nil
}

type pgxWork struct {
	tx        pgx.Tx
	completed bool
	ended     bool
}

func (w *pgxWork) SaveChanges(ctx context.Context) error {
	// Writes go through the transaction as they are issued; nothing is
	// buffered on this side.
	return nil
}

func (w *pgxWork) Complete(ctx context.Context) error {
	if err := w.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	w.completed = true
	return nil
}

func (w *pgxWork) End(ctx context.Context) {
	if w.ended {
		return
	}
	w.ended = true
	if !w.completed {
		_ = w.tx.Rollback(ctx)
	}
}

// PgxTx returns the transaction of the ambient unit of work, if the work in
// ctx is pgx-backed. Repositories use it to issue statements inside the
// current work.
func PgxTx(ctx context.Context) (pgx.Tx, bool) {
	w, ok := CurrentWork(ctx)
	if !ok {
		return nil, false
	}
	if jw, isJoined := w.(*joinedWork); isJoined {
		w = jw.owner
	}
	pw, ok := w.(*pgxWork)
	if !ok {
		return nil, false
	}
	return pw.tx, true
}
