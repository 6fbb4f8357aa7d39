package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txContextKey struct{}

// Store owns the database handle and hands out transaction-aware executors.
// Repositories built on the same Store share one transaction when the call
// runs inside RunInTx.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// RunInTx executes fn inside a single transaction. The transaction rides on
// the context so every repository call within fn joins it. Nested calls
// reuse the already-open transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback transaction after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ext returns the in-flight transaction when there is one, the plain handle
// otherwise.
func (s *Store) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txContextKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}
