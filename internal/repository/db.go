package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// inside and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// TxRepos bundles the repositories participating in a ticket-write
// transaction, bound to the same tx.
type TxRepos struct {
	Users   UserRepository
	Tickets TicketRepository
	History TicketHistoryRepository
}

// UnitOfWork runs a function inside a database transaction, giving it
// tx-bound repositories. Commit on nil return, rollback otherwise.
type UnitOfWork interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork builds a pgx-backed UnitOfWork.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

func (u *pgUnitOfWork) InTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	repos := TxRepos{
		Users:   &userRepository{db: tx},
		Tickets: &ticketRepository{db: tx},
		History: &ticketHistoryRepository{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
