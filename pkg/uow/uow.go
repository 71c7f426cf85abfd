package uow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type RepositoryName string
type Repository any

// RepositoryFactory builds a repository bound to either the pool or an open transaction.
type RepositoryFactory func(DBTX) Repository

// Pool is the part of *pgxpool.Pool the unit of work needs.
type Pool interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type UnitOfWork struct {
	conn         Pool
	repositories map[RepositoryName]RepositoryFactory
	txOptions    pgx.TxOptions
	lockTimeout  time.Duration
}

func NewUnitOfWork(conn Pool) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		repositories: make(map[RepositoryName]RepositoryFactory),
		txOptions:    pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// SetIsoLevel changes the isolation level of every transaction started by Do.
func (u *UnitOfWork) SetIsoLevel(level pgx.TxIsoLevel) *UnitOfWork {
	u.txOptions.IsoLevel = level
	return u
}

// SetLockTimeout bounds how long a statement inside Do waits for a row lock. A timed out wait fails with
// SQLSTATE 55P03. Zero keeps the server default.
func (u *UnitOfWork) SetLockTimeout(timeout time.Duration) *UnitOfWork {
	u.lockTimeout = timeout
	return u
}

// Register adds a repository factory. Registering the same name twice returns ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if factory == nil {
		return ErrNilRepositoryFactory
	}
	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do runs fn inside one database transaction. The transaction commits only if fn returns nil.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, u.txOptions)
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if u.lockTimeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
		if _, execErr := tx.Exec(ctx, stmt); execErr != nil {
			return fmt.Errorf("[uow] set lock timeout: %w", execErr)
		}
	}

	if fnErr := fn(ctx, NewTransaction(tx, u.repositories)); fnErr != nil {
		return fnErr
	}
	return tx.Commit(ctx) //nolint:wrapcheck
}

// GetRepository returns a repository bound to the pool, outside of any transaction.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrRepositoryNotRegistered, name)
}

// GetRepositoryAs is GetRepository with a type assertion to T.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, fmt.Errorf("%w: %s is %T", ErrInvalidRepositoryType, name, repo)
	}
	return r, nil
}
