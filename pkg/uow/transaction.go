package uow

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Transaction hands out repositories bound to one open pgx transaction. Each repository is built once per
// transaction, so a row locked through it stays visible to later calls.
type Transaction struct {
	repositories map[RepositoryName]RepositoryFactory
	tx           pgx.Tx
	cache        map[RepositoryName]Repository
}

func NewTransaction(tx pgx.Tx, repositories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		repositories: repositories,
		tx:           tx,
		cache:        make(map[RepositoryName]Repository, len(repositories)),
	}
}

func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if repo, ok := t.cache[name]; ok {
		return repo, nil
	}
	factory, ok := t.repositories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotRegistered, name)
	}
	repo := factory(t.tx)
	t.cache[name] = repo
	return repo, nil
}

// GetAs is Get with a type assertion to T.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, fmt.Errorf("%w: %s is %T", ErrInvalidRepositoryType, name, repo)
	}
	return res, nil
}
