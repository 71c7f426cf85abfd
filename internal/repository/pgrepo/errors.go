package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode      = "23505"
	checkViolationCode       = "23514"
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
	lockNotAvailableCode     = "55P03"
)

const walletsTable = "wallets"

// convertErr brings a pgx error to the repository layer form: formatted context,
// the domain error type and the original message.
//   - pgx.ErrNoRows becomes domain.ErrRecordNotFound.
//   - unique violations become domain.ErrDuplicateKey.
//   - serialization failures, deadlocks and lock timeouts become domain.ErrConcurrencyConflict.
//   - check violations on wallets become domain.ErrInsufficientBalance.
//   - anything else is domain.ErrUnknown.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		switch {
		case isUniqueViolationErr(pgErr):
			errType = domain.ErrDuplicateKey
		case isConflictErr(pgErr):
			errType = domain.ErrConcurrencyConflict
		case pgErr.Code == checkViolationCode && pgErr.TableName == walletsTable:
			errType = domain.ErrInsufficientBalance
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}

func isUniqueViolationErr(err *pgconn.PgError) bool {
	return err.Code == uniqueViolationCode
}

func isConflictErr(err *pgconn.PgError) bool {
	switch err.Code {
	case serializationFailureCode, deadlockDetectedCode, lockNotAvailableCode:
		return true
	}
	return false
}
