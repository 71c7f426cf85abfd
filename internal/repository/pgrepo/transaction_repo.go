package pgrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const (
	transactionColumns = `id, created_at, updated_at, wallet_id, user_id, type, amount, currency, status, description,
		order_id, is_held, hold_until, hold_reason, risk_score, released_at, metadata`

	defaultTransactionsLimit uint = 50
	maxTransactionsLimit     uint = 500
)

type TransactionRepository struct {
	conn uow.DBTX
}

func NewTransactionRepository(conn uow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

func (t *TransactionRepository) Create(
	ctx context.Context,
	args repoargs.CreateTransaction,
) (*domain.Transaction, error) {
	metadata := args.Metadata
	if metadata == nil {
		metadata = domain.Metadata{}
	}
	row := t.conn.QueryRow(ctx, `
		INSERT INTO transactions (wallet_id, user_id, type, amount, currency, status, description, order_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns,
		args.WalletID,
		args.UserID,
		string(args.Type),
		args.Amount,
		args.Currency,
		string(args.Status),
		args.Description,
		args.OrderID,
		metadata,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating %s transaction for wallet %d", args.Type, args.WalletID)
	}
	return transaction, nil
}

func (t *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "getting transaction %d", id)
	}
	return transaction, nil
}

func (t *TransactionRepository) LockByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "locking transaction %d", id)
	}
	return transaction, nil
}

// ApplyHold marks the transaction held. An existing later hold_until is kept.
func (t *TransactionRepository) ApplyHold(ctx context.Context, args repoargs.ApplyHold) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `
		UPDATE transactions
		SET is_held     = TRUE,
		    hold_until  = GREATEST(COALESCE(hold_until, $2), $2),
		    hold_reason = $3,
		    risk_score  = $4,
		    updated_at  = now()
		WHERE id = $1
		RETURNING `+transactionColumns, args.TransactionID, args.HoldUntil, args.HoldReason, args.RiskScore)

	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "applying hold to transaction %d", args.TransactionID)
	}
	return transaction, nil
}

// ReleaseHold clears the hold flag. Returns domain.ErrRecordNotFound if the transaction is not held.
func (t *TransactionRepository) ReleaseHold(
	ctx context.Context,
	id int64,
	releasedAt time.Time,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `
		UPDATE transactions
		SET is_held = FALSE, released_at = $2, updated_at = now()
		WHERE id = $1 AND is_held
		RETURNING `+transactionColumns, id, releasedAt)

	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "releasing hold of transaction %d", id)
	}
	return transaction, nil
}

// ListDueHolds returns held completed transactions whose hold expired at now, oldest first.
func (t *TransactionRepository) ListDueHolds(
	ctx context.Context,
	now time.Time,
	limit uint,
) ([]domain.Transaction, error) {
	rows, err := t.conn.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE is_held AND hold_until <= $1 AND status = 'completed'
		ORDER BY hold_until, id
		LIMIT $2`, now, int64(limit))
	if err != nil {
		return nil, convertErr(err, "listing due holds")
	}
	transactions, collectErr := collectTransactions(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "listing due holds")
	}
	return transactions, nil
}

// List returns the wallet's transactions newest first.
func (t *TransactionRepository) List(
	ctx context.Context,
	filter repoargs.TransactionFilter,
) ([]domain.Transaction, error) {
	var (
		conds = []string{"wallet_id = $1"}
		args  = []any{filter.WalletID}
	)
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, tt := range filter.Types {
			types[i] = string(tt)
		}
		conds = append(conds, "type = ANY("+addArg(types)+")")
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		conds = append(conds, "status = ANY("+addArg(statuses)+")")
	}
	if filter.From != nil {
		conds = append(conds, "created_at >= "+addArg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "created_at < "+addArg(*filter.To))
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultTransactionsLimit
	}
	limit = min(limit, maxTransactionsLimit)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC LIMIT ` + addArg(int64(limit)) + ` OFFSET ` + addArg(int64(filter.Offset))

	rows, err := t.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, convertErr(err, "listing transactions of wallet %d", filter.WalletID)
	}
	transactions, collectErr := collectTransactions(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "listing transactions of wallet %d", filter.WalletID)
	}
	return transactions, nil
}

// SumCompleted aggregates completed amounts, separating bonus credit from the main balance.
func (t *TransactionRepository) SumCompleted(ctx context.Context, walletID int64) (*repoargs.LedgerSums, error) {
	var sums repoargs.LedgerSums
	err := t.conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type <> 'bonus'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'bonus'), 0)
		FROM transactions
		WHERE wallet_id = $1 AND status = 'completed'`, walletID).Scan(&sums.Balance, &sums.Bonus)
	if err != nil {
		return nil, convertErr(err, "summing transactions of wallet %d", walletID)
	}
	return &sums, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var transactions = make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rows.Err() //nolint:wrapcheck
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction    domain.Transaction
		txType, status string
		riskScore      *int32
	)
	if err := row.Scan(
		&transaction.ID,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
		&transaction.WalletID,
		&transaction.UserID,
		&txType,
		&transaction.Amount,
		&transaction.Currency,
		&status,
		&transaction.Description,
		&transaction.OrderID,
		&transaction.IsHeld,
		&transaction.HoldUntil,
		&transaction.HoldReason,
		&riskScore,
		&transaction.ReleasedAt,
		&transaction.Metadata,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	transaction.Type = domain.TransactionType(txType)
	transaction.Status = domain.TransactionStatus(status)
	if riskScore != nil {
		score := int(*riskScore)
		transaction.RiskScore = &score
	}
	return &transaction, nil
}
