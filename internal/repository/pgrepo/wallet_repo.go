package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, created_at, updated_at, user_id, balance, pending_balance, bonus_balance, currency, is_active`

type WalletRepository struct {
	conn uow.DBTX
}

func NewWalletRepository(conn uow.DBTX) *WalletRepository {
	return &WalletRepository{conn: conn}
}

// GetOrCreate returns the user's wallet, creating an empty one on first use. Concurrent callers get the same row.
func (w *WalletRepository) GetOrCreate(ctx context.Context, userID int64, currency string) (*domain.Wallet, error) {
	row := w.conn.QueryRow(ctx, `
		INSERT INTO wallets (user_id, currency) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING `+walletColumns, userID, currency)

	wallet, err := scanWallet(row)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "creating wallet for user %d", userID)
	}
	return w.GetByUserID(ctx, userID)
}

func (w *WalletRepository) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	row := w.conn.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	wallet, err := scanWallet(row)
	if err != nil {
		return nil, convertErr(err, "getting wallet %d", id)
	}
	return wallet, nil
}

func (w *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	row := w.conn.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	wallet, err := scanWallet(row)
	if err != nil {
		return nil, convertErr(err, "getting wallet by user %d", userID)
	}
	return wallet, nil
}

// LockByID takes a row lock on the wallet until the surrounding transaction ends.
func (w *WalletRepository) LockByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	row := w.conn.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`, id)
	wallet, err := scanWallet(row)
	if err != nil {
		return nil, convertErr(err, "locking wallet %d", id)
	}
	return wallet, nil
}

func (w *WalletRepository) LockByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	row := w.conn.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	wallet, err := scanWallet(row)
	if err != nil {
		return nil, convertErr(err, "locking wallet by user %d", userID)
	}
	return wallet, nil
}

// ApplyDelta adds signed deltas to the balances. Table constraints reject results that break the wallet invariants.
func (w *WalletRepository) ApplyDelta(
	ctx context.Context,
	id int64,
	delta repoargs.WalletDelta,
) (*domain.Wallet, error) {
	row := w.conn.QueryRow(ctx, `
		UPDATE wallets
		SET balance         = balance + $2,
		    pending_balance = pending_balance + $3,
		    bonus_balance   = bonus_balance + $4,
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+walletColumns, id, delta.Balance, delta.PendingBalance, delta.BonusBalance)

	wallet, err := scanWallet(row)
	if err != nil {
		return nil, convertErr(err, "applying delta to wallet %d", id)
	}
	return wallet, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := row.Scan(
		&wallet.ID,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.PendingBalance,
		&wallet.BonusBalance,
		&wallet.Currency,
		&wallet.IsActive,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &wallet, nil
}
