package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type WalletService struct {
	uow        uow.UOW
	walletRepo WalletRepository
	txRepo     TransactionRepository
	events     eventEmitter
	currency   string
	now        func() time.Time
}

func NewWalletService(
	u uow.UOW,
	publisher EventPublisher,
	l *logrus.Logger,
	currency string,
) (*WalletService, error) {
	walletRepo, err := uow.GetRepositoryAs[WalletRepository](u, uow.RepositoryName(repoargs.WalletRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	txRepo, txErr := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return &WalletService{
		uow:        u,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		events:     newEventEmitter(publisher, l.WithField("component", "WalletService")),
		currency:   currency,
		now:        time.Now,
	}, nil
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on first call.
func (w *WalletService) GetOrCreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	wallet, err := w.walletRepo.GetOrCreate(ctx, userID, w.currency)
	if err != nil {
		return nil, fmt.Errorf("getting or creating wallet of user %d: %w", userID, err)
	}
	return wallet, nil
}

// GetWallet returns the balances of the user's wallet.
func (w *WalletService) GetWallet(ctx context.Context, userID int64) (*domain.WalletBalance, error) {
	wallet, err := w.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &domain.WalletBalance{
		WalletID:         wallet.ID,
		Currency:         wallet.Currency,
		Balance:          wallet.Balance,
		PendingBalance:   wallet.PendingBalance,
		BonusBalance:     wallet.BonusBalance,
		AvailableBalance: wallet.AvailableBalance(),
	}, nil
}

func (w *WalletService) ListTransactions(
	ctx context.Context,
	filter repoargs.TransactionFilter,
) ([]domain.Transaction, error) {
	transactions, err := w.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}

type BalanceEntryArgs struct {
	WalletID    int64
	Amount      decimal.Decimal
	Description string
	Metadata    domain.Metadata
}

func (w *WalletService) Deposit(ctx context.Context, args BalanceEntryArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	return w.post(ctx, domain.EventDepositCompleted, ledgerEntry{
		walletID:    args.WalletID,
		txType:      domain.TransactionTypeDeposit,
		amount:      args.Amount,
		description: args.Description,
		metadata:    args.Metadata,
	})
}

// Withdraw debits the available balance. Fails with domain.ErrInsufficientBalance when it is not enough.
func (w *WalletService) Withdraw(ctx context.Context, args BalanceEntryArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	return w.post(ctx, domain.EventWithdrawalCompleted, ledgerEntry{
		walletID:    args.WalletID,
		txType:      domain.TransactionTypeWithdrawal,
		amount:      args.Amount.Neg(),
		description: args.Description,
		metadata:    args.Metadata,
	})
}

type OrderEntryArgs struct {
	WalletID    int64
	Amount      decimal.Decimal
	OrderID     int64
	Description string
}

func (w *WalletService) Purchase(ctx context.Context, args OrderEntryArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	return w.post(ctx, domain.EventPurchaseCompleted, ledgerEntry{
		walletID:    args.WalletID,
		txType:      domain.TransactionTypePurchase,
		amount:      args.Amount.Neg(),
		description: args.Description,
		orderID:     &args.OrderID,
	})
}

// ReceiveSale credits sale earnings without a hold. The escrow path is EscrowService.CreditSale.
func (w *WalletService) ReceiveSale(ctx context.Context, args OrderEntryArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	return w.post(ctx, domain.EventSaleCredited, ledgerEntry{
		walletID:    args.WalletID,
		txType:      domain.TransactionTypeSale,
		amount:      args.Amount,
		description: args.Description,
		orderID:     &args.OrderID,
	})
}

func (w *WalletService) Refund(ctx context.Context, args OrderEntryArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	return w.post(ctx, domain.EventRefundCredited, ledgerEntry{
		walletID:    args.WalletID,
		txType:      domain.TransactionTypeRefund,
		amount:      args.Amount,
		description: args.Description,
		orderID:     &args.OrderID,
	})
}

// AddBonusBalance credits promotional funds. They never become withdrawable.
func (w *WalletService) AddBonusBalance(ctx context.Context, args BalanceEntryArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	return w.post(ctx, domain.EventBonusCredited, ledgerEntry{
		walletID:    args.WalletID,
		txType:      domain.TransactionTypeBonus,
		amount:      args.Amount,
		description: args.Description,
		metadata:    args.Metadata,
	})
}

type Reconciliation struct {
	WalletID      int64
	StoredBalance decimal.Decimal
	LedgerBalance decimal.Decimal
	StoredBonus   decimal.Decimal
	LedgerBonus   decimal.Decimal
}

func (r Reconciliation) Consistent() bool {
	return r.StoredBalance.Equal(r.LedgerBalance) && r.StoredBonus.Equal(r.LedgerBonus)
}

// ReconcileWallet compares stored balances with the sums of completed transactions. The wallet row is
// locked while summing so no posting can interleave.
func (w *WalletService) ReconcileWallet(ctx context.Context, walletID int64) (*Reconciliation, error) {
	var result Reconciliation
	err := w.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		walletRepo, txRepo, repoErr := ledgerRepos(tx)
		if repoErr != nil {
			return repoErr
		}
		wallet, lockErr := walletRepo.LockByID(c, walletID)
		if lockErr != nil {
			return lockErr //nolint:wrapcheck
		}
		sums, sumErr := txRepo.SumCompleted(c, walletID)
		if sumErr != nil {
			return sumErr //nolint:wrapcheck
		}
		result = Reconciliation{
			WalletID:      wallet.ID,
			StoredBalance: wallet.Balance,
			LedgerBalance: sums.Balance,
			StoredBonus:   wallet.BonusBalance,
			LedgerBonus:   sums.Bonus,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconciling wallet %d: %w", walletID, err)
	}
	return &result, nil
}

func (w *WalletService) post(
	ctx context.Context,
	eventType domain.EventType,
	entry ledgerEntry,
) (*domain.Transaction, error) {
	var posted *postedEntry
	err := retryOnConflict(ctx, func() error {
		return w.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			p, postErr := postEntry(c, tx, entry)
			if postErr != nil {
				return postErr
			}
			posted = p
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("posting %s to wallet %d: %w", entry.txType, entry.walletID, err)
	}
	w.events.emit(ctx, newLedgerEvent(eventType, posted.transaction, w.now()))
	return posted.transaction, nil
}
