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

// ledgerEntry is one completed movement posted against a wallet.
type ledgerEntry struct {
	walletID     int64
	txType       domain.TransactionType
	amount       decimal.Decimal // signed
	pendingDelta decimal.Decimal
	description  string
	orderID      *int64
	metadata     domain.Metadata
}

type postedEntry struct {
	wallet      *domain.Wallet
	transaction *domain.Transaction
}

// postEntry locks the wallet, checks the resulting balances and writes the balance change together with
// its transaction row. Must run inside a unit of work.
func postEntry(ctx context.Context, tx uow.TX, entry ledgerEntry) (*postedEntry, error) {
	walletRepo, txRepo, repoErr := ledgerRepos(tx)
	if repoErr != nil {
		return nil, repoErr
	}

	wallet, lockErr := walletRepo.LockByID(ctx, entry.walletID)
	if lockErr != nil {
		return nil, lockErr //nolint:wrapcheck
	}
	if !wallet.IsActive {
		return nil, domain.ErrWalletInactive
	}

	delta := repoargs.WalletDelta{PendingBalance: entry.pendingDelta}
	if entry.txType.AffectsBalance() {
		delta.Balance = entry.amount
	} else {
		delta.BonusBalance = entry.amount
	}
	if err := guardDelta(wallet, delta); err != nil {
		return nil, err
	}

	updated, applyErr := walletRepo.ApplyDelta(ctx, wallet.ID, delta)
	if applyErr != nil {
		return nil, applyErr //nolint:wrapcheck
	}

	transaction, createErr := txRepo.Create(ctx, repoargs.CreateTransaction{
		WalletID:    wallet.ID,
		UserID:      wallet.UserID,
		Type:        entry.txType,
		Amount:      entry.amount,
		Currency:    wallet.Currency,
		Status:      domain.TransactionStatusCompleted,
		Description: entry.description,
		OrderID:     entry.orderID,
		Metadata:    entry.metadata,
	})
	if createErr != nil {
		return nil, createErr //nolint:wrapcheck
	}
	return &postedEntry{wallet: updated, transaction: transaction}, nil
}

// adjustPending moves funds between available and pending without a ledger row.
func adjustPending(ctx context.Context, tx uow.TX, walletID int64, delta decimal.Decimal) (*domain.Wallet, error) {
	walletRepo, err := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	wallet, lockErr := walletRepo.LockByID(ctx, walletID)
	if lockErr != nil {
		return nil, lockErr //nolint:wrapcheck
	}
	walletDelta := repoargs.WalletDelta{PendingBalance: delta}
	if guardErr := guardDelta(wallet, walletDelta); guardErr != nil {
		return nil, guardErr
	}
	updated, applyErr := walletRepo.ApplyDelta(ctx, walletID, walletDelta)
	if applyErr != nil {
		return nil, applyErr //nolint:wrapcheck
	}
	return updated, nil
}

// guardDelta rejects a change that would leave a negative balance, pending or available amount.
func guardDelta(wallet *domain.Wallet, delta repoargs.WalletDelta) error {
	balance := wallet.Balance.Add(delta.Balance)
	pending := wallet.PendingBalance.Add(delta.PendingBalance)
	bonus := wallet.BonusBalance.Add(delta.BonusBalance)

	if balance.IsNegative() || pending.IsNegative() || bonus.IsNegative() || balance.Sub(pending).IsNegative() {
		return fmt.Errorf(
			"%w: wallet %d available %s, requested change %s",
			domain.ErrInsufficientBalance,
			wallet.ID,
			wallet.AvailableBalance().StringFixed(2),
			delta.Balance.Sub(delta.PendingBalance).StringFixed(2),
		)
	}
	return nil
}

func ledgerRepos(tx uow.TX) (WalletRepository, TransactionRepository, error) {
	walletRepo, walletErr := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
	if walletErr != nil {
		return nil, nil, walletErr //nolint:wrapcheck
	}
	txRepo, txErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
	if txErr != nil {
		return nil, nil, txErr //nolint:wrapcheck
	}
	return walletRepo, txRepo, nil
}

func newLedgerEvent(eventType domain.EventType, t *domain.Transaction, at time.Time) domain.LedgerEvent {
	return domain.LedgerEvent{
		Type:          eventType,
		WalletID:      t.WalletID,
		UserID:        t.UserID,
		TransactionID: t.ID,
		OrderID:       t.OrderID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		OccurredAt:    at,
	}
}

// eventEmitter publishes committed events. Delivery failures are logged and never undo the commit.
type eventEmitter struct {
	publisher EventPublisher
	l         *logrus.Entry
}

func newEventEmitter(publisher EventPublisher, l *logrus.Entry) eventEmitter {
	return eventEmitter{publisher: publisher, l: l}
}

func (e eventEmitter) emit(ctx context.Context, events ...domain.LedgerEvent) {
	if e.publisher == nil || len(events) == 0 {
		return
	}
	if err := e.publisher.Publish(ctx, events...); err != nil {
		e.l.WithError(err).WithField("events", len(events)).Error("publishing ledger events")
	}
}
