package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultHoldSweepLimit uint = 500

// EscrowPolicy holds the tunables of the escrow hold.
type EscrowPolicy struct {
	BaseHoldDays       map[domain.TrustLevel]int
	ReservePercent     map[domain.TrustLevel]decimal.Decimal
	HighRiskThreshold  decimal.Decimal
	HighRiskMultiplier decimal.Decimal
}

func DefaultEscrowPolicy() EscrowPolicy {
	return EscrowPolicy{
		BaseHoldDays: map[domain.TrustLevel]int{
			domain.TrustLevelNew:      21,
			domain.TrustLevelStandard: 14,
			domain.TrustLevelTrusted:  7,
			domain.TrustLevelVerified: 3,
		},
		ReservePercent: map[domain.TrustLevel]decimal.Decimal{
			domain.TrustLevelNew:      decimal.NewFromInt(20),
			domain.TrustLevelStandard: decimal.NewFromInt(10),
			domain.TrustLevelTrusted:  decimal.NewFromInt(5),
			domain.TrustLevelVerified: decimal.Zero,
		},
		HighRiskThreshold:  decimal.NewFromInt(500),
		HighRiskMultiplier: decimal.NewFromFloat(1.5),
	}
}

type EscrowService struct {
	uow    uow.UOW
	txRepo TransactionRepository
	risk   *RiskEngine
	policy EscrowPolicy
	events eventEmitter
	l      *logrus.Entry
	now    func() time.Time
}

func NewEscrowService(
	u uow.UOW,
	risk *RiskEngine,
	policy EscrowPolicy,
	publisher EventPublisher,
	l *logrus.Logger,
) (*EscrowService, error) {
	txRepo, err := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	entry := l.WithField("component", "EscrowService")
	return &EscrowService{
		uow:    u,
		txRepo: txRepo,
		risk:   risk,
		policy: policy,
		events: newEventEmitter(publisher, entry),
		l:      entry,
		now:    time.Now,
	}, nil
}

// CalculateHoldPeriod returns the hold length in days. Amounts at or above the high risk threshold
// get the multiplier, rounded up.
func (e *EscrowService) CalculateHoldPeriod(seller domain.Seller, amount decimal.Decimal) int {
	days, ok := e.policy.BaseHoldDays[seller.TrustLevel]
	if !ok {
		days = e.policy.BaseHoldDays[domain.TrustLevelNew]
	}
	if amount.GreaterThanOrEqual(e.policy.HighRiskThreshold) {
		return int(decimal.NewFromInt(int64(days)).Mul(e.policy.HighRiskMultiplier).Ceil().IntPart())
	}
	return days
}

// CalculateReservePercent is informational. The hold itself is enforced through hold_until.
func (e *EscrowService) CalculateReservePercent(seller domain.Seller) decimal.Decimal {
	if percent, ok := e.policy.ReservePercent[seller.TrustLevel]; ok {
		return percent
	}
	return e.policy.ReservePercent[domain.TrustLevelNew]
}

// ApplyHold holds an existing completed credit of the seller. An already held transaction keeps the later
// hold_until and is not reserved twice.
func (e *EscrowService) ApplyHold(
	ctx context.Context,
	transactionID, sellerID int64,
	reason string,
) (*domain.Transaction, error) {
	var held *domain.Transaction
	err := retryOnConflict(ctx, func() error {
		return e.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			sellerRepo, repoErr := uow.GetAs[SellerRepository](tx, uow.RepositoryName(repoargs.SellerRepoName))
			if repoErr != nil {
				return repoErr //nolint:wrapcheck
			}
			walletRepo, txRepo, reposErr := ledgerRepos(tx)
			if reposErr != nil {
				return reposErr
			}
			seller, sellerErr := sellerRepo.GetByID(c, sellerID)
			if sellerErr != nil {
				return sellerErr //nolint:wrapcheck
			}
			transaction, getErr := txRepo.GetByID(c, transactionID)
			if getErr != nil {
				return getErr //nolint:wrapcheck
			}
			wallet, lockErr := walletRepo.LockByID(c, transaction.WalletID)
			if lockErr != nil {
				return lockErr //nolint:wrapcheck
			}
			if wallet.UserID != seller.ID {
				return fmt.Errorf("%w: transaction %d does not belong to seller %d",
					domain.ErrOwnerConflict, transactionID, sellerID)
			}
			locked, txLockErr := txRepo.LockByID(c, transactionID)
			if txLockErr != nil {
				return txLockErr //nolint:wrapcheck
			}
			h, holdErr := e.holdLocked(c, tx, wallet, locked, seller, reason)
			if holdErr != nil {
				return holdErr
			}
			held = h
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("applying hold to transaction %d: %w", transactionID, err)
	}
	return held, nil
}

type CreditSaleArgs struct {
	SellerID    int64
	OrderID     int64
	Amount      decimal.Decimal
	Currency    string
	Description string
	// CompletesSale counts the credit as one completed sale of the seller. Set it once per order.
	CompletesSale bool
}

// CreditSale credits seller earnings and holds them in one unit of work.
func (e *EscrowService) CreditSale(ctx context.Context, args CreditSaleArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	var credited *domain.Transaction
	err := retryOnConflict(ctx, func() error {
		return e.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			t, creditErr := e.creditSaleTx(c, tx, args)
			if creditErr != nil {
				return creditErr
			}
			credited = t
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("crediting sale of order %d to seller %d: %w", args.OrderID, args.SellerID, err)
	}
	e.events.emit(ctx, newLedgerEvent(domain.EventSaleCredited, credited, e.now()))
	return credited, nil
}

func (e *EscrowService) creditSaleTx(ctx context.Context, tx uow.TX, args CreditSaleArgs) (*domain.Transaction, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	sellerRepo, repoErr := uow.GetAs[SellerRepository](tx, uow.RepositoryName(repoargs.SellerRepoName))
	if repoErr != nil {
		return nil, repoErr //nolint:wrapcheck
	}
	walletRepo, walletRepoErr := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
	if walletRepoErr != nil {
		return nil, walletRepoErr //nolint:wrapcheck
	}

	seller, sellerErr := sellerRepo.GetByID(ctx, args.SellerID)
	if sellerErr != nil {
		return nil, sellerErr //nolint:wrapcheck
	}
	wallet, walletErr := walletRepo.GetOrCreate(ctx, seller.ID, args.Currency)
	if walletErr != nil {
		return nil, walletErr //nolint:wrapcheck
	}

	orderID := args.OrderID
	posted, postErr := postEntry(ctx, tx, ledgerEntry{
		walletID:    wallet.ID,
		txType:      domain.TransactionTypeSale,
		amount:      args.Amount,
		description: args.Description,
		orderID:     &orderID,
	})
	if postErr != nil {
		return nil, postErr
	}

	held, holdErr := e.holdLocked(ctx, tx, posted.wallet, posted.transaction, seller, "")
	if holdErr != nil {
		return nil, holdErr
	}

	if saleErr := sellerRepo.RecordSale(ctx, seller.ID, args.Amount, completedSales(args.CompletesSale)); saleErr != nil {
		return nil, saleErr //nolint:wrapcheck
	}
	return held, nil
}

// holdLocked expects the wallet row to be locked by the caller.
func (e *EscrowService) holdLocked(
	ctx context.Context,
	tx uow.TX,
	wallet *domain.Wallet,
	transaction *domain.Transaction,
	seller *domain.Seller,
	reason string,
) (*domain.Transaction, error) {
	if transaction.Status != domain.TransactionStatusCompleted {
		return nil, domain.NewInvalidTransitionError(
			"transaction", transaction.ID, string(transaction.Status), "held")
	}
	if !transaction.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: only credits can be held", domain.ErrInvalidAmount)
	}

	walletRepo, txRepo, repoErr := ledgerRepos(tx)
	if repoErr != nil {
		return nil, repoErr
	}

	if !transaction.IsHeld {
		delta := repoargs.WalletDelta{PendingBalance: transaction.Amount}
		if guardErr := guardDelta(wallet, delta); guardErr != nil {
			return nil, guardErr
		}
		if _, applyErr := walletRepo.ApplyDelta(ctx, wallet.ID, delta); applyErr != nil {
			return nil, applyErr //nolint:wrapcheck
		}
	}

	days := e.CalculateHoldPeriod(*seller, transaction.Amount)
	if reason == "" {
		reason = fmt.Sprintf("escrow: %s seller, %d days", seller.TrustLevel, days)
	}
	held, holdErr := txRepo.ApplyHold(ctx, repoargs.ApplyHold{
		TransactionID: transaction.ID,
		HoldUntil:     e.now().Add(time.Duration(days) * 24 * time.Hour),
		HoldReason:    reason,
		RiskScore:     e.risk.CalculateRiskScore(*seller, transaction.Amount),
	})
	if holdErr != nil {
		return nil, holdErr //nolint:wrapcheck
	}
	return held, nil
}

type HoldReleaseFailure struct {
	TransactionID int64
	Err           error
}

type HoldReleaseReport struct {
	Released int
	Skipped  int
	Failures []HoldReleaseFailure
}

var errHoldNotActive = errors.New("hold is not active")

// ReleaseDueHolds releases up to limit expired holds. A failed release is reported and retried on the next run.
func (e *EscrowService) ReleaseDueHolds(ctx context.Context, limit uint) (*HoldReleaseReport, error) {
	if limit == 0 {
		limit = defaultHoldSweepLimit
	}
	due, err := e.txRepo.ListDueHolds(ctx, e.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("listing due holds: %w", err)
	}

	report := &HoldReleaseReport{Failures: make([]HoldReleaseFailure, 0)}
	for _, candidate := range due {
		if ctx.Err() != nil {
			return report, ctx.Err() //nolint:wrapcheck
		}
		released, releaseErr := e.releaseHold(ctx, candidate.ID)
		switch {
		case errors.Is(releaseErr, errHoldNotActive):
			report.Skipped++
		case releaseErr != nil:
			e.l.WithError(releaseErr).WithField("transaction_id", candidate.ID).Warn("hold release failed")
			report.Failures = append(report.Failures, HoldReleaseFailure{TransactionID: candidate.ID, Err: releaseErr})
		default:
			report.Released++
			e.events.emit(ctx, newLedgerEvent(domain.EventHoldReleased, released, e.now()))
		}
	}
	return report, nil
}

// ReleaseHold releases a hold before its expiry.
func (e *EscrowService) ReleaseHold(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	released, err := e.releaseHold(ctx, transactionID)
	if errors.Is(err, errHoldNotActive) {
		return nil, domain.NewInvalidTransitionError("transaction", transactionID, "released", "released")
	}
	if err != nil {
		return nil, err
	}
	e.events.emit(ctx, newLedgerEvent(domain.EventHoldReleased, released, e.now()))
	return released, nil
}

func (e *EscrowService) releaseHold(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	var released *domain.Transaction
	err := retryOnConflict(ctx, func() error {
		return e.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			walletRepo, txRepo, repoErr := ledgerRepos(tx)
			if repoErr != nil {
				return repoErr
			}
			transaction, getErr := txRepo.GetByID(c, transactionID)
			if getErr != nil {
				return getErr //nolint:wrapcheck
			}
			wallet, lockErr := walletRepo.LockByID(c, transaction.WalletID)
			if lockErr != nil {
				return lockErr //nolint:wrapcheck
			}
			locked, txLockErr := txRepo.LockByID(c, transactionID)
			if txLockErr != nil {
				return txLockErr //nolint:wrapcheck
			}
			if !locked.IsHeld {
				return errHoldNotActive
			}

			delta := repoargs.WalletDelta{PendingBalance: locked.Amount.Neg()}
			if guardErr := guardDelta(wallet, delta); guardErr != nil {
				return guardErr
			}
			r, releaseErr := txRepo.ReleaseHold(c, transactionID, e.now())
			if releaseErr != nil {
				return releaseErr //nolint:wrapcheck
			}
			if _, applyErr := walletRepo.ApplyDelta(c, wallet.ID, delta); applyErr != nil {
				return applyErr //nolint:wrapcheck
			}
			released = r
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("releasing hold of transaction %d: %w", transactionID, err)
	}
	return released, nil
}
