package service

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID int64, currency string) (*domain.Wallet, error)
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
	LockByID(ctx context.Context, id int64) (*domain.Wallet, error)
	LockByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
	ApplyDelta(ctx context.Context, id int64, delta repoargs.WalletDelta) (*domain.Wallet, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error)
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	LockByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ApplyHold(ctx context.Context, args repoargs.ApplyHold) (*domain.Transaction, error)
	ReleaseHold(ctx context.Context, id int64, releasedAt time.Time) (*domain.Transaction, error)
	ListDueHolds(ctx context.Context, now time.Time, limit uint) ([]domain.Transaction, error)
	List(ctx context.Context, filter repoargs.TransactionFilter) ([]domain.Transaction, error)
	SumCompleted(ctx context.Context, walletID int64) (*repoargs.LedgerSums, error)
}

type SellerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Seller, error)
	LockByID(ctx context.Context, id int64) (*domain.Seller, error)
	UpdateTrustLevel(ctx context.Context, id int64, level domain.TrustLevel) error
	RecordSale(ctx context.Context, id int64, amount decimal.Decimal, completedSales int) error
	RecordChargeback(ctx context.Context, id int64, at time.Time) (*domain.Seller, error)
	RecordDispute(ctx context.Context, id int64) (*domain.Seller, error)
	ListIDs(ctx context.Context, afterID int64, limit uint) ([]int64, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	LockByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Order, error)
	SetPaymentIntent(ctx context.Context, groupID uuid.UUID, intentID string) error
	MarkGroupCaptured(ctx context.Context, groupID uuid.UUID, at time.Time) error
	MarkPaid(ctx context.Context, id int64, transferID string) (*domain.Order, error)
	MarkTransferFailed(ctx context.Context, id int64, reason string) error
	SetFailureReason(ctx context.Context, id int64, reason string) error
	MarkRefunded(ctx context.Context, id int64) error
	ListRetriable(ctx context.Context, limit uint) ([]domain.Order, error)
	ListDueItems(ctx context.Context, now time.Time, limit uint) ([]repoargs.DueItem, error)
	LockItem(ctx context.Context, itemID int64) (*repoargs.DueItem, error)
	MarkItemDelivered(ctx context.Context, itemID int64, deliveredAt, autoReleaseAt time.Time) error
	MarkItemReleased(ctx context.Context, args repoargs.MarkItemReleased) error
	MarkCompleted(ctx context.Context, id int64) error
}

type WithdrawalRepository interface {
	Create(ctx context.Context, args repoargs.CreateWithdrawal) (*domain.WithdrawalRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error)
	LockByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error)
	ListByUser(
		ctx context.Context,
		userID int64,
		statuses []domain.WithdrawalStatus,
	) ([]domain.WithdrawalRequest, error)
	Approve(ctx context.Context, id, approvedBy int64, at time.Time) (*domain.WithdrawalRequest, error)
	Reject(ctx context.Context, id int64, reason string, at time.Time) (*domain.WithdrawalRequest, error)
	Cancel(ctx context.Context, id int64, at time.Time) (*domain.WithdrawalRequest, error)
	Complete(ctx context.Context, id, transactionID int64, at time.Time) (*domain.WithdrawalRequest, error)
}

// EventPublisher delivers ledger events to downstream consumers. Called only after a commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.LedgerEvent) error
}

type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error)
	CaptureIntent(ctx context.Context, intentID, idempotencyKey string) (*domain.PaymentIntent, error)
	CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error)
	CreateRefund(ctx context.Context, req domain.RefundRequest) (*domain.Refund, error)
}

// TransferRetryScheduler queues a delayed retry of one seller transfer.
type TransferRetryScheduler interface {
	ScheduleTransferRetry(ctx context.Context, orderID int64, delay time.Duration) error
}
