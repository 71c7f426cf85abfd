package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletServicer interface {
	GetOrCreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	GetWallet(ctx context.Context, userID int64) (*domain.WalletBalance, error)
	ListTransactions(ctx context.Context, filter repoargs.TransactionFilter) ([]domain.Transaction, error)
	ReconcileWallet(ctx context.Context, walletID int64) (*service.Reconciliation, error)
}

type OrderServicer interface {
	SplitCartAndCreateOrders(
		ctx context.Context,
		cart domain.Cart,
		feePercent *decimal.Decimal,
	) ([]domain.Order, error)
	GetOrderGroup(ctx context.Context, groupID uuid.UUID, buyerID int64) ([]domain.Order, error)
}

type PaymentServicer interface {
	PayOrderGroup(ctx context.Context, groupID uuid.UUID, customer string) (*domain.PaymentIntent, error)
	ConfirmOrderGroupPayment(ctx context.Context, groupID uuid.UUID) ([]domain.TransferFailure, error)
	RefundFailedTransfer(ctx context.Context, orderID int64) (*domain.Refund, error)
}

type ReleaseServicer interface {
	MarkItemDelivered(ctx context.Context, sellerID, itemID int64) error
	ConfirmItem(ctx context.Context, buyerID, itemID int64) (*domain.Transaction, error)
	RunAutoReleaseSweep(ctx context.Context, limit uint) (*service.SweepReport, error)
}

type EscrowServicer interface {
	ReleaseDueHolds(ctx context.Context, limit uint) (*service.HoldReleaseReport, error)
}

type SellerServicer interface {
	RecordChargeback(ctx context.Context, sellerID int64) (*domain.Seller, error)
	RecordDispute(ctx context.Context, sellerID int64) (*domain.Seller, error)
}

type WithdrawalServicer interface {
	CreateWithdrawalRequest(ctx context.Context, args service.CreateWithdrawalArgs) (*domain.WithdrawalRequest, error)
	CancelWithdrawal(ctx context.Context, requestID, userID int64) (*domain.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, requestID, approverID int64) (*domain.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, requestID int64, reason string) (*domain.WithdrawalRequest, error)
	CompleteWithdrawal(ctx context.Context, requestID int64) (*domain.WithdrawalRequest, error)
	ListWithdrawals(
		ctx context.Context,
		userID int64,
		statuses ...domain.WithdrawalStatus,
	) ([]domain.WithdrawalRequest, error)
}
