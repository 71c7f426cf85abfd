package api

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup              = "/api"
	WalletRoute             = "/wallet"
	WalletTransactionsRoute = "/wallet/transactions"
	CheckoutRoute           = "/checkout"
	OrderGroupRoute         = "/orders/groups/:group_id"
	OrderGroupPayRoute      = "/orders/groups/:group_id/pay"
	OrderGroupConfirmRoute  = "/orders/groups/:group_id/confirm"
	OrderItemDeliverRoute   = "/orders/items/:item_id/deliver"
	OrderItemConfirmRoute   = "/orders/items/:item_id/confirm"
	WithdrawalsRoute        = "/withdrawals"
	WithdrawalCancelRoute   = "/withdrawals/:id/cancel"

	AdminGroup                   = "/admin"
	AdminWithdrawalApproveRoute  = "/withdrawals/:id/approve"
	AdminWithdrawalRejectRoute   = "/withdrawals/:id/reject"
	AdminWithdrawalCompleteRoute = "/withdrawals/:id/complete"
	AdminAutoReleaseSweepRoute   = "/sweeps/auto-release"
	AdminHoldsSweepRoute         = "/sweeps/holds"
	AdminOrderRefundRoute        = "/orders/:id/refund"
	AdminWalletReconcileRoute    = "/wallets/:id/reconcile"
	AdminSellerChargebacksRoute  = "/sellers/:id/chargebacks"
	AdminSellerDisputesRoute     = "/sellers/:id/disputes"
)

type RouterArgs struct {
	Logger            *logrus.Logger
	WalletService     WalletServicer
	OrderService      OrderServicer
	PaymentService    PaymentServicer
	ReleaseService    ReleaseServicer
	EscrowService     EscrowServicer
	SellerService     SellerServicer
	WithdrawalService WithdrawalServicer
	Currency          string
	JWTSecretKey      []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	walletHandler := NewWalletHandler(args.WalletService)
	ordersHandler := NewOrdersHandler(args.OrderService, args.PaymentService, args.ReleaseService, args.Currency)
	withdrawalsHandler := NewWithdrawalsHandler(args.WithdrawalService)
	adminHandler := NewAdminHandler(AdminHandlerArgs{
		Withdrawals: args.WithdrawalService,
		Release:     args.ReleaseService,
		Escrow:      args.EscrowService,
		Payments:    args.PaymentService,
		Wallets:     args.WalletService,
		Sellers:     args.SellerService,
	})

	api := r.Group(RouteGroup)
	// every route below needs an authorized user.
	api.Use(middlewares.AuthRequired(args.JWTSecretKey))

	api.GET(WalletRoute, walletHandler.Index)
	api.GET(WalletTransactionsRoute, walletHandler.Transactions)

	// carts are priced by the catalog, buyers never submit one directly.
	api.POST(CheckoutRoute, middlewares.ServiceRequired(), ordersHandler.Checkout)
	api.GET(OrderGroupRoute, ordersHandler.Group)
	api.POST(OrderGroupPayRoute, ordersHandler.Pay)
	api.POST(OrderGroupConfirmRoute, ordersHandler.ConfirmPayment)
	api.POST(OrderItemDeliverRoute, ordersHandler.Deliver)
	api.POST(OrderItemConfirmRoute, ordersHandler.ConfirmItem)

	api.POST(WithdrawalsRoute, withdrawalsHandler.Create)
	api.GET(WithdrawalsRoute, withdrawalsHandler.Index)
	api.POST(WithdrawalCancelRoute, withdrawalsHandler.Cancel)

	admin := api.Group(AdminGroup, middlewares.AdminRequired())
	admin.POST(AdminWithdrawalApproveRoute, adminHandler.ApproveWithdrawal)
	admin.POST(AdminWithdrawalRejectRoute, adminHandler.RejectWithdrawal)
	admin.POST(AdminWithdrawalCompleteRoute, adminHandler.CompleteWithdrawal)
	admin.POST(AdminAutoReleaseSweepRoute, adminHandler.RunAutoRelease)
	admin.POST(AdminHoldsSweepRoute, adminHandler.ReleaseHolds)
	admin.POST(AdminOrderRefundRoute, adminHandler.RefundOrder)
	admin.GET(AdminWalletReconcileRoute, adminHandler.ReconcileWallet)
	admin.POST(AdminSellerChargebacksRoute, adminHandler.RecordChargeback)
	admin.POST(AdminSellerDisputesRoute, adminHandler.RecordDispute)
	return r, nil
}
