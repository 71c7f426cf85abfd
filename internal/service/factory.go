package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	Wallet     *WalletService
	Seller     *SellerService
	Escrow     *EscrowService
	Release    *ReleaseService
	Order      *OrderService
	Payment    *PaymentService
	Withdrawal *WithdrawalService
}

type FactoryArgs struct {
	Publisher         EventPublisher
	Provider          PaymentProvider
	Scheduler         TransferRetryScheduler
	Logger            *logrus.Logger
	Currency          string
	Fees              FeeSchedule
	EscrowPolicy      EscrowPolicy
	AutoReleaseWindow time.Duration
	TransferWorkers   int
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	risk := NewRiskEngine()

	walletService, walletErr := NewWalletService(unitOfWork, args.Publisher, args.Logger, args.Currency)
	if walletErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletErr.Error())
	}

	sellerService, sellerErr := NewSellerService(unitOfWork, risk)
	if sellerErr != nil {
		return nil, fmt.Errorf("service factory: %s", sellerErr.Error())
	}

	escrowService, escrowErr := NewEscrowService(unitOfWork, risk, args.EscrowPolicy, args.Publisher, args.Logger)
	if escrowErr != nil {
		return nil, fmt.Errorf("service factory: %s", escrowErr.Error())
	}

	releaseService, releaseErr := NewReleaseService(unitOfWork, escrowService, args.AutoReleaseWindow, args.Logger)
	if releaseErr != nil {
		return nil, fmt.Errorf("service factory: %s", releaseErr.Error())
	}

	orderService, orderErr := NewOrderService(unitOfWork, args.Fees)
	if orderErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderErr.Error())
	}

	paymentService, paymentErr := NewPaymentService(unitOfWork, args.Provider, args.Scheduler, args.Logger)
	if paymentErr != nil {
		return nil, fmt.Errorf("service factory: %s", paymentErr.Error())
	}
	paymentService.SetWorkers(args.TransferWorkers)

	withdrawalService, withdrawalErr := NewWithdrawalService(unitOfWork, args.Publisher, args.Logger)
	if withdrawalErr != nil {
		return nil, fmt.Errorf("service factory: %s", withdrawalErr.Error())
	}

	return &AppServices{
		Wallet:     walletService,
		Seller:     sellerService,
		Escrow:     escrowService,
		Release:    releaseService,
		Order:      orderService,
		Payment:    paymentService,
		Withdrawal: withdrawalService,
	}, nil
}
