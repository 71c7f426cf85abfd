package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type EscrowServiceTestSuite struct {
	serviceSuite
	service *EscrowService
	seller  *domain.Seller
	wallet  *walletState
}

func TestEscrowServiceSuite(t *testing.T) {
	suite.Run(t, new(EscrowServiceTestSuite))
}

func (s *EscrowServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	risk := &RiskEngine{now: s.fixedNow}
	service, err := NewEscrowService(s.mockUOW, risk, DefaultEscrowPolicy(), s.publisher, s.logger)
	s.Require().NoError(err)
	service.now = s.fixedNow
	s.service = service

	s.seller = &domain.Seller{
		ID:               100,
		AccountCreatedAt: s.now.Add(-10 * 24 * time.Hour),
		TrustLevel:       domain.TrustLevelNew,
	}
	s.wallet = newWalletState(1, 100, "0", "0")
}

func (s *EscrowServiceTestSuite) TestCalculateHoldPeriod() {
	cases := []struct {
		level  domain.TrustLevel
		amount string
		want   int
	}{
		{level: domain.TrustLevelNew, amount: "600", want: 32},
		{level: domain.TrustLevelNew, amount: "100", want: 21},
		{level: domain.TrustLevelStandard, amount: "500", want: 21},
		{level: domain.TrustLevelTrusted, amount: "499.99", want: 7},
		{level: domain.TrustLevelVerified, amount: "1000", want: 5},
		{level: "", amount: "10", want: 21},
	}
	for _, t := range cases {
		s.Run(string(t.level)+" "+t.amount, func() {
			got := s.service.CalculateHoldPeriod(domain.Seller{TrustLevel: t.level}, dec(t.amount))
			s.Equal(t.want, got)
		})
	}
}

func (s *EscrowServiceTestSuite) TestCalculateReservePercent() {
	s.True(s.service.CalculateReservePercent(domain.Seller{TrustLevel: domain.TrustLevelNew}).Equal(dec("20")))
	s.True(s.service.CalculateReservePercent(domain.Seller{TrustLevel: domain.TrustLevelTrusted}).Equal(dec("5")))
	s.True(s.service.CalculateReservePercent(domain.Seller{TrustLevel: domain.TrustLevelVerified}).IsZero())
}

func (s *EscrowServiceTestSuite) TestCreditSaleHoldsFunds() {
	s.bindWallet(s.wallet)
	var created []repoargs.CreateTransaction
	s.recordTransactions(&created)
	s.expectDo()

	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(100)).Return(s.seller, nil)
	s.walletRepo.EXPECT().GetOrCreate(gomock.Any(), int64(100), "USD").Return(s.wallet.snapshot(), nil)
	s.sellerRepo.EXPECT().RecordSale(gomock.Any(), int64(100), decEq("600"), 1).Return(nil)
	s.txRepo.EXPECT().ApplyHold(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.ApplyHold) (*domain.Transaction, error) {
			s.Equal(s.now.Add(32*24*time.Hour), args.HoldUntil)
			s.Equal(65, args.RiskScore)
			s.Equal("escrow: new seller, 32 days", args.HoldReason)
			return &domain.Transaction{
				ID:         args.TransactionID,
				WalletID:   1,
				UserID:     100,
				Type:       domain.TransactionTypeSale,
				Amount:     dec("600"),
				Status:     domain.TransactionStatusCompleted,
				IsHeld:     true,
				HoldUntil:  &args.HoldUntil,
				HoldReason: args.HoldReason,
				RiskScore:  &args.RiskScore,
			}, nil
		})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events ...domain.LedgerEvent) error {
			s.Equal(domain.EventSaleCredited, events[0].Type)
			return nil
		})

	held, err := s.service.CreditSale(s.T().Context(), CreditSaleArgs{
		SellerID: 100,
		OrderID:       9,
		Amount:        dec("600"),
		Currency:      "USD",
		CompletesSale: true,
	})
	s.Require().NoError(err)
	s.True(held.IsHeld)

	s.True(s.wallet.wallet.Balance.Equal(dec("600")))
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("600")))
	s.True(s.wallet.wallet.AvailableBalance().IsZero())
	s.Require().Len(created, 1)
	s.Equal(domain.TransactionTypeSale, created[0].Type)
}

func (s *EscrowServiceTestSuite) TestApplyHoldDoesNotReserveTwice() {
	s.wallet = newWalletState(1, 100, "600", "600")
	s.bindWallet(s.wallet)
	s.expectDo()

	later := s.now.Add(40 * 24 * time.Hour)
	heldTx := &domain.Transaction{
		ID:        50,
		WalletID:  1,
		Amount:    dec("600"),
		Status:    domain.TransactionStatusCompleted,
		IsHeld:    true,
		HoldUntil: &later,
	}
	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(100)).Return(s.seller, nil)
	s.txRepo.EXPECT().GetByID(gomock.Any(), int64(50)).Return(heldTx, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(50)).Return(heldTx, nil)
	s.txRepo.EXPECT().ApplyHold(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.ApplyHold) (*domain.Transaction, error) {
			s.Equal("manual review", args.HoldReason)
			// the repository keeps the later hold_until
			return heldTx, nil
		})

	held, err := s.service.ApplyHold(s.T().Context(), 50, 100, "manual review")
	s.Require().NoError(err)
	s.Equal(later, *held.HoldUntil)
	s.Empty(s.wallet.deltas)
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("600")))
}

func (s *EscrowServiceTestSuite) TestApplyHoldRejects() {
	other := newWalletState(2, 555, "100", "0")
	s.bindWallet(other)
	s.bindWallet(s.wallet)
	s.expectDo().AnyTimes()
	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(100)).Return(s.seller, nil).AnyTimes()

	foreign := &domain.Transaction{ID: 60, WalletID: 2, Amount: dec("100"), Status: domain.TransactionStatusCompleted}
	s.txRepo.EXPECT().GetByID(gomock.Any(), int64(60)).Return(foreign, nil)

	debit := &domain.Transaction{ID: 61, WalletID: 1, Amount: dec("-10"), Status: domain.TransactionStatusCompleted}
	s.txRepo.EXPECT().GetByID(gomock.Any(), int64(61)).Return(debit, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(61)).Return(debit, nil)

	failed := &domain.Transaction{ID: 62, WalletID: 1, Amount: dec("10"), Status: domain.TransactionStatusFailed}
	s.txRepo.EXPECT().GetByID(gomock.Any(), int64(62)).Return(failed, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(62)).Return(failed, nil)

	_, foreignErr := s.service.ApplyHold(s.T().Context(), 60, 100, "")
	s.Require().ErrorIs(foreignErr, domain.ErrOwnerConflict)

	_, debitErr := s.service.ApplyHold(s.T().Context(), 61, 100, "")
	s.Require().ErrorIs(debitErr, domain.ErrInvalidAmount)

	_, failedErr := s.service.ApplyHold(s.T().Context(), 62, 100, "")
	s.Require().ErrorIs(failedErr, domain.ErrInvalidState)

	s.Empty(s.wallet.deltas)
	s.Empty(other.deltas)
}

func (s *EscrowServiceTestSuite) TestReleaseHoldOnce() {
	s.wallet = newWalletState(1, 100, "600", "600")
	s.bindWallet(s.wallet)
	s.expectDo().Times(2)

	heldTx := &domain.Transaction{ID: 50, WalletID: 1, Amount: dec("600"), IsHeld: true}
	releasedTx := &domain.Transaction{ID: 50, WalletID: 1, Amount: dec("600"), ReleasedAt: &s.now}
	s.txRepo.EXPECT().GetByID(gomock.Any(), int64(50)).Return(heldTx, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(50)).Return(heldTx, nil)
	s.txRepo.EXPECT().ReleaseHold(gomock.Any(), int64(50), s.now).Return(releasedTx, nil)
	s.txRepo.EXPECT().GetByID(gomock.Any(), int64(50)).Return(releasedTx, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(50)).Return(releasedTx, nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	released, err := s.service.ReleaseHold(s.T().Context(), 50)
	s.Require().NoError(err)
	s.False(released.IsHeld)
	s.True(s.wallet.wallet.PendingBalance.IsZero())
	s.True(s.wallet.wallet.AvailableBalance().Equal(dec("600")))

	_, againErr := s.service.ReleaseHold(s.T().Context(), 50)
	s.Require().ErrorIs(againErr, domain.ErrInvalidState)
	s.True(s.wallet.wallet.PendingBalance.IsZero())
	s.Len(s.wallet.deltas, 1)
}

func (s *EscrowServiceTestSuite) TestReleaseDueHolds() {
	s.wallet = newWalletState(1, 100, "300", "300")
	s.bindWallet(s.wallet)
	s.expectDo().AnyTimes()

	due := []domain.Transaction{
		{ID: 1, WalletID: 1, Amount: dec("100"), IsHeld: true},
		{ID: 2, WalletID: 1, Amount: dec("100"), IsHeld: true},
		{ID: 3, WalletID: 1, Amount: dec("100"), IsHeld: true},
	}
	s.txRepo.EXPECT().ListDueHolds(gomock.Any(), s.now, defaultHoldSweepLimit).Return(due, nil)
	for i := range due {
		s.txRepo.EXPECT().GetByID(gomock.Any(), due[i].ID).Return(&due[i], nil)
	}

	// 1 is released, 2 was released concurrently, 3 fails in the repository
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(1)).Return(&due[0], nil)
	s.txRepo.EXPECT().ReleaseHold(gomock.Any(), int64(1), s.now).
		Return(&domain.Transaction{ID: 1, WalletID: 1, Amount: dec("100")}, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(2)).
		Return(&domain.Transaction{ID: 2, WalletID: 1, Amount: dec("100")}, nil)
	s.txRepo.EXPECT().LockByID(gomock.Any(), int64(3)).Return(&due[2], nil)
	s.txRepo.EXPECT().ReleaseHold(gomock.Any(), int64(3), s.now).Return(nil, errors.New("connection reset"))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.ReleaseDueHolds(s.T().Context(), 0)
	s.Require().NoError(err)
	s.Equal(1, report.Released)
	s.Equal(1, report.Skipped)
	s.Require().Len(report.Failures, 1)
	s.Equal(int64(3), report.Failures[0].TransactionID)
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("200")))
}
