package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReleaseServiceTestSuite struct {
	serviceSuite
	service *ReleaseService
	seller  *domain.Seller
	wallet  *walletState
}

func TestReleaseServiceSuite(t *testing.T) {
	suite.Run(t, new(ReleaseServiceTestSuite))
}

func (s *ReleaseServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	risk := &RiskEngine{now: s.fixedNow}
	escrow, err := NewEscrowService(s.mockUOW, risk, DefaultEscrowPolicy(), s.publisher, s.logger)
	s.Require().NoError(err)
	escrow.now = s.fixedNow

	service, releaseErr := NewReleaseService(s.mockUOW, escrow, DefaultAutoReleaseWindow, s.logger)
	s.Require().NoError(releaseErr)
	service.now = s.fixedNow
	s.service = service

	s.seller = &domain.Seller{
		ID:               100,
		TrustLevel:       domain.TrustLevelVerified,
		CompletedSales:   300,
		AccountCreatedAt: s.now.AddDate(-2, 0, 0),
	}
	s.wallet = newWalletState(1, 100, "0", "0")
}

func (s *ReleaseServiceTestSuite) dueItem(itemID int64, sellerID int64) *repoargs.DueItem {
	releaseAt := s.now.Add(-time.Hour)
	return &repoargs.DueItem{
		Item: domain.OrderItem{
			ID:            itemID,
			OrderID:       itemID * 10,
			Total:         dec("50"),
			Status:        domain.ItemStatusDelivered,
			AutoReleaseAt: &releaseAt,
		},
		SellerID:      sellerID,
		BuyerID:       1,
		Currency:      "USD",
		PaymentStatus: domain.PaymentStatusPaid,
	}
}

// orderOf prices the items like checkout does with a 10% fee.
func (s *ReleaseServiceTestSuite) orderOf(orderID int64, items ...domain.OrderItem) *domain.Order {
	subtotal := decimal.Zero
	for i := range items {
		items[i].OrderID = orderID
		subtotal = subtotal.Add(items[i].Total)
	}
	fee := percentOf(subtotal, dec("10"))
	return &domain.Order{
		ID:            orderID,
		SellerID:      100,
		Subtotal:      subtotal,
		PlatformFee:   fee,
		SellerPayout:  subtotal.Sub(fee),
		Total:         subtotal,
		Currency:      "USD",
		PaymentStatus: domain.PaymentStatusPaid,
		Status:        domain.OrderStatusProcessing,
		Items:         items,
	}
}

// expectCredit sets up crediting one item's earnings to the seller wallet.
func (s *ReleaseServiceTestSuite) expectCredit(earnings string, sales int) {
	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(100)).Return(s.seller, nil)
	s.walletRepo.EXPECT().GetOrCreate(gomock.Any(), int64(100), "USD").Return(s.wallet.snapshot(), nil)
	s.sellerRepo.EXPECT().RecordSale(gomock.Any(), int64(100), decEq(earnings), sales).Return(nil)
	s.txRepo.EXPECT().ApplyHold(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.ApplyHold) (*domain.Transaction, error) {
			s.Equal(s.now.Add(3*24*time.Hour), args.HoldUntil)
			return &domain.Transaction{
				ID:        args.TransactionID,
				WalletID:  1,
				UserID:    100,
				Type:      domain.TransactionTypeSale,
				Amount:    dec(earnings),
				IsHeld:    true,
				HoldUntil: &args.HoldUntil,
			}, nil
		})
}

func (s *ReleaseServiceTestSuite) TestRunAutoReleaseSweep() {
	due := []repoargs.DueItem{*s.dueItem(1, 100), *s.dueItem(2, 100), *s.dueItem(3, 300)}
	s.orderRepo.EXPECT().ListDueItems(gomock.Any(), s.now, defaultReleaseSweepLimit).Return(due, nil)
	s.expectDo().AnyTimes()

	// 1 is released
	first := s.dueItem(1, 100)
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(1)).Return(first, nil)
	s.orderRepo.EXPECT().LockByID(gomock.Any(), int64(10)).Return(s.orderOf(10, first.Item), nil)
	s.bindWallet(s.wallet)
	var created []repoargs.CreateTransaction
	s.recordTransactions(&created)
	s.expectCredit("45", 1)
	s.orderRepo.EXPECT().MarkItemReleased(gomock.Any(), repoargs.MarkItemReleased{
		ItemID:     1,
		Auto:       true,
		ReleasedAt: s.now,
	}).Return(nil)
	s.orderRepo.EXPECT().MarkCompleted(gomock.Any(), int64(10)).Return(nil)

	// 2 was confirmed by the buyer in the meantime
	confirmed := s.dueItem(2, 100)
	confirmed.Item.BuyerConfirmed = true
	confirmed.Item.FundsReleased = true
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(2)).Return(confirmed, nil)

	// 3 fails
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(3)).Return(s.dueItem(3, 300), nil)
	s.orderRepo.EXPECT().LockByID(gomock.Any(), int64(30)).Return(nil, errors.New("connection reset"))

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events ...domain.LedgerEvent) error {
			s.Equal(domain.EventSaleCredited, events[0].Type)
			s.True(events[0].Amount.Equal(dec("45")))
			return nil
		})

	report, err := s.service.RunAutoReleaseSweep(s.T().Context(), 0)
	s.Require().NoError(err)
	s.Equal(3, report.Processed)
	s.Equal(1, report.Released)
	s.Equal(1, report.Skipped)
	s.Require().Len(report.Failures, 1)
	s.Equal(int64(3), report.Failures[0].ItemID)

	s.True(s.wallet.wallet.Balance.Equal(dec("45")))
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("45")))
	s.Require().Len(created, 1)
	s.Require().NotNil(created[0].OrderID)
	s.Equal(int64(10), *created[0].OrderID)
}

func (s *ReleaseServiceTestSuite) TestConfirmItem() {
	s.expectDo().AnyTimes()

	pending := s.dueItem(5, 100)
	pending.Item.Status = domain.ItemStatusPending
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(5)).Return(pending, nil)
	_, notDeliveredErr := s.service.ConfirmItem(s.T().Context(), 1, 5)
	s.Require().ErrorIs(notDeliveredErr, domain.ErrInvalidState)

	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(6)).Return(s.dueItem(6, 100), nil)
	_, strangerErr := s.service.ConfirmItem(s.T().Context(), 2, 6)
	s.Require().ErrorIs(strangerErr, domain.ErrOwnerConflict)

	item := s.dueItem(7, 100)
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(7)).Return(item, nil)
	s.orderRepo.EXPECT().LockByID(gomock.Any(), int64(70)).Return(s.orderOf(70, item.Item), nil)
	s.bindWallet(s.wallet)
	var created []repoargs.CreateTransaction
	s.recordTransactions(&created)
	s.expectCredit("45", 1)
	s.orderRepo.EXPECT().MarkItemReleased(gomock.Any(), repoargs.MarkItemReleased{
		ItemID:     7,
		Auto:       false,
		ReleasedAt: s.now,
	}).Return(nil)
	s.orderRepo.EXPECT().MarkCompleted(gomock.Any(), int64(70)).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	credited, err := s.service.ConfirmItem(s.T().Context(), 1, 7)
	s.Require().NoError(err)
	s.True(credited.Amount.Equal(dec("45")))
	s.True(credited.IsHeld)
}

func (s *ReleaseServiceTestSuite) TestMultiItemOrderIsOneSale() {
	s.expectDo().AnyTimes()
	s.bindWallet(s.wallet)
	var created []repoargs.CreateTransaction
	s.recordTransactions(&created)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	items := make([]domain.OrderItem, 3)
	for i := range items {
		items[i] = s.dueItem(int64(41+i), 100).Item
		items[i].Total = dec("10.05")
	}
	// subtotal 30.15, fee 3.02, payout 27.13
	order := s.orderOf(40, items...)
	s.True(order.SellerPayout.Equal(dec("27.13")))

	for i, earnings := range []string{"9.04", "9.04", "9.05"} {
		itemID := items[i].ID
		locked := *order
		locked.Items = append([]domain.OrderItem(nil), items...)
		for j := 0; j < i; j++ {
			locked.Items[j].FundsReleased = true
		}
		last := i == len(items)-1

		s.orderRepo.EXPECT().LockItem(gomock.Any(), itemID).Return(&repoargs.DueItem{
			Item:          items[i],
			SellerID:      100,
			BuyerID:       1,
			Currency:      "USD",
			PaymentStatus: domain.PaymentStatusPaid,
		}, nil)
		s.orderRepo.EXPECT().LockByID(gomock.Any(), int64(40)).Return(&locked, nil)
		s.orderRepo.EXPECT().MarkItemReleased(gomock.Any(), repoargs.MarkItemReleased{
			ItemID:     itemID,
			ReleasedAt: s.now,
		}).Return(nil)
		if last {
			s.orderRepo.EXPECT().MarkCompleted(gomock.Any(), int64(40)).Return(nil)
		}
		s.expectCredit(earnings, completedSales(last))

		credited, err := s.service.ConfirmItem(s.T().Context(), 1, itemID)
		s.Require().NoError(err)
		s.True(credited.Amount.Equal(dec(earnings)))
	}

	s.True(s.wallet.wallet.Balance.Equal(order.SellerPayout))
	s.Len(created, 3)
}

func (s *ReleaseServiceTestSuite) TestZeroEarningsReleaseWithoutLedgerEntry() {
	s.expectDo().AnyTimes()

	due := s.dueItem(8, 100)
	due.Item.Total = dec("5")
	order := s.orderOf(80, due.Item)
	// the whole item went to the platform
	order.PlatformFee = order.Subtotal
	order.SellerPayout = decimal.Zero

	s.orderRepo.EXPECT().ListDueItems(gomock.Any(), s.now, defaultReleaseSweepLimit).
		Return([]repoargs.DueItem{*due}, nil)
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(8)).Return(due, nil)
	s.orderRepo.EXPECT().LockByID(gomock.Any(), int64(80)).Return(order, nil)
	s.orderRepo.EXPECT().MarkItemReleased(gomock.Any(), repoargs.MarkItemReleased{
		ItemID:     8,
		Auto:       true,
		ReleasedAt: s.now,
	}).Return(nil)
	s.orderRepo.EXPECT().MarkCompleted(gomock.Any(), int64(80)).Return(nil)
	s.sellerRepo.EXPECT().RecordSale(gomock.Any(), int64(100), decEq("0"), 1).Return(nil)

	report, err := s.service.RunAutoReleaseSweep(s.T().Context(), 0)
	s.Require().NoError(err)
	s.Equal(1, report.Released)
	s.Empty(report.Failures)
}

func (s *ReleaseServiceTestSuite) TestItemEarnings() {
	items := []domain.OrderItem{
		{ID: 1, Total: dec("10.05"), FundsReleased: true},
		{ID: 2, Total: dec("10.05"), Status: domain.ItemStatusCancelled},
		{ID: 3, Total: dec("10.05")},
		{ID: 4, Total: dec("10.05")},
	}
	order := s.orderOf(1, items...)

	earnings, last := ItemEarnings(*order, 3)
	s.False(last)
	s.True(earnings.Equal(dec("9.04")), earnings.String())

	order.Items[3].FundsReleased = true
	earnings, last = ItemEarnings(*order, 3)
	s.True(last)
	// payout 36.18 minus the shares of the other three items
	s.True(earnings.Equal(dec("9.06")), earnings.String())
}

func (s *ReleaseServiceTestSuite) TestMarkItemDelivered() {
	s.expectDo().AnyTimes()

	pending := s.dueItem(1, 100)
	pending.Item.Status = domain.ItemStatusPending
	pending.Item.AutoReleaseAt = nil
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(1)).Return(pending, nil).Times(2)
	s.orderRepo.EXPECT().MarkItemDelivered(gomock.Any(), int64(1), s.now, s.now.Add(72*time.Hour)).Return(nil)

	unpaid := s.dueItem(2, 100)
	unpaid.Item.Status = domain.ItemStatusPending
	unpaid.PaymentStatus = domain.PaymentStatusPending
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(2)).Return(unpaid, nil)

	delivered := s.dueItem(3, 100)
	s.orderRepo.EXPECT().LockItem(gomock.Any(), int64(3)).Return(delivered, nil)

	s.Require().NoError(s.service.MarkItemDelivered(s.T().Context(), 100, 1))
	s.Require().ErrorIs(s.service.MarkItemDelivered(s.T().Context(), 999, 1), domain.ErrOwnerConflict)
	s.Require().ErrorIs(s.service.MarkItemDelivered(s.T().Context(), 100, 2), domain.ErrInvalidState)
	s.Require().ErrorIs(s.service.MarkItemDelivered(s.T().Context(), 100, 3), domain.ErrInvalidState)
}
