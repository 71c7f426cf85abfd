package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	serviceSuite
	provider  *mocks.MockPaymentProvider
	scheduler *mocks.MockTransferRetryScheduler
	service   *PaymentService
	groupID   uuid.UUID
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.provider = mocks.NewMockPaymentProvider(s.mockCtrl)
	s.scheduler = mocks.NewMockTransferRetryScheduler(s.mockCtrl)

	service, err := NewPaymentService(s.mockUOW, s.provider, s.scheduler, s.logger)
	s.Require().NoError(err)
	service.now = s.fixedNow
	s.service = service.SetWorkers(2)
	s.groupID = uuid.New()

	sellers := []*domain.Seller{
		{ID: 100, PayoutAccountID: "acct_a"},
		{ID: 200, PayoutAccountID: "acct_b"},
		{ID: 300, PayoutAccountID: "acct_c"},
		{ID: 400},
	}
	for _, seller := range sellers {
		s.sellerRepo.EXPECT().GetByID(gomock.Any(), seller.ID).Return(seller, nil).AnyTimes()
	}
}

func (s *PaymentServiceTestSuite) order(id, sellerID int64, total, fee string) domain.Order {
	return domain.Order{
		ID:            id,
		OrderGroupID:  s.groupID,
		BuyerID:       1,
		SellerID:      sellerID,
		Subtotal:      dec(total),
		PlatformFee:   dec(fee),
		SellerPayout:  dec(total).Sub(dec(fee)),
		Total:         dec(total),
		Currency:      "USD",
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.OrderStatusPending,
	}
}

func (s *PaymentServiceTestSuite) captured(orders ...domain.Order) []domain.Order {
	for i := range orders {
		orders[i].PaymentIntentID = "pi_1"
		orders[i].CapturedAt = &s.now
	}
	return orders
}

func (s *PaymentServiceTestSuite) TestPayOrderGroupSingleSeller() {
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).
		Return([]domain.Order{s.order(1, 100, "40", "4")}, nil)
	s.provider.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error) {
			s.True(req.Amount.Equal(dec("40")))
			s.Equal("acct_a", req.Destination)
			s.True(req.ApplicationFee.Equal(dec("4")))
			s.Empty(req.TransferGroup)
			s.Equal("intent-"+s.groupID.String(), req.IdempotencyKey)
			s.Equal("cus_1", req.Customer)
			return &domain.PaymentIntent{ID: "pi_1", Status: domain.IntentStatusRequiresConfirmation}, nil
		})
	s.orderRepo.EXPECT().SetPaymentIntent(gomock.Any(), s.groupID, "pi_1").Return(nil)

	intent, err := s.service.PayOrderGroup(s.T().Context(), s.groupID, "cus_1")
	s.Require().NoError(err)
	s.Equal("pi_1", intent.ID)
}

func (s *PaymentServiceTestSuite) TestPayOrderGroupMultiSeller() {
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).
		Return([]domain.Order{s.order(1, 100, "40", "4"), s.order(2, 200, "60", "6")}, nil)
	s.provider.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error) {
			s.True(req.Amount.Equal(dec("100")))
			s.Empty(req.Destination)
			s.True(req.ApplicationFee.IsZero())
			s.Equal(s.groupID.String(), req.TransferGroup)
			return &domain.PaymentIntent{ID: "pi_2"}, nil
		})
	s.orderRepo.EXPECT().SetPaymentIntent(gomock.Any(), s.groupID, "pi_2").Return(nil)

	intent, err := s.service.PayOrderGroup(s.T().Context(), s.groupID, "")
	s.Require().NoError(err)
	s.Equal("pi_2", intent.ID)
}

func (s *PaymentServiceTestSuite) TestPayOrderGroupIsRepeatable() {
	order := s.order(1, 100, "40", "4")
	order.PaymentIntentID = "pi_1"
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).Return([]domain.Order{order}, nil)
	s.provider.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
		Return(&domain.PaymentIntent{ID: "pi_1", Status: domain.IntentStatusRequiresCapture}, nil)

	intent, err := s.service.PayOrderGroup(s.T().Context(), s.groupID, "")
	s.Require().NoError(err)
	s.Equal(domain.IntentStatusRequiresCapture, intent.Status)
}

func (s *PaymentServiceTestSuite) TestPayOrderGroupRejects() {
	notOnboarded, other := uuid.New(), uuid.New()
	paid := s.order(2, 100, "10", "1")
	paid.PaymentStatus = domain.PaymentStatusPaid

	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), notOnboarded).
		Return([]domain.Order{s.order(1, 400, "10", "1")}, nil)
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), other).Return([]domain.Order{paid}, nil)

	_, onboardErr := s.service.PayOrderGroup(s.T().Context(), notOnboarded, "")
	s.Require().ErrorIs(onboardErr, domain.ErrSellerNotOnboarded)

	_, paidErr := s.service.PayOrderGroup(s.T().Context(), other, "")
	s.Require().ErrorIs(paidErr, domain.ErrInvalidState)
}

func (s *PaymentServiceTestSuite) TestConfirmSplitsTransfers() {
	orders := []domain.Order{
		s.order(1, 100, "40", "4"),
		s.order(2, 200, "60", "6"),
		s.order(3, 300, "20", "2"),
		s.order(4, 400, "10", "1"),
	}
	for i := range orders {
		orders[i].PaymentIntentID = "pi_1"
	}
	gomock.InOrder(
		s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).Return(orders, nil),
		s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).
			Return(s.captured(append([]domain.Order(nil), orders...)...), nil),
	)
	s.provider.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
		Return(&domain.PaymentIntent{ID: "pi_1", Status: domain.IntentStatusRequiresCapture}, nil)
	s.provider.EXPECT().CaptureIntent(gomock.Any(), "pi_1", "capture-"+s.groupID.String()).
		Return(&domain.PaymentIntent{ID: "pi_1", Status: domain.IntentStatusSucceeded}, nil)
	s.orderRepo.EXPECT().MarkGroupCaptured(gomock.Any(), s.groupID, s.now).Return(nil)

	s.provider.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
			s.Equal(s.groupID.String(), req.TransferGroup)
			switch req.Destination {
			case "acct_a":
				s.Equal("transfer-1", req.IdempotencyKey)
				s.True(req.Amount.Equal(dec("36")))
				return &domain.Transfer{ID: "tr_1", Amount: req.Amount}, nil
			case "acct_b":
				return nil, domain.NewProviderTransientError("create transfer", 503, errors.New("unavailable"))
			default:
				return nil, domain.NewProviderPermanentError("create transfer", 400, "account_closed", "account closed")
			}
		}).Times(3)

	s.orderRepo.EXPECT().MarkPaid(gomock.Any(), int64(1), "tr_1").Return(&domain.Order{ID: 1}, nil)
	s.scheduler.EXPECT().ScheduleTransferRetry(gomock.Any(), int64(2), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, delay time.Duration) error {
			s.Greater(delay, 50*time.Second)
			s.Less(delay, 80*time.Second)
			return nil
		})
	s.orderRepo.EXPECT().MarkTransferFailed(gomock.Any(), int64(3), gomock.Any()).Return(nil)
	s.orderRepo.EXPECT().SetFailureReason(gomock.Any(), int64(4), domain.ErrSellerNotOnboarded.Error()).Return(nil)

	failures, err := s.service.ConfirmOrderGroupPayment(s.T().Context(), s.groupID)
	s.Require().NoError(err)
	s.Require().Len(failures, 3)

	s.Equal(int64(2), failures[0].OrderID)
	s.Require().ErrorIs(failures[0].Err, domain.ErrProviderTransient)
	s.Equal(int64(3), failures[1].OrderID)
	s.Require().ErrorIs(failures[1].Err, domain.ErrProviderPermanent)
	s.Equal(int64(4), failures[2].OrderID)
	s.Require().ErrorIs(failures[2].Err, domain.ErrSellerNotOnboarded)
}

func (s *PaymentServiceTestSuite) TestConfirmSingleSeller() {
	order := s.order(1, 100, "40", "4")
	order.PaymentIntentID = "pi_1"
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).Return([]domain.Order{order}, nil)
	s.provider.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
		Return(&domain.PaymentIntent{ID: "pi_1", Status: domain.IntentStatusSucceeded, TransferID: "tr_dest"}, nil)
	s.orderRepo.EXPECT().MarkGroupCaptured(gomock.Any(), s.groupID, s.now).Return(nil)
	// already settled by a concurrent confirmation
	s.orderRepo.EXPECT().MarkPaid(gomock.Any(), int64(1), "tr_dest").Return(nil, domain.ErrRecordNotFound)

	failures, err := s.service.ConfirmOrderGroupPayment(s.T().Context(), s.groupID)
	s.Require().NoError(err)
	s.Empty(failures)
}

func (s *PaymentServiceTestSuite) TestConfirmRequiresSucceededIntent() {
	order := s.order(1, 100, "40", "4")
	order.PaymentIntentID = "pi_1"
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).Return([]domain.Order{order}, nil)
	s.provider.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
		Return(&domain.PaymentIntent{ID: "pi_1", Status: domain.IntentStatusRequiresPaymentMethod}, nil)

	_, err := s.service.ConfirmOrderGroupPayment(s.T().Context(), s.groupID)
	s.Require().ErrorIs(err, domain.ErrInvalidState)
}

func (s *PaymentServiceTestSuite) TestRetryTransfer() {
	paid := s.order(1, 100, "40", "4")
	paid.PaymentStatus = domain.PaymentStatusPaid
	s.orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&paid, nil)
	s.Require().NoError(s.service.RetryTransfer(s.T().Context(), 1))

	pending := s.captured(s.order(2, 200, "60", "6"))[0]
	s.orderRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&pending, nil).Times(2)
	gomock.InOrder(
		s.provider.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
			Return(nil, domain.NewProviderTransientError("create transfer", 502, errors.New("bad gateway"))),
		s.provider.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
			Return(&domain.Transfer{ID: "tr_2"}, nil),
	)
	s.orderRepo.EXPECT().MarkPaid(gomock.Any(), int64(2), "tr_2").Return(&domain.Order{ID: 2}, nil)

	// the queue worker owns retries, nothing is scheduled from here
	s.Require().ErrorIs(s.service.RetryTransfer(s.T().Context(), 2), domain.ErrProviderTransient)
	s.Require().NoError(s.service.RetryTransfer(s.T().Context(), 2))
}

func (s *PaymentServiceTestSuite) TestTransferWaitsForOnboarding() {
	waiting := s.captured(s.order(5, 500, "30", "3"))[0]
	waiting.FailureReason = domain.ErrSellerNotOnboarded.Error()

	gomock.InOrder(
		s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(500)).Return(&domain.Seller{ID: 500}, nil),
		s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(500)).
			Return(&domain.Seller{ID: 500, PayoutAccountID: "acct_e"}, nil),
	)
	s.orderRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&waiting, nil).Times(2)
	s.orderRepo.EXPECT().SetFailureReason(gomock.Any(), int64(5), domain.ErrSellerNotOnboarded.Error()).Return(nil)
	s.provider.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
			s.Equal("acct_e", req.Destination)
			s.True(req.Amount.Equal(dec("27")))
			return &domain.Transfer{ID: "tr_5", Amount: req.Amount}, nil
		})
	s.orderRepo.EXPECT().MarkPaid(gomock.Any(), int64(5), "tr_5").Return(&domain.Order{ID: 5}, nil)

	// nothing is sent to the provider and nothing is queued while the seller has no payout account
	s.Require().ErrorIs(s.service.RetryTransfer(s.T().Context(), 5), domain.ErrSellerNotOnboarded)
	s.Require().NoError(s.service.RetryTransfer(s.T().Context(), 5))
}

func (s *PaymentServiceTestSuite) TestRetryPendingTransfersAfterOnboarding() {
	waiting := s.captured(s.order(6, 600, "20", "2"))[0]
	waiting.FailureReason = domain.ErrSellerNotOnboarded.Error()

	s.orderRepo.EXPECT().ListRetriable(gomock.Any(), uint(10)).Return([]domain.Order{waiting}, nil)
	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(600)).
		Return(&domain.Seller{ID: 600, PayoutAccountID: "acct_f"}, nil)
	s.provider.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(&domain.Transfer{ID: "tr_6"}, nil)
	s.orderRepo.EXPECT().MarkPaid(gomock.Any(), int64(6), "tr_6").Return(&domain.Order{ID: 6}, nil)

	failures, err := s.service.RetryPendingTransfers(s.T().Context(), 10)
	s.Require().NoError(err)
	s.Empty(failures)
}

func (s *PaymentServiceTestSuite) TestRetryPendingTransfers() {
	s.orderRepo.EXPECT().ListRetriable(gomock.Any(), uint(defaultRetriableLimit)).
		Return(s.captured(s.order(1, 100, "40", "4")), nil)
	s.provider.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(&domain.Transfer{ID: "tr_1"}, nil)
	s.orderRepo.EXPECT().MarkPaid(gomock.Any(), int64(1), "tr_1").Return(&domain.Order{ID: 1}, nil)

	failures, err := s.service.RetryPendingTransfers(s.T().Context(), 0)
	s.Require().NoError(err)
	s.Empty(failures)
}

func (s *PaymentServiceTestSuite) TestRefundFailedTransfer() {
	failed := s.captured(s.order(3, 300, "20", "2"))[0]
	failed.PaymentStatus = domain.PaymentStatusTransferFailed
	s.orderRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&failed, nil)
	s.provider.EXPECT().CreateRefund(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.RefundRequest) (*domain.Refund, error) {
			s.Equal("pi_1", req.PaymentIntentID)
			s.True(req.Amount.Equal(dec("20")))
			s.Equal("refund-3", req.IdempotencyKey)
			return &domain.Refund{ID: "re_1", Amount: req.Amount, Status: "succeeded"}, nil
		})
	s.orderRepo.EXPECT().MarkRefunded(gomock.Any(), int64(3)).Return(nil)

	refund, err := s.service.RefundFailedTransfer(s.T().Context(), 3)
	s.Require().NoError(err)
	s.Equal("re_1", refund.ID)

	pending := s.order(4, 100, "10", "1")
	s.orderRepo.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&pending, nil)
	_, pendingErr := s.service.RefundFailedTransfer(s.T().Context(), 4)
	s.Require().ErrorIs(pendingErr, domain.ErrInvalidState)
}
