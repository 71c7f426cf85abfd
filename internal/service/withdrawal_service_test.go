package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type WithdrawalServiceTestSuite struct {
	serviceSuite
	service *WithdrawalService
	wallet  *walletState
	request *domain.WithdrawalRequest
}

func TestWithdrawalServiceSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalServiceTestSuite))
}

func (s *WithdrawalServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	service, err := NewWithdrawalService(s.mockUOW, s.publisher, s.logger)
	s.Require().NoError(err)
	service.now = s.fixedNow
	s.service = service

	s.wallet = newWalletState(1, 10, "200", "0")
	s.bindWallet(s.wallet)
	s.bindRequests()
	s.expectDo().AnyTimes()
}

// bindRequests keeps a single withdrawal request row in s.request.
func (s *WithdrawalServiceTestSuite) bindRequests() {
	s.withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateWithdrawal) (*domain.WithdrawalRequest, error) {
			s.request = &domain.WithdrawalRequest{
				ID:             5,
				UserID:         args.UserID,
				WalletID:       args.WalletID,
				Amount:         args.Amount,
				Method:         args.Method,
				PaymentDetails: args.PaymentDetails,
				Status:         domain.WithdrawalStatusPending,
			}
			return s.copyRequest(), nil
		}).AnyTimes()
	s.withdrawalRepo.EXPECT().LockByID(gomock.Any(), int64(5)).
		DoAndReturn(func(context.Context, int64) (*domain.WithdrawalRequest, error) {
			return s.copyRequest(), nil
		}).AnyTimes()
	s.withdrawalRepo.EXPECT().Cancel(gomock.Any(), int64(5), s.now).
		DoAndReturn(func(context.Context, int64, time.Time) (*domain.WithdrawalRequest, error) {
			s.request.Status = domain.WithdrawalStatusCancelled
			s.request.CancelledAt = &s.now
			return s.copyRequest(), nil
		}).AnyTimes()
	s.withdrawalRepo.EXPECT().Approve(gomock.Any(), int64(5), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, _ int64, approvedBy int64, _ time.Time) (*domain.WithdrawalRequest, error) {
			s.request.Status = domain.WithdrawalStatusApproved
			s.request.ApprovedBy = &approvedBy
			return s.copyRequest(), nil
		}).AnyTimes()
	s.withdrawalRepo.EXPECT().Reject(gomock.Any(), int64(5), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, _ int64, reason string, _ time.Time) (*domain.WithdrawalRequest, error) {
			s.request.Status = domain.WithdrawalStatusRejected
			s.request.RejectionReason = reason
			return s.copyRequest(), nil
		}).AnyTimes()
	s.withdrawalRepo.EXPECT().Complete(gomock.Any(), int64(5), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, _ int64, transactionID int64, _ time.Time) (*domain.WithdrawalRequest, error) {
			s.request.Status = domain.WithdrawalStatusCompleted
			s.request.TransactionID = &transactionID
			return s.copyRequest(), nil
		}).AnyTimes()
}

func (s *WithdrawalServiceTestSuite) copyRequest() *domain.WithdrawalRequest {
	cp := *s.request
	return &cp
}

func (s *WithdrawalServiceTestSuite) create(amount string) *domain.WithdrawalRequest {
	request, err := s.service.CreateWithdrawalRequest(s.T().Context(), CreateWithdrawalArgs{
		UserID:         10,
		Amount:         dec(amount),
		Method:         "paypal",
		PaymentDetails: domain.Metadata{"email": "seller@example.com"},
	})
	s.Require().NoError(err)
	return request
}

func (s *WithdrawalServiceTestSuite) TestCreateAndCancel() {
	request := s.create("50")
	s.Equal(domain.WithdrawalStatusPending, request.Status)
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("50")))
	s.True(s.wallet.wallet.AvailableBalance().Equal(dec("150")))

	cancelled, err := s.service.CancelWithdrawal(s.T().Context(), request.ID, 10)
	s.Require().NoError(err)
	s.Equal(domain.WithdrawalStatusCancelled, cancelled.Status)
	s.True(s.wallet.wallet.PendingBalance.IsZero())
	s.True(s.wallet.wallet.Balance.Equal(dec("200")))

	_, againErr := s.service.CancelWithdrawal(s.T().Context(), request.ID, 10)
	s.Require().ErrorIs(againErr, domain.ErrInvalidState)
	var transitionErr *domain.InvalidTransitionError
	s.Require().ErrorAs(againErr, &transitionErr)
	s.Equal(string(domain.WithdrawalStatusCancelled), transitionErr.From)
	s.True(s.wallet.wallet.PendingBalance.IsZero())
}

func (s *WithdrawalServiceTestSuite) TestCancelByStranger() {
	request := s.create("50")

	_, err := s.service.CancelWithdrawal(s.T().Context(), request.ID, 99)
	s.Require().ErrorIs(err, domain.ErrOwnerConflict)
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("50")))
}

func (s *WithdrawalServiceTestSuite) TestCreateRequestValidation() {
	cases := []struct {
		name    string
		args    CreateWithdrawalArgs
		wantErr error
	}{
		{
			name:    "more than available",
			args:    CreateWithdrawalArgs{UserID: 10, Amount: dec("250"), Method: "bank"},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name:    "zero amount",
			args:    CreateWithdrawalArgs{UserID: 10, Amount: dec("0"), Method: "bank"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "no method",
			args:    CreateWithdrawalArgs{UserID: 10, Amount: dec("10")},
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.service.CreateWithdrawalRequest(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)
			s.True(s.wallet.wallet.PendingBalance.IsZero())
		})
	}
}

func (s *WithdrawalServiceTestSuite) TestApproveAndComplete() {
	request := s.create("50")

	var created []repoargs.CreateTransaction
	s.recordTransactions(&created)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events ...domain.LedgerEvent) error {
			s.Equal(domain.EventWithdrawalCompleted, events[0].Type)
			return nil
		})

	_, earlyErr := s.service.CompleteWithdrawal(s.T().Context(), request.ID)
	s.Require().ErrorIs(earlyErr, domain.ErrInvalidState)

	approved, err := s.service.ApproveWithdrawal(s.T().Context(), request.ID, 1)
	s.Require().NoError(err)
	s.Equal(domain.WithdrawalStatusApproved, approved.Status)
	s.True(s.wallet.wallet.PendingBalance.Equal(dec("50")))

	completed, completeErr := s.service.CompleteWithdrawal(s.T().Context(), request.ID)
	s.Require().NoError(completeErr)
	s.Equal(domain.WithdrawalStatusCompleted, completed.Status)
	s.Require().NotNil(completed.TransactionID)

	s.True(s.wallet.wallet.Balance.Equal(dec("150")))
	s.True(s.wallet.wallet.PendingBalance.IsZero())
	s.Require().Len(created, 1)
	s.Equal(domain.TransactionTypeWithdrawal, created[0].Type)
	s.True(created[0].Amount.Equal(dec("-50")))
	s.Equal("5", created[0].Metadata["withdrawal_request_id"])
}

func (s *WithdrawalServiceTestSuite) TestReject() {
	request := s.create("80")

	_, noReasonErr := s.service.RejectWithdrawal(s.T().Context(), request.ID, " ")
	s.Require().ErrorIs(noReasonErr, domain.ErrInvalidInput)

	rejected, err := s.service.RejectWithdrawal(s.T().Context(), request.ID, "payout details do not match")
	s.Require().NoError(err)
	s.Equal(domain.WithdrawalStatusRejected, rejected.Status)
	s.Equal("payout details do not match", rejected.RejectionReason)
	s.True(s.wallet.wallet.PendingBalance.IsZero())
	s.True(s.wallet.wallet.Balance.Equal(dec("200")))
}

func (s *WithdrawalServiceTestSuite) TestListWithdrawals() {
	statuses := []domain.WithdrawalStatus{domain.WithdrawalStatusPending}
	s.withdrawalRepo.EXPECT().ListByUser(gomock.Any(), int64(10), statuses).
		Return([]domain.WithdrawalRequest{{ID: 5, UserID: 10}}, nil)

	requests, err := s.service.ListWithdrawals(s.T().Context(), 10, domain.WithdrawalStatusPending)
	s.Require().NoError(err)
	s.Len(requests, 1)
}
