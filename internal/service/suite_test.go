package service

import (
	"context"
	"io"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/internal/service/mocks"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-ledger/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

// serviceSuite wires every repository mock into the unit of work and into its transaction.
type serviceSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockUOW        *uowmocks.MockUOW
	mockTX         *uowmocks.MockTX
	walletRepo     *mocks.MockWalletRepository
	txRepo         *mocks.MockTransactionRepository
	sellerRepo     *mocks.MockSellerRepository
	orderRepo      *mocks.MockOrderRepository
	withdrawalRepo *mocks.MockWithdrawalRepository
	publisher      *mocks.MockEventPublisher
	logger         *logrus.Logger
	now            time.Time
}

func (s *serviceSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.walletRepo = mocks.NewMockWalletRepository(s.mockCtrl)
	s.txRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.sellerRepo = mocks.NewMockSellerRepository(s.mockCtrl)
	s.orderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.withdrawalRepo = mocks.NewMockWithdrawalRepository(s.mockCtrl)
	s.publisher = mocks.NewMockEventPublisher(s.mockCtrl)

	s.logger = logrus.New()
	s.logger.SetOutput(io.Discard)
	s.now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.WalletRepoName:      s.walletRepo,
		repoargs.TransactionRepoName: s.txRepo,
		repoargs.SellerRepoName:      s.sellerRepo,
		repoargs.OrderRepoName:       s.orderRepo,
		repoargs.WithdrawalRepoName:  s.withdrawalRepo,
	}
	for name, repo := range repos {
		s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
		s.mockTX.EXPECT().Get(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
	}
}

func (s *serviceSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectDo runs every unit of work against the mocked transaction.
func (s *serviceSuite) expectDo() *gomock.Call {
	return s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
}

func (s *serviceSuite) fixedNow() time.Time {
	return s.now
}

// walletState is an in-memory wallet row behind the wallet repository mock.
type walletState struct {
	wallet domain.Wallet
	deltas []repoargs.WalletDelta
}

func (w *walletState) snapshot() *domain.Wallet {
	cp := w.wallet
	return &cp
}

func (w *walletState) apply(delta repoargs.WalletDelta) *domain.Wallet {
	w.wallet.Balance = w.wallet.Balance.Add(delta.Balance)
	w.wallet.PendingBalance = w.wallet.PendingBalance.Add(delta.PendingBalance)
	w.wallet.BonusBalance = w.wallet.BonusBalance.Add(delta.BonusBalance)
	w.deltas = append(w.deltas, delta)
	return w.snapshot()
}

// bindWallet serves lock and delta calls for one wallet from state.
func (s *serviceSuite) bindWallet(state *walletState) {
	s.walletRepo.EXPECT().LockByID(gomock.Any(), state.wallet.ID).
		DoAndReturn(func(context.Context, int64) (*domain.Wallet, error) {
			return state.snapshot(), nil
		}).AnyTimes()
	s.walletRepo.EXPECT().LockByUserID(gomock.Any(), state.wallet.UserID).
		DoAndReturn(func(context.Context, int64) (*domain.Wallet, error) {
			return state.snapshot(), nil
		}).AnyTimes()
	s.walletRepo.EXPECT().ApplyDelta(gomock.Any(), state.wallet.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, delta repoargs.WalletDelta) (*domain.Wallet, error) {
			return state.apply(delta), nil
		}).AnyTimes()
}

// recordTransactions makes the transaction repository echo created rows with increasing ids.
func (s *serviceSuite) recordTransactions(created *[]repoargs.CreateTransaction) {
	var nextID int64 = 100
	s.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error) {
			nextID++
			*created = append(*created, args)
			return &domain.Transaction{
				ID:          nextID,
				WalletID:    args.WalletID,
				UserID:      args.UserID,
				Type:        args.Type,
				Amount:      args.Amount,
				Currency:    args.Currency,
				Status:      args.Status,
				Description: args.Description,
				OrderID:     args.OrderID,
				Metadata:    args.Metadata,
			}, nil
		}).AnyTimes()
}

func newWalletState(id, userID int64, balance, pending string) *walletState {
	return &walletState{wallet: domain.Wallet{
		ID:             id,
		UserID:         userID,
		Balance:        decimal.RequireFromString(balance),
		PendingBalance: decimal.RequireFromString(pending),
		Currency:       "USD",
		IsActive:       true,
	}}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// decEq matches a decimal argument by value, ignoring its exponent.
func decEq(value string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(value)}
}

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x any) bool {
	got, ok := x.(decimal.Decimal)
	return ok && got.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is decimal " + m.want.String()
}
