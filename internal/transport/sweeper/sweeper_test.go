package sweeper

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/service"
	"github.com/fsdevblog/groph-ledger/internal/transport/sweeper/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type SweeperTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	release   *mocks.MockAutoReleaser
	escrow    *mocks.MockHoldReleaser
	transfers *mocks.MockTransferRetrier
	sellers   *mocks.MockTrustRecomputer
	sweeper   *Sweeper
	clock     time.Time
}

func TestSweeperSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}

func (s *SweeperTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.release = mocks.NewMockAutoReleaser(s.ctrl)
	s.escrow = mocks.NewMockHoldReleaser(s.ctrl)
	s.transfers = mocks.NewMockTransferRetrier(s.ctrl)
	s.sellers = mocks.NewMockTrustRecomputer(s.ctrl)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.clock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.sweeper = New(Jobs{
		Release:   s.release,
		Escrow:    s.escrow,
		Transfers: s.transfers,
		Sellers:   s.sellers,
	}, logger).SetLimit(50)
	s.sweeper.now = func() time.Time { return s.clock }
}

func (s *SweeperTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SweeperTestSuite) expectReleaseJobs() {
	s.release.EXPECT().RunAutoReleaseSweep(gomock.Any(), uint(50)).Return(&service.SweepReport{
		Processed: 2,
		Released:  1,
		Failures:  []service.ItemReleaseFailure{{ItemID: 4, Err: errors.New("connection reset")}},
	}, nil)
	s.escrow.EXPECT().ReleaseDueHolds(gomock.Any(), uint(50)).Return(&service.HoldReleaseReport{Released: 3}, nil)
	s.transfers.EXPECT().RetryPendingTransfers(gomock.Any(), uint(50)).Return([]domain.TransferFailure{
		{OrderID: 9, Err: domain.ErrSellerNotOnboarded},
	}, nil)
}

func (s *SweeperTestSuite) TestSweepRecomputesTrustHourly() {
	s.expectReleaseJobs()
	s.sellers.EXPECT().RecomputeTrustLevels(gomock.Any()).Return(2, nil)
	s.Require().NoError(s.sweeper.sweep(s.T().Context()))

	s.clock = s.clock.Add(10 * time.Minute)
	s.expectReleaseJobs()
	s.Require().NoError(s.sweeper.sweep(s.T().Context()))

	s.clock = s.clock.Add(time.Hour)
	s.expectReleaseJobs()
	s.sellers.EXPECT().RecomputeTrustLevels(gomock.Any()).Return(0, nil)
	s.Require().NoError(s.sweeper.sweep(s.T().Context()))
}

func (s *SweeperTestSuite) TestSweepContinuesAfterJobError() {
	s.release.EXPECT().RunAutoReleaseSweep(gomock.Any(), uint(50)).Return(nil, errors.New("pool closed"))
	s.escrow.EXPECT().ReleaseDueHolds(gomock.Any(), uint(50)).Return(&service.HoldReleaseReport{}, nil)
	s.transfers.EXPECT().RetryPendingTransfers(gomock.Any(), uint(50)).Return(nil, nil)
	s.sellers.EXPECT().RecomputeTrustLevels(gomock.Any()).Return(0, errors.New("pool closed"))

	err := s.sweeper.sweep(s.T().Context())
	s.Require().Error(err)
	s.Contains(err.Error(), "auto release")
	s.Contains(err.Error(), "trust recompute")
	s.True(s.sweeper.lastTrust.IsZero())
}

func (s *SweeperTestSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.T().Context())

	s.release.EXPECT().RunAutoReleaseSweep(gomock.Any(), uint(50)).Return(&service.SweepReport{}, nil)
	s.escrow.EXPECT().ReleaseDueHolds(gomock.Any(), uint(50)).Return(&service.HoldReleaseReport{}, nil)
	s.transfers.EXPECT().RetryPendingTransfers(gomock.Any(), uint(50)).Return(nil, nil)
	s.sellers.EXPECT().RecomputeTrustLevels(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		cancel()
		return 0, nil
	})

	done := make(chan struct{})
	go func() {
		s.sweeper.SetInterval(time.Hour).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop")
	}
}
