package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type SellerServiceTestSuite struct {
	serviceSuite
	service *SellerService
}

func TestSellerServiceSuite(t *testing.T) {
	suite.Run(t, new(SellerServiceTestSuite))
}

func (s *SellerServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	service, err := NewSellerService(s.mockUOW, &RiskEngine{now: s.fixedNow})
	s.Require().NoError(err)
	service.now = s.fixedNow
	s.service = service
}

func (s *SellerServiceTestSuite) TestUpdateTrustLevel() {
	s.expectDo().Times(2)
	established := &domain.Seller{
		ID:               1,
		TrustLevel:       domain.TrustLevelNew,
		CompletedSales:   150,
		AccountCreatedAt: s.now.AddDate(-1, 0, 0),
	}
	unchanged := &domain.Seller{ID: 2, TrustLevel: domain.TrustLevelNew, AccountCreatedAt: s.now}

	s.sellerRepo.EXPECT().LockByID(gomock.Any(), int64(1)).Return(established, nil)
	s.sellerRepo.EXPECT().UpdateTrustLevel(gomock.Any(), int64(1), domain.TrustLevelTrusted).Return(nil)
	s.sellerRepo.EXPECT().LockByID(gomock.Any(), int64(2)).Return(unchanged, nil)

	level, err := s.service.UpdateTrustLevel(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(domain.TrustLevelTrusted, level)

	same, sameErr := s.service.UpdateTrustLevel(s.T().Context(), 2)
	s.Require().NoError(sameErr)
	s.Equal(domain.TrustLevelNew, same)
}

func (s *SellerServiceTestSuite) TestRecordChargebackDemotes() {
	s.expectDo()
	after := &domain.Seller{
		ID:                  1,
		TrustLevel:          domain.TrustLevelTrusted,
		CompletedSales:      120,
		ChargebacksReceived: 2,
		AccountCreatedAt:    s.now.AddDate(-1, 0, 0),
		LastChargebackAt:    &s.now,
	}
	s.sellerRepo.EXPECT().RecordChargeback(gomock.Any(), int64(1), s.now).Return(after, nil)
	s.sellerRepo.EXPECT().UpdateTrustLevel(gomock.Any(), int64(1), domain.TrustLevelStandard).Return(nil)

	seller, err := s.service.RecordChargeback(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(domain.TrustLevelStandard, seller.TrustLevel)
	s.Equal(2, seller.ChargebacksReceived)
}

func (s *SellerServiceTestSuite) TestRecordDispute() {
	s.expectDo()
	s.sellerRepo.EXPECT().RecordDispute(gomock.Any(), int64(3)).
		Return(&domain.Seller{ID: 3, TrustLevel: domain.TrustLevelNew, DisputedSales: 1, AccountCreatedAt: s.now}, nil)

	seller, err := s.service.RecordDispute(s.T().Context(), 3)
	s.Require().NoError(err)
	s.Equal(1, seller.DisputedSales)
}

func (s *SellerServiceTestSuite) TestRecomputeTrustLevels() {
	old := s.now.Add(-400 * 24 * time.Hour)
	sellers := map[int64]*domain.Seller{
		1: {ID: 1, TrustLevel: domain.TrustLevelNew, CompletedSales: 20, AccountCreatedAt: old},
		2: {ID: 2, TrustLevel: domain.TrustLevelStandard, CompletedSales: 20, AccountCreatedAt: old},
		3: {ID: 3, TrustLevel: domain.TrustLevelVerified, AccountCreatedAt: s.now},
	}
	s.sellerRepo.EXPECT().ListIDs(gomock.Any(), int64(0), trustRecomputePage).Return([]int64{1, 2, 3}, nil)
	for id, seller := range sellers {
		s.sellerRepo.EXPECT().GetByID(gomock.Any(), id).Return(seller, nil)
	}
	s.expectDo()
	s.sellerRepo.EXPECT().LockByID(gomock.Any(), int64(1)).Return(sellers[1], nil)
	s.sellerRepo.EXPECT().UpdateTrustLevel(gomock.Any(), int64(1), domain.TrustLevelStandard).Return(nil)

	changed, err := s.service.RecomputeTrustLevels(s.T().Context())
	s.Require().NoError(err)
	s.Equal(1, changed)
}
