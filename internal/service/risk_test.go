package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RiskEngineTestSuite struct {
	suite.Suite
	now    time.Time
	engine *RiskEngine
}

func TestRiskEngineSuite(t *testing.T) {
	suite.Run(t, new(RiskEngineTestSuite))
}

func (s *RiskEngineTestSuite) SetupTest() {
	s.now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.engine = &RiskEngine{now: func() time.Time { return s.now }}
}

func (s *RiskEngineTestSuite) daysAgo(days int) time.Time {
	return s.now.Add(-time.Duration(days) * 24 * time.Hour)
}

func (s *RiskEngineTestSuite) TestCalculateRiskScore() {
	recent := s.daysAgo(5)
	cases := []struct {
		name   string
		seller domain.Seller
		amount string
		want   int
	}{
		{
			// 30 for age, 25 for no sales, 10 for the amount band
			name:   "new seller large sale",
			seller: domain.Seller{AccountCreatedAt: s.daysAgo(10)},
			amount: "600",
			want:   65,
		},
		{
			name: "established seller",
			seller: domain.Seller{
				AccountCreatedAt:    s.daysAgo(400),
				CompletedSales:      200,
				ChargebacksReceived: 1,
				DisputedSales:       2,
			},
			amount: "100",
			want:   10,
		},
		{
			name:   "amount band boundary is exclusive",
			seller: domain.Seller{AccountCreatedAt: s.daysAgo(400), CompletedSales: 80},
			amount: "500",
			want:   5,
		},
		{
			name:   "very large sale",
			seller: domain.Seller{AccountCreatedAt: s.daysAgo(400), CompletedSales: 80},
			amount: "1000.01",
			want:   20,
		},
		{
			name: "recent chargeback",
			seller: domain.Seller{
				AccountCreatedAt:    s.daysAgo(800),
				CompletedSales:      60,
				ChargebacksReceived: 1,
				LastChargebackAt:    &recent,
			},
			amount: "50",
			want:   57,
		},
		{
			name:   "clamped to 100",
			seller: domain.Seller{AccountCreatedAt: s.daysAgo(3), ChargebacksReceived: 3},
			amount: "2000",
			want:   100,
		},
		{
			name:   "account between three and six months",
			seller: domain.Seller{AccountCreatedAt: s.daysAgo(120), CompletedSales: 30},
			amount: "10",
			want:   15,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.Equal(t.want, s.engine.CalculateRiskScore(t.seller, decimal.RequireFromString(t.amount)))
		})
	}
}

func (s *RiskEngineTestSuite) TestEvaluateTrustLevel() {
	cases := []struct {
		name   string
		seller domain.Seller
		want   domain.TrustLevel
	}{
		{
			name:   "verified is kept",
			seller: domain.Seller{TrustLevel: domain.TrustLevelVerified, AccountCreatedAt: s.daysAgo(1)},
			want:   domain.TrustLevelVerified,
		},
		{
			name:   "trusted",
			seller: domain.Seller{CompletedSales: 150, ChargebacksReceived: 1, AccountCreatedAt: s.daysAgo(365)},
			want:   domain.TrustLevelTrusted,
		},
		{
			name:   "too many chargebacks for trusted",
			seller: domain.Seller{CompletedSales: 150, ChargebacksReceived: 2, AccountCreatedAt: s.daysAgo(365)},
			want:   domain.TrustLevelStandard,
		},
		{
			name:   "standard",
			seller: domain.Seller{CompletedSales: 15, AccountCreatedAt: s.daysAgo(90)},
			want:   domain.TrustLevelStandard,
		},
		{
			name:   "account too young",
			seller: domain.Seller{CompletedSales: 15, AccountCreatedAt: s.daysAgo(30)},
			want:   domain.TrustLevelNew,
		},
		{
			name:   "chargeback rate too high",
			seller: domain.Seller{CompletedSales: 10, ChargebacksReceived: 1, AccountCreatedAt: s.daysAgo(90)},
			want:   domain.TrustLevelNew,
		},
		{
			name: "demoted trusted seller",
			seller: domain.Seller{
				TrustLevel:          domain.TrustLevelTrusted,
				CompletedSales:      5,
				AccountCreatedAt:    s.daysAgo(365),
				ChargebacksReceived: 2,
			},
			want: domain.TrustLevelNew,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.Equal(t.want, s.engine.EvaluateTrustLevel(t.seller))
		})
	}
}
