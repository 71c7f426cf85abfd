package service

import (
	"math"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	minRiskScore = 0
	maxRiskScore = 100

	recentChargebackWindow = 30 * 24 * time.Hour
)

type riskBand struct {
	below  int
	points int
}

// Bands are checked in order, the first match wins.
var (
	accountAgeBands = []riskBand{{below: 1, points: 30}, {below: 3, points: 20}, {below: 6, points: 10}}
	salesBands      = []riskBand{{below: 5, points: 25}, {below: 20, points: 15}, {below: 50, points: 5}}
	amountBands     = []struct {
		above  decimal.Decimal
		points int
	}{
		{above: decimal.NewFromInt(1000), points: 20},
		{above: decimal.NewFromInt(500), points: 10},
		{above: decimal.NewFromInt(250), points: 5},
	}
)

// RiskEngine scores sellers from a snapshot. It has no side effects.
type RiskEngine struct {
	now func() time.Time
}

func NewRiskEngine() *RiskEngine {
	return &RiskEngine{now: time.Now}
}

// CalculateRiskScore returns an additive risk score in [0, 100] for a sale of amount by seller.
func (r *RiskEngine) CalculateRiskScore(seller domain.Seller, amount decimal.Decimal) int {
	now := r.now()
	score := 0.0

	for _, band := range accountAgeBands {
		if seller.AccountCreatedAt.After(now.AddDate(0, -band.below, 0)) {
			score += float64(band.points)
			break
		}
	}
	for _, band := range salesBands {
		if seller.CompletedSales < band.below {
			score += float64(band.points)
			break
		}
	}

	score += chargebackRate(seller) * 10
	score += disputeRate(seller) * 5

	for _, band := range amountBands {
		if amount.GreaterThan(band.above) {
			score += float64(band.points)
			break
		}
	}

	if seller.LastChargebackAt != nil && now.Sub(*seller.LastChargebackAt) < recentChargebackWindow {
		score += 40
	}

	return clampScore(int(math.Round(score)))
}

// EvaluateTrustLevel returns the level the seller's history qualifies for. Verified sellers keep their level.
func (r *RiskEngine) EvaluateTrustLevel(seller domain.Seller) domain.TrustLevel {
	if seller.TrustLevel == domain.TrustLevelVerified {
		return domain.TrustLevelVerified
	}
	now := r.now()
	rate := chargebackRate(seller)

	switch {
	case seller.CompletedSales >= 100 && rate < 1 && !seller.AccountCreatedAt.After(now.AddDate(0, -6, 0)):
		return domain.TrustLevelTrusted
	case seller.CompletedSales >= 10 && rate < 3 && !seller.AccountCreatedAt.After(now.AddDate(0, -2, 0)):
		return domain.TrustLevelStandard
	default:
		return domain.TrustLevelNew
	}
}

// chargebackRate in percent of completed sales.
func chargebackRate(seller domain.Seller) float64 {
	return float64(seller.ChargebacksReceived) / float64(max(seller.CompletedSales, 1)) * 100
}

func disputeRate(seller domain.Seller) float64 {
	return float64(seller.DisputedSales) / float64(max(seller.CompletedSales, 1)) * 100
}

func clampScore(score int) int {
	return min(max(score, minRiskScore), maxRiskScore)
}
