package service

import (
	"sort"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type FeeTier struct {
	MinVolume decimal.Decimal
	Percent   decimal.Decimal
}

// FeeSchedule resolves the platform fee percent of a seller.
type FeeSchedule struct {
	DefaultPercent    decimal.Decimal
	VolumeTiers       []FeeTier
	SubscriptionTiers map[string]decimal.Decimal
}

func DefaultFeeSchedule(defaultPercent decimal.Decimal) FeeSchedule {
	return FeeSchedule{
		DefaultPercent: defaultPercent,
		VolumeTiers: []FeeTier{
			{MinVolume: decimal.NewFromInt(10_000), Percent: decimal.NewFromInt(8)},
			{MinVolume: decimal.NewFromInt(50_000), Percent: decimal.NewFromInt(6)},
			{MinVolume: decimal.NewFromInt(100_000), Percent: decimal.NewFromInt(5)},
		},
		SubscriptionTiers: map[string]decimal.Decimal{
			"pro":   decimal.NewFromInt(7),
			"elite": decimal.NewFromInt(5),
		},
	}
}

// ResolvePercent applies, in order: the manual override, the highest volume tier reached,
// the subscription tier, the platform default.
func (f FeeSchedule) ResolvePercent(seller *domain.Seller) decimal.Decimal {
	if seller == nil {
		return f.DefaultPercent
	}
	if seller.FeeOverride.Valid {
		return seller.FeeOverride.Decimal
	}

	tiers := make([]FeeTier, len(f.VolumeTiers))
	copy(tiers, f.VolumeTiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinVolume.GreaterThan(tiers[j].MinVolume)
	})
	for _, tier := range tiers {
		if seller.SalesVolume.GreaterThanOrEqual(tier.MinVolume) {
			return tier.Percent
		}
	}

	if percent, ok := f.SubscriptionTiers[seller.SubscriptionTier]; ok {
		return percent
	}
	return f.DefaultPercent
}
