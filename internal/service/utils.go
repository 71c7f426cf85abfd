package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	maxConflictRetries  = 3
	conflictBaseBackoff = 25 * time.Millisecond
)

// jitter spreads value by a random percent within [1-minPercent, 1+maxPercent].
// For minPercent=0.15, maxPercent=0.15 the result lies in [0.85*value, 1.15*value].
//
// Both percents must be >= 0 (0.1 = 10%), otherwise 0.15 is used for both.
func jitter(value, minPercent, maxPercent float64) float64 {
	if minPercent < 0 || maxPercent < 0 {
		minPercent = 0.15
		maxPercent = 0.15
	}
	factor := 1 - minPercent + rand.Float64()*(minPercent+maxPercent) // nolint:gosec
	return value * factor
}

// retryOnConflict runs fn again while it fails with domain.ErrConcurrencyConflict, up to maxConflictRetries
// extra attempts with a growing jittered pause.
func retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		if attempt == maxConflictRetries {
			break
		}
		pause := time.Duration(jitter(float64(conflictBaseBackoff)*float64(attempt+1), 0.2, 0.2))
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(pause):
		}
	}
	return err
}

var hundred = decimal.NewFromInt(100)

// percentOf returns amount × percent / 100 rounded to cents.
func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred).Round(2)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

func completedSales(completes bool) int {
	if completes {
		return 1
	}
	return 0
}
