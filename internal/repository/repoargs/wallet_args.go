package repoargs

import "github.com/shopspring/decimal"

// WalletDelta signed changes applied to a locked wallet row in one statement.
type WalletDelta struct {
	Balance        decimal.Decimal
	PendingBalance decimal.Decimal
	BonusBalance   decimal.Decimal
}

func (d WalletDelta) IsZero() bool {
	return d.Balance.IsZero() && d.PendingBalance.IsZero() && d.BonusBalance.IsZero()
}
