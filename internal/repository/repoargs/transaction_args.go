package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateTransaction struct {
	WalletID    int64
	UserID      int64
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Currency    string
	Status      domain.TransactionStatus
	Description string
	OrderID     *int64
	Metadata    domain.Metadata
}

type ApplyHold struct {
	TransactionID int64
	HoldUntil     time.Time
	HoldReason    string
	RiskScore     int
}

type TransactionFilter struct {
	WalletID int64
	Types    []domain.TransactionType
	Statuses []domain.TransactionStatus
	From     *time.Time
	To       *time.Time
	Limit    uint
	Offset   uint
}

// LedgerSums aggregated completed amounts used for reconciliation.
type LedgerSums struct {
	Balance decimal.Decimal
	Bonus   decimal.Decimal
}
