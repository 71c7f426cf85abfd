package repoargs

import (
	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateWithdrawal struct {
	UserID         int64
	WalletID       int64
	Amount         decimal.Decimal
	Method         string
	PaymentDetails domain.Metadata
}
