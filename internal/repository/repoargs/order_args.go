package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	OrderGroupID uuid.UUID
	BuyerID      int64
	SellerID     int64
	Subtotal     decimal.Decimal
	PlatformFee  decimal.Decimal
	SellerPayout decimal.Decimal
	Total        decimal.Decimal
	Currency     string
	Items        []CreateOrderItem
}

type CreateOrderItem struct {
	Product  domain.ProductRef
	Price    decimal.Decimal
	Quantity int
	Total    decimal.Decimal
}

// DueItem order item together with the owning order's parties and payment state.
type DueItem struct {
	Item          domain.OrderItem
	SellerID      int64
	BuyerID       int64
	Currency      string
	PaymentStatus domain.PaymentStatus
}

type MarkItemReleased struct {
	ItemID     int64
	Auto       bool
	ReleasedAt time.Time
}
