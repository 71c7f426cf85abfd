package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metadata is an open-ended string bag stored as jsonb.
type Metadata map[string]string

type Wallet struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserID         int64
	Balance        decimal.Decimal
	PendingBalance decimal.Decimal
	BonusBalance   decimal.Decimal
	Currency       string
	IsActive       bool
}

// AvailableBalance is the withdrawable part of the balance.
func (w Wallet) AvailableBalance() decimal.Decimal {
	return w.Balance.Sub(w.PendingBalance)
}

// TotalBalance includes promotional credit.
func (w Wallet) TotalBalance() decimal.Decimal {
	return w.Balance.Add(w.BonusBalance)
}

type WalletBalance struct {
	WalletID         int64
	Currency         string
	Balance          decimal.Decimal
	PendingBalance   decimal.Decimal
	BonusBalance     decimal.Decimal
	AvailableBalance decimal.Decimal
}

type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	WalletID    int64
	UserID      int64
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Status      TransactionStatus
	Description string
	OrderID     *int64
	IsHeld      bool
	HoldUntil   *time.Time
	HoldReason  string
	RiskScore   *int
	ReleasedAt  *time.Time
	Metadata    Metadata
}

type Seller struct {
	ID                  int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	AccountCreatedAt    time.Time
	TrustLevel          TrustLevel
	CompletedSales      int
	ChargebacksReceived int
	DisputedSales       int
	LastChargebackAt    *time.Time
	PayoutAccountID     string
	FeeOverride         decimal.NullDecimal
	SubscriptionTier    string
	SalesVolume         decimal.Decimal
}

// IsOnboarded reports whether the seller can receive provider payouts.
func (s Seller) IsOnboarded() bool {
	return s.PayoutAccountID != ""
}

// ProductRef points at a catalog entry of one of the product kinds.
type ProductRef struct {
	Kind ProductKind `json:"kind"`
	ID   int64       `json:"id"`
}

type Order struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	OrderGroupID    uuid.UUID
	BuyerID         int64
	SellerID        int64
	Subtotal        decimal.Decimal
	PlatformFee     decimal.Decimal
	SellerPayout    decimal.Decimal
	Total           decimal.Decimal
	Currency        string
	PaymentStatus   PaymentStatus
	Status          OrderStatus
	PaymentIntentID string
	TransferID      string
	FailureReason   string
	CapturedAt      *time.Time
	Items           []OrderItem
}

type OrderItem struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	OrderID        int64
	Product        ProductRef
	Price          decimal.Decimal
	Quantity       int
	Total          decimal.Decimal
	Status         ItemStatus
	FundsReleased  bool
	AutoReleased   bool
	BuyerConfirmed bool
	AutoReleaseAt  *time.Time
	DeliveredAt    *time.Time
}

type WithdrawalRequest struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          int64
	WalletID        int64
	Amount          decimal.Decimal
	Method          string
	PaymentDetails  Metadata
	Status          WithdrawalStatus
	ApprovedBy      *int64
	ApprovedAt      *time.Time
	RejectionReason string
	RejectedAt      *time.Time
	CancelledAt     *time.Time
	CompletedAt     *time.Time
	TransactionID   *int64
}

// Cart is a buyer checkout before it is split per seller.
type Cart struct {
	BuyerID  int64
	Currency string
	Items    []CartItem
}

type CartItem struct {
	SellerID int64
	Product  ProductRef
	Price    decimal.Decimal
	Quantity int
}

// Total sums price × quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// LedgerEvent is emitted after a ledger mutation commits.
type LedgerEvent struct {
	Type          EventType
	WalletID      int64
	UserID        int64
	TransactionID int64
	OrderID       *int64
	Amount        decimal.Decimal
	Currency      string
	OccurredAt    time.Time
}
