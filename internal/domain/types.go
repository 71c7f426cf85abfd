package domain

type TransactionType string

const (
	TransactionTypeDeposit            TransactionType = "deposit"
	TransactionTypeWithdrawal         TransactionType = "withdrawal"
	TransactionTypePurchase           TransactionType = "purchase"
	TransactionTypeSale               TransactionType = "sale"
	TransactionTypeRefund             TransactionType = "refund"
	TransactionTypeBonus              TransactionType = "bonus"
	TransactionTypeAchievement        TransactionType = "achievement"
	TransactionTypeReferralCommission TransactionType = "referral_commission"
	TransactionTypeFee                TransactionType = "fee"
)

// AffectsBalance reports whether the type moves the main balance. Bonus credits go to bonus_balance.
func (t TransactionType) AffectsBalance() bool {
	return t != TransactionTypeBonus
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type TrustLevel string

const (
	TrustLevelNew      TrustLevel = "new"
	TrustLevelStandard TrustLevel = "standard"
	TrustLevelTrusted  TrustLevel = "trusted"
	TrustLevelVerified TrustLevel = "verified"
)

type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusPaid           PaymentStatus = "paid"
	PaymentStatusRefunded       PaymentStatus = "refunded"
	PaymentStatusTransferFailed PaymentStatus = "transfer_failed"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusDelivered ItemStatus = "delivered"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusCancelled ItemStatus = "cancelled"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCancelled WithdrawalStatus = "cancelled"
)

type ProductKind string

const (
	ProductKindItem     ProductKind = "item"
	ProductKindCurrency ProductKind = "currency"
	ProductKindAccount  ProductKind = "account"
	ProductKindService  ProductKind = "service"
)

func (k ProductKind) Valid() bool {
	switch k {
	case ProductKindItem, ProductKindCurrency, ProductKindAccount, ProductKindService:
		return true
	}
	return false
}

type EventType string

const (
	EventDepositCompleted    EventType = "deposit_completed"
	EventWithdrawalCompleted EventType = "withdrawal_completed"
	EventPurchaseCompleted   EventType = "purchase_completed"
	EventSaleCredited        EventType = "sale_credited"
	EventRefundCredited      EventType = "refund_credited"
	EventBonusCredited       EventType = "bonus_credited"
	EventHoldReleased        EventType = "hold_released"
)
