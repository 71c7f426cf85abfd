package domain

import "github.com/shopspring/decimal"

type IntentStatus string

const (
	IntentStatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentStatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentStatusRequiresCapture       IntentStatus = "requires_capture"
	IntentStatusProcessing            IntentStatus = "processing"
	IntentStatusSucceeded             IntentStatus = "succeeded"
	IntentStatusCanceled              IntentStatus = "canceled"
)

// IntentRequest describes a buyer charge. Destination and ApplicationFee are set only for destination charges.
type IntentRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Customer       string
	Destination    string
	ApplicationFee decimal.Decimal
	TransferGroup  string
	Metadata       Metadata
	IdempotencyKey string
}

type PaymentIntent struct {
	ID         string
	Status     IntentStatus
	Amount     decimal.Decimal
	Currency   string
	TransferID string
}

type TransferRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Destination    string
	TransferGroup  string
	Metadata       Metadata
	IdempotencyKey string
}

type Transfer struct {
	ID     string
	Amount decimal.Decimal
}

type RefundRequest struct {
	PaymentIntentID string
	Amount          decimal.Decimal
	Metadata        Metadata
	IdempotencyKey  string
}

type Refund struct {
	ID     string
	Amount decimal.Decimal
	Status string
}
