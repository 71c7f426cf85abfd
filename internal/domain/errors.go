package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidState        = errors.New("invalid state")
	ErrSellerNotOnboarded  = errors.New("seller not onboarded")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInput        = errors.New("invalid input")
	ErrWalletInactive      = errors.New("wallet is inactive")
	ErrOwnerConflict       = errors.New("owner conflict")

	ErrProviderTransient = errors.New("payment provider transient error")
	ErrProviderPermanent = errors.New("payment provider permanent error")
)

// InvalidTransitionError is returned when a workflow transition starts from the wrong state.
type InvalidTransitionError struct {
	Entity string
	ID     int64
	From   string
	To     string
}

func NewInvalidTransitionError(entity string, id int64, from, to string) error {
	return &InvalidTransitionError{Entity: entity, ID: id, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %d is %s, cannot move to %s", e.Entity, e.ID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidState
}

// ProviderError wraps a payment provider failure. Transient errors may be retried with backoff.
type ProviderError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration
	Transient  bool
	Err        error
}

func NewProviderTransientError(op string, statusCode int, err error) *ProviderError {
	return &ProviderError{Op: op, StatusCode: statusCode, Transient: true, Err: err}
}

func NewProviderPermanentError(op string, statusCode int, code, message string) *ProviderError {
	return &ProviderError{Op: op, StatusCode: statusCode, Code: code, Message: message}
}

func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: %s failure (status %d): %s", e.Op, kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("provider %s: %s failure: %s", e.Op, kind, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	if e.Transient {
		return target == ErrProviderTransient
	}
	return target == ErrProviderPermanent
}

// TransferFailure reports one seller transfer that did not go through.
type TransferFailure struct {
	OrderID int64
	Err     error
}
