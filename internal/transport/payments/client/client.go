// Package client talks to the payment provider's REST API. Amounts travel in minor units.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	RouteIntents   = "/v1/payment_intents"
	RouteIntent    = "/v1/payment_intents/%s"
	RouteCapture   = "/v1/payment_intents/%s/capture"
	RouteTransfers = "/v1/transfers"
	RouteRefunds   = "/v1/refunds"
)

// Bounds of the Retry-After header value, in seconds.
const (
	minRetryAfter     = 1
	maxRetryAfter     = 120
	defaultRetryAfter = 30
)

const minorUnitExp = 2

// HTTPClient implements the provider calls of the payment service.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// SetHTTPClient replaces the underlying http.Client.
func (c *HTTPClient) SetHTTPClient(httpClient *http.Client) *HTTPClient {
	c.httpClient = httpClient
	return c
}

// CreatePaymentIntent opens a manually captured charge. Destination and ApplicationFee turn it into a
// destination charge.
func (c *HTTPClient) CreatePaymentIntent(
	ctx context.Context,
	req domain.IntentRequest,
) (*domain.PaymentIntent, error) {
	const op = "create payment intent"

	amount, amountErr := toMinor(req.Amount)
	if amountErr != nil {
		return nil, domain.NewProviderPermanentError(op, 0, "invalid_amount", amountErr.Error())
	}
	body := intentRequest{
		Amount:        amount,
		Currency:      strings.ToLower(req.Currency),
		Customer:      req.Customer,
		CaptureMethod: "manual",
		TransferGroup: req.TransferGroup,
		Metadata:      req.Metadata,
	}
	if req.Destination != "" {
		fee, feeErr := toMinor(req.ApplicationFee)
		if feeErr != nil {
			return nil, domain.NewProviderPermanentError(op, 0, "invalid_amount", feeErr.Error())
		}
		body.TransferData = &transferData{Destination: req.Destination}
		body.ApplicationFeeAmount = fee
	}

	var resp intentResponse
	if err := c.do(ctx, op, http.MethodPost, RouteIntents, req.IdempotencyKey, body, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *HTTPClient) RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	var resp intentResponse
	if err := c.do(ctx, "retrieve payment intent", http.MethodGet,
		fmt.Sprintf(RouteIntent, intentID), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *HTTPClient) CaptureIntent(
	ctx context.Context,
	intentID, idempotencyKey string,
) (*domain.PaymentIntent, error) {
	var resp intentResponse
	if err := c.do(ctx, "capture payment intent", http.MethodPost,
		fmt.Sprintf(RouteCapture, intentID), idempotencyKey, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *HTTPClient) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
	const op = "create transfer"

	amount, amountErr := toMinor(req.Amount)
	if amountErr != nil {
		return nil, domain.NewProviderPermanentError(op, 0, "invalid_amount", amountErr.Error())
	}
	var resp transferResponse
	if err := c.do(ctx, op, http.MethodPost, RouteTransfers, req.IdempotencyKey, transferRequest{
		Amount:        amount,
		Currency:      strings.ToLower(req.Currency),
		Destination:   req.Destination,
		TransferGroup: req.TransferGroup,
		Metadata:      req.Metadata,
	}, &resp); err != nil {
		return nil, err
	}
	return &domain.Transfer{ID: resp.ID, Amount: fromMinor(resp.Amount)}, nil
}

func (c *HTTPClient) CreateRefund(ctx context.Context, req domain.RefundRequest) (*domain.Refund, error) {
	const op = "create refund"

	amount, amountErr := toMinor(req.Amount)
	if amountErr != nil {
		return nil, domain.NewProviderPermanentError(op, 0, "invalid_amount", amountErr.Error())
	}
	var resp refundResponse
	if err := c.do(ctx, op, http.MethodPost, RouteRefunds, req.IdempotencyKey, refundRequest{
		PaymentIntent: req.PaymentIntentID,
		Amount:        amount,
		Metadata:      req.Metadata,
	}, &resp); err != nil {
		return nil, err
	}
	return &domain.Refund{ID: resp.ID, Amount: fromMinor(resp.Amount), Status: resp.Status}, nil
}

// do sends one request and decodes a 2xx body into out. Failures come back as *domain.ProviderError:
// network errors, 409, 429 and 5xx are transient, other statuses permanent.
//
//nolint:nonamedreturns
func (c *HTTPClient) do(
	ctx context.Context,
	op, method, route, idempotencyKey string,
	in, out any,
) (err error) {
	var reqBody io.Reader
	if in != nil {
		payload, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			return fmt.Errorf("%s: encode request: %s", op, marshalErr.Error())
		}
		reqBody = bytes.NewReader(payload)
	}

	req, reqErr := http.NewRequestWithContext(ctx, method, c.baseURL+route, reqBody)
	if reqErr != nil {
		return fmt.Errorf("%s: create request: %s", op, reqErr.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return domain.NewProviderTransientError(op, 0, doErr)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return domain.NewProviderTransientError(op, resp.StatusCode, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp, body)
	}

	if jsonErr := json.Unmarshal(body, out); jsonErr != nil {
		return fmt.Errorf("%s: parse response: %s", op, jsonErr.Error())
	}
	return nil
}

func statusError(op string, resp *http.Response, body []byte) error {
	var payload errorResponse
	_ = json.Unmarshal(body, &payload)
	message := payload.Error.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		err := domain.NewProviderTransientError(op, resp.StatusCode, errors.New(message))
		err.Code = payload.Error.Code
		err.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
		return err
	case resp.StatusCode == http.StatusConflict || resp.StatusCode >= http.StatusInternalServerError:
		err := domain.NewProviderTransientError(op, resp.StatusCode, errors.New(message))
		err.Code = payload.Error.Code
		return err
	default:
		return domain.NewProviderPermanentError(op, resp.StatusCode, payload.Error.Code, message)
	}
}

func retryAfter(header string) time.Duration {
	value, parseErr := decimal.NewFromString(header)
	if parseErr != nil || value.LessThan(decimal.NewFromInt(minRetryAfter)) ||
		value.GreaterThan(decimal.NewFromInt(maxRetryAfter)) {
		value = decimal.NewFromInt(defaultRetryAfter)
	}
	return time.Duration(value.IntPart()) * time.Second
}

// toMinor converts a major unit amount to cents. Sub-cent amounts are rejected.
func toMinor(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(minorUnitExp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount, minorUnitExp)
	}
	return minor.IntPart(), nil
}

func fromMinor(amount int64) decimal.Decimal {
	return decimal.New(amount, -minorUnitExp)
}

func (r intentResponse) toDomain() *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:         r.ID,
		Status:     domain.IntentStatus(r.Status),
		Amount:     fromMinor(r.Amount),
		Currency:   strings.ToUpper(r.Currency),
		TransferID: r.Transfer,
	}
}
