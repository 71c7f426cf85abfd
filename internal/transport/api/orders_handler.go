package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentTimeout covers a provider round trip plus the order updates around it.
const paymentTimeout = 30 * time.Second

type OrdersHandler struct {
	orderSvs   OrderServicer
	paymentSvs PaymentServicer
	releaseSvs ReleaseServicer
	currency   string
}

func NewOrdersHandler(
	orderSvs OrderServicer,
	paymentSvs PaymentServicer,
	releaseSvs ReleaseServicer,
	currency string,
) *OrdersHandler {
	return &OrdersHandler{
		orderSvs:   orderSvs,
		paymentSvs: paymentSvs,
		releaseSvs: releaseSvs,
		currency:   currency,
	}
}

type CartItemParams struct {
	SellerID    int64           `binding:"required,gt=0"                                 json:"seller_id"`
	ProductKind string          `binding:"required,oneof=item currency account service" json:"product_kind"`
	ProductID   int64           `binding:"required,gt=0"                                 json:"product_id"`
	Price       decimal.Decimal `binding:"money"                                         json:"price"`
	Quantity    int             `binding:"required,gt=0,lte=1000"                        json:"quantity"`
}

type CheckoutParams struct {
	BuyerID  int64            `binding:"required,gt=0"       json:"buyer_id"`
	Currency string           `binding:"omitempty,iso4217"   json:"currency"`
	Items    []CartItemParams `binding:"required,min=1,dive" json:"items"`
}

type OrderItemResponse struct {
	ID            int64           `json:"id"`
	ProductKind   string          `json:"product_kind"`
	ProductID     int64           `json:"product_id"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	FundsReleased bool            `json:"funds_released"`
	AutoReleaseAt *time.Time      `json:"auto_release_at,omitempty"`
}

type OrderResponse struct {
	ID            int64               `json:"id"`
	SellerID      int64               `json:"seller_id"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	PlatformFee   decimal.Decimal     `json:"platform_fee"`
	Total         decimal.Decimal     `json:"total"`
	Currency      string              `json:"currency"`
	PaymentStatus string              `json:"payment_status"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type OrderGroupResponse struct {
	OrderGroupID uuid.UUID       `json:"order_group_id"`
	Total        decimal.Decimal `json:"total"`
	Orders       []OrderResponse `json:"orders"`
}

func newOrderGroupResponse(orders []domain.Order) OrderGroupResponse {
	response := OrderGroupResponse{
		Total:  decimal.Zero,
		Orders: make([]OrderResponse, len(orders)),
	}
	for i, order := range orders {
		response.OrderGroupID = order.OrderGroupID
		response.Total = response.Total.Add(order.Total)

		items := make([]OrderItemResponse, len(order.Items))
		for j, item := range order.Items {
			items[j] = OrderItemResponse{
				ID:            item.ID,
				ProductKind:   string(item.Product.Kind),
				ProductID:     item.Product.ID,
				Price:         item.Price,
				Quantity:      item.Quantity,
				Total:         item.Total,
				Status:        string(item.Status),
				FundsReleased: item.FundsReleased,
				AutoReleaseAt: item.AutoReleaseAt,
			}
		}
		response.Orders[i] = OrderResponse{
			ID:            order.ID,
			SellerID:      order.SellerID,
			Subtotal:      order.Subtotal,
			PlatformFee:   order.PlatformFee,
			Total:         order.Total,
			Currency:      order.Currency,
			PaymentStatus: string(order.PaymentStatus),
			Status:        string(order.Status),
			Items:         items,
			CreatedAt:     order.CreatedAt,
		}
	}
	return response
}

// Checkout POST RouteGroup + CheckoutRoute. Splits a catalog priced cart into one order per seller.
// Only collaborator tokens reach it; the buyer is named in the body.
func (o *OrdersHandler) Checkout(c *gin.Context) {
	var params CheckoutParams
	if !bindJSON(c, &params) {
		return
	}

	cart := domain.Cart{
		BuyerID:  params.BuyerID,
		Currency: strings.ToUpper(params.Currency),
		Items:    make([]domain.CartItem, len(params.Items)),
	}
	if cart.Currency == "" {
		cart.Currency = o.currency
	}
	for i, item := range params.Items {
		cart.Items[i] = domain.CartItem{
			SellerID: item.SellerID,
			Product:  domain.ProductRef{Kind: domain.ProductKind(item.ProductKind), ID: item.ProductID},
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.SplitCartAndCreateOrders(reqCtx, cart, nil)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderGroupResponse(orders))
}

// Group GET RouteGroup + OrderGroupRoute.
func (o *OrdersHandler) Group(c *gin.Context) {
	groupID, ok := uuidParam(c, "group_id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetOrderGroup(reqCtx, groupID, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderGroupResponse(orders))
}

type PayParams struct {
	Customer string `binding:"omitempty,max_bytes=255" json:"customer"`
}

type IntentResponse struct {
	IntentID string          `json:"intent_id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Pay POST RouteGroup + OrderGroupPayRoute. Opens, or returns the already opened, payment intent.
func (o *OrdersHandler) Pay(c *gin.Context) {
	groupID, ok := uuidParam(c, "group_id")
	if !ok {
		return
	}
	var params PayParams
	if c.Request.ContentLength > 0 && !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, paymentTimeout)
	defer cancel()

	if _, ownErr := o.orderSvs.GetOrderGroup(reqCtx, groupID, getUserIDFromContext(c)); ownErr != nil {
		abortWithServiceError(c, ownErr)
		return
	}

	intent, err := o.paymentSvs.PayOrderGroup(reqCtx, groupID, params.Customer)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, IntentResponse{
		IntentID: intent.ID,
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: intent.Currency,
	})
}

type TransferFailureResponse struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

type ConfirmPaymentResponse struct {
	OrderGroupID     uuid.UUID                 `json:"order_group_id"`
	TransferFailures []TransferFailureResponse `json:"transfer_failures"`
}

// ConfirmPayment POST RouteGroup + OrderGroupConfirmRoute. Captures the charge and pays sellers out. Transfer
// failures do not fail the request.
func (o *OrdersHandler) ConfirmPayment(c *gin.Context) {
	groupID, ok := uuidParam(c, "group_id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, paymentTimeout)
	defer cancel()

	if _, ownErr := o.orderSvs.GetOrderGroup(reqCtx, groupID, getUserIDFromContext(c)); ownErr != nil {
		abortWithServiceError(c, ownErr)
		return
	}

	failures, err := o.paymentSvs.ConfirmOrderGroupPayment(reqCtx, groupID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := ConfirmPaymentResponse{
		OrderGroupID:     groupID,
		TransferFailures: make([]TransferFailureResponse, len(failures)),
	}
	for i, failure := range failures {
		_ = c.Error(failure.Err).SetType(gin.ErrorTypePrivate)
		response.TransferFailures[i] = TransferFailureResponse{
			OrderID: failure.OrderID,
			Reason:  transferFailureReason(failure.Err),
		}
	}
	c.JSON(http.StatusOK, response)
}

func transferFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSellerNotOnboarded):
		return "seller not onboarded"
	case errors.Is(err, domain.ErrProviderTransient):
		return "retry scheduled"
	default:
		return "transfer failed"
	}
}

// Deliver POST RouteGroup + OrderItemDeliverRoute. Called by the seller; starts the auto release window.
func (o *OrdersHandler) Deliver(c *gin.Context) {
	itemID, ok := int64Param(c, "item_id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := o.releaseSvs.MarkItemDelivered(reqCtx, getUserIDFromContext(c), itemID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

type ItemReleaseResponse struct {
	ItemID    int64      `json:"item_id"`
	Released  bool       `json:"released"`
	HoldUntil *time.Time `json:"hold_until,omitempty"`
}

// ConfirmItem POST RouteGroup + OrderItemConfirmRoute. Called by the buyer; releases the item earnings to
// the seller.
func (o *OrdersHandler) ConfirmItem(c *gin.Context) {
	itemID, ok := int64Param(c, "item_id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	credited, err := o.releaseSvs.ConfirmItem(reqCtx, getUserIDFromContext(c), itemID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	response := ItemReleaseResponse{ItemID: itemID, Released: true}
	// nil when the item earned the seller nothing
	if credited != nil {
		response.HoldUntil = credited.HoldUntil
	}
	c.JSON(http.StatusOK, response)
}
