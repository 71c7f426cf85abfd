package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawalsHandler struct {
	svs WithdrawalServicer
}

func NewWithdrawalsHandler(svs WithdrawalServicer) *WithdrawalsHandler {
	return &WithdrawalsHandler{
		svs: svs,
	}
}

type CreateWithdrawalParams struct {
	Amount         decimal.Decimal   `binding:"money"                                   json:"amount"`
	Method         string            `binding:"required,max_bytes=50"                   json:"method"`
	PaymentDetails map[string]string `binding:"omitempty,max=10,dive,keys,max_bytes=64,endkeys,max_bytes=255" json:"payment_details"`
}

type WithdrawalResponse struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func newWithdrawalResponse(request *domain.WithdrawalRequest) WithdrawalResponse {
	return WithdrawalResponse{
		ID:              request.ID,
		Amount:          request.Amount,
		Method:          request.Method,
		Status:          string(request.Status),
		RejectionReason: request.RejectionReason,
		ApprovedAt:      request.ApprovedAt,
		RejectedAt:      request.RejectedAt,
		CancelledAt:     request.CancelledAt,
		CompletedAt:     request.CompletedAt,
		CreatedAt:       request.CreatedAt,
	}
}

// Create POST RouteGroup + WithdrawalsRoute. Reserves the amount until the request is completed or undone.
func (w *WithdrawalsHandler) Create(c *gin.Context) {
	var params CreateWithdrawalParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := w.svs.CreateWithdrawalRequest(reqCtx, service.CreateWithdrawalArgs{
		UserID:         getUserIDFromContext(c),
		Amount:         params.Amount,
		Method:         params.Method,
		PaymentDetails: params.PaymentDetails,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newWithdrawalResponse(request))
}

type WithdrawalsQuery struct {
	Statuses []string `binding:"dive,oneof=pending approved completed rejected cancelled" form:"status"`
}

// Index GET RouteGroup + WithdrawalsRoute.
func (w *WithdrawalsHandler) Index(c *gin.Context) {
	var query WithdrawalsQuery
	if !bindQuery(c, &query) {
		return
	}
	statuses := make([]domain.WithdrawalStatus, len(query.Statuses))
	for i, status := range query.Statuses {
		statuses[i] = domain.WithdrawalStatus(status)
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	requests, err := w.svs.ListWithdrawals(reqCtx, getUserIDFromContext(c), statuses...)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := make([]WithdrawalResponse, len(requests))
	for i := range requests {
		response[i] = newWithdrawalResponse(&requests[i])
	}
	c.JSON(http.StatusOK, response)
}

// Cancel POST RouteGroup + WithdrawalCancelRoute. Only the owner can cancel a pending request.
func (w *WithdrawalsHandler) Cancel(c *gin.Context) {
	requestID, ok := int64Param(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := w.svs.CancelWithdrawal(reqCtx, requestID, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalResponse(request))
}
