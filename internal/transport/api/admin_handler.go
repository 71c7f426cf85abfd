package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// sweepTimeout a manual sweep may process a full page of rows.
const sweepTimeout = 2 * time.Minute

type AdminHandler struct {
	withdrawals WithdrawalServicer
	release     ReleaseServicer
	escrow      EscrowServicer
	payments    PaymentServicer
	wallets     WalletServicer
	sellers     SellerServicer
}

type AdminHandlerArgs struct {
	Withdrawals WithdrawalServicer
	Release     ReleaseServicer
	Escrow      EscrowServicer
	Payments    PaymentServicer
	Wallets     WalletServicer
	Sellers     SellerServicer
}

func NewAdminHandler(args AdminHandlerArgs) *AdminHandler {
	return &AdminHandler{
		withdrawals: args.Withdrawals,
		release:     args.Release,
		escrow:      args.Escrow,
		payments:    args.Payments,
		wallets:     args.Wallets,
		sellers:     args.Sellers,
	}
}

// ApproveWithdrawal POST RouteGroup + AdminWithdrawalApproveRoute.
func (a *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	requestID, ok := int64Param(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := a.withdrawals.ApproveWithdrawal(reqCtx, requestID, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalResponse(request))
}

type RejectWithdrawalParams struct {
	Reason string `binding:"required,max_bytes=500" json:"reason"`
}

// RejectWithdrawal POST RouteGroup + AdminWithdrawalRejectRoute. The reserved amount goes back to the wallet.
func (a *AdminHandler) RejectWithdrawal(c *gin.Context) {
	requestID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var params RejectWithdrawalParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := a.withdrawals.RejectWithdrawal(reqCtx, requestID, params.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalResponse(request))
}

// CompleteWithdrawal POST RouteGroup + AdminWithdrawalCompleteRoute. Posts the withdrawal to the ledger.
func (a *AdminHandler) CompleteWithdrawal(c *gin.Context) {
	requestID, ok := int64Param(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := a.withdrawals.CompleteWithdrawal(reqCtx, requestID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalResponse(request))
}

type SweepQuery struct {
	Limit uint `binding:"omitempty,max=1000" form:"limit"`
}

type ItemFailureResponse struct {
	ItemID int64  `json:"item_id"`
	Error  string `json:"error"`
}

type AutoReleaseResponse struct {
	Processed int                   `json:"processed"`
	Released  int                   `json:"released"`
	Skipped   int                   `json:"skipped"`
	Failures  []ItemFailureResponse `json:"failures"`
}

// RunAutoRelease POST RouteGroup + AdminAutoReleaseSweepRoute.
func (a *AdminHandler) RunAutoRelease(c *gin.Context) {
	var query SweepQuery
	if !bindQuery(c, &query) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, sweepTimeout)
	defer cancel()

	report, err := a.release.RunAutoReleaseSweep(reqCtx, query.Limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := AutoReleaseResponse{
		Processed: report.Processed,
		Released:  report.Released,
		Skipped:   report.Skipped,
		Failures:  make([]ItemFailureResponse, len(report.Failures)),
	}
	for i, failure := range report.Failures {
		response.Failures[i] = ItemFailureResponse{ItemID: failure.ItemID, Error: failure.Err.Error()}
	}
	c.JSON(http.StatusOK, response)
}

type HoldFailureResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Error         string `json:"error"`
}

type HoldReleaseResponse struct {
	Released int                   `json:"released"`
	Skipped  int                   `json:"skipped"`
	Failures []HoldFailureResponse `json:"failures"`
}

// ReleaseHolds POST RouteGroup + AdminHoldsSweepRoute.
func (a *AdminHandler) ReleaseHolds(c *gin.Context) {
	var query SweepQuery
	if !bindQuery(c, &query) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, sweepTimeout)
	defer cancel()

	report, err := a.escrow.ReleaseDueHolds(reqCtx, query.Limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := HoldReleaseResponse{
		Released: report.Released,
		Skipped:  report.Skipped,
		Failures: make([]HoldFailureResponse, len(report.Failures)),
	}
	for i, failure := range report.Failures {
		response.Failures[i] = HoldFailureResponse{TransactionID: failure.TransactionID, Error: failure.Err.Error()}
	}
	c.JSON(http.StatusOK, response)
}

type RefundResponse struct {
	RefundID string          `json:"refund_id"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

// RefundOrder POST RouteGroup + AdminOrderRefundRoute. Only orders whose transfer failed can be refunded.
func (a *AdminHandler) RefundOrder(c *gin.Context) {
	orderID, ok := int64Param(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, paymentTimeout)
	defer cancel()

	refund, err := a.payments.RefundFailedTransfer(reqCtx, orderID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, RefundResponse{RefundID: refund.ID, Amount: refund.Amount, Status: refund.Status})
}

type ReconcileResponse struct {
	WalletID      int64           `json:"wallet_id"`
	Consistent    bool            `json:"consistent"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	StoredBonus   decimal.Decimal `json:"stored_bonus"`
	LedgerBonus   decimal.Decimal `json:"ledger_bonus"`
}

// ReconcileWallet GET RouteGroup + AdminWalletReconcileRoute.
func (a *AdminHandler) ReconcileWallet(c *gin.Context) {
	walletID, ok := int64Param(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	report, err := a.wallets.ReconcileWallet(reqCtx, walletID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReconcileResponse{
		WalletID:      report.WalletID,
		Consistent:    report.Consistent(),
		StoredBalance: report.StoredBalance,
		LedgerBalance: report.LedgerBalance,
		StoredBonus:   report.StoredBonus,
		LedgerBonus:   report.LedgerBonus,
	})
}

type SellerRiskResponse struct {
	SellerID            int64      `json:"seller_id"`
	TrustLevel          string     `json:"trust_level"`
	ChargebacksReceived int        `json:"chargebacks_received"`
	DisputedSales       int        `json:"disputed_sales"`
	LastChargebackAt    *time.Time `json:"last_chargeback_at,omitempty"`
}

// RecordChargeback POST RouteGroup + AdminSellerChargebacksRoute.
func (a *AdminHandler) RecordChargeback(c *gin.Context) {
	a.recordIncident(c, a.sellers.RecordChargeback)
}

// RecordDispute POST RouteGroup + AdminSellerDisputesRoute.
func (a *AdminHandler) RecordDispute(c *gin.Context) {
	a.recordIncident(c, a.sellers.RecordDispute)
}

// recordIncident bumps a seller risk counter through record and answers with the recomputed trust level.
func (a *AdminHandler) recordIncident(
	c *gin.Context,
	record func(ctx context.Context, sellerID int64) (*domain.Seller, error),
) {
	sellerID, ok := int64Param(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	seller, err := record(reqCtx, sellerID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SellerRiskResponse{
		SellerID:            seller.ID,
		TrustLevel:          string(seller.TrustLevel),
		ChargebacksReceived: seller.ChargebacksReceived,
		DisputedSales:       seller.DisputedSales,
		LastChargebackAt:    seller.LastChargebackAt,
	})
}
