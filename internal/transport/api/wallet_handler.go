package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultTransactionsPage uint = 50

type WalletHandler struct {
	svs WalletServicer
}

func NewWalletHandler(svs WalletServicer) *WalletHandler {
	return &WalletHandler{
		svs: svs,
	}
}

type WalletResponse struct {
	WalletID         int64           `json:"wallet_id"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	BonusBalance     decimal.Decimal `json:"bonus_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// Index GET RouteGroup + WalletRoute. The wallet is opened on first access.
func (w *WalletHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	wallet, err := w.svs.GetOrCreateWallet(reqCtx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, WalletResponse{
		WalletID:         wallet.ID,
		Currency:         wallet.Currency,
		Balance:          wallet.Balance,
		PendingBalance:   wallet.PendingBalance,
		BonusBalance:     wallet.BonusBalance,
		AvailableBalance: wallet.AvailableBalance(),
	})
}

type TransactionsQuery struct {
	Types    []string  `binding:"dive,oneof=deposit withdrawal purchase sale refund bonus achievement referral_commission fee" form:"type"`
	Statuses []string  `binding:"dive,oneof=pending completed failed cancelled"                                                   form:"status"`
	Limit    uint      `binding:"omitempty,max=200"                                                                                form:"limit"`
	Offset   uint      `form:"offset"`
	From     time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       time.Time `binding:"omitempty,gtfield=From" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type TransactionResponse struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	OrderID     *int64          `json:"order_id,omitempty"`
	IsHeld      bool            `json:"is_held"`
	HoldUntil   *time.Time      `json:"hold_until,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Transactions GET RouteGroup + WalletTransactionsRoute. Newest first.
func (w *WalletHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var query TransactionsQuery
	if !bindQuery(c, &query) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	wallet, walletErr := w.svs.GetWallet(reqCtx, currentUserID)
	if walletErr != nil {
		abortWithServiceError(c, walletErr)
		return
	}

	filter := repoargs.TransactionFilter{
		WalletID: wallet.WalletID,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = defaultTransactionsPage
	}
	if !query.From.IsZero() {
		filter.From = &query.From
	}
	if !query.To.IsZero() {
		filter.To = &query.To
	}
	for _, t := range query.Types {
		filter.Types = append(filter.Types, domain.TransactionType(t))
	}
	for _, status := range query.Statuses {
		filter.Statuses = append(filter.Statuses, domain.TransactionStatus(status))
	}

	transactions, err := w.svs.ListTransactions(reqCtx, filter)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := make([]TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		response[i] = TransactionResponse{
			ID:          transaction.ID,
			Type:        string(transaction.Type),
			Amount:      transaction.Amount,
			Currency:    transaction.Currency,
			Status:      string(transaction.Status),
			Description: transaction.Description,
			OrderID:     transaction.OrderID,
			IsHeld:      transaction.IsHeld,
			HoldUntil:   transaction.HoldUntil,
			CreatedAt:   transaction.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
