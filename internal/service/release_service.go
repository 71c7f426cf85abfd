package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultReleaseSweepLimit uint = 200
	DefaultAutoReleaseWindow      = 72 * time.Hour
)

var errItemNotDue = errors.New("order item is no longer due")

// ReleaseService moves order item earnings from the buyer side to the seller wallet.
type ReleaseService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	escrow    *EscrowService
	window    time.Duration
	l         *logrus.Entry
	now       func() time.Time
}

func NewReleaseService(
	u uow.UOW,
	escrow *EscrowService,
	window time.Duration,
	l *logrus.Logger,
) (*ReleaseService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if window <= 0 {
		window = DefaultAutoReleaseWindow
	}
	return &ReleaseService{
		uow:       u,
		orderRepo: orderRepo,
		escrow:    escrow,
		window:    window,
		l:         l.WithField("component", "ReleaseService"),
		now:       time.Now,
	}, nil
}

type ItemReleaseFailure struct {
	ItemID int64
	Err    error
}

type SweepReport struct {
	Processed int
	Released  int
	Skipped   int
	Failures  []ItemReleaseFailure
}

// RunAutoReleaseSweep credits sellers for delivered items the buyer did not confirm within the window.
// Items are processed one by one: a failed item is reported and picked up again by the next sweep.
func (r *ReleaseService) RunAutoReleaseSweep(ctx context.Context, limit uint) (*SweepReport, error) {
	if limit == 0 {
		limit = defaultReleaseSweepLimit
	}
	due, err := r.orderRepo.ListDueItems(ctx, r.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("listing items due for auto-release: %w", err)
	}

	report := &SweepReport{Failures: make([]ItemReleaseFailure, 0)}
	for _, candidate := range due {
		if ctx.Err() != nil {
			return report, ctx.Err() //nolint:wrapcheck
		}
		report.Processed++

		credited, releaseErr := r.release(ctx, candidate.Item.ID, func(item *repoargs.DueItem) error {
			if item.Item.FundsReleased || item.Item.Status != domain.ItemStatusDelivered || item.Item.BuyerConfirmed ||
				item.Item.AutoReleaseAt == nil || item.Item.AutoReleaseAt.After(r.now()) {
				return errItemNotDue
			}
			return nil
		}, true)

		switch {
		case errors.Is(releaseErr, errItemNotDue):
			report.Skipped++
		case releaseErr != nil:
			r.l.WithError(releaseErr).
				WithField("item_id", candidate.Item.ID).
				WithField("seller_id", candidate.SellerID).
				Warn("auto-release failed")
			report.Failures = append(report.Failures, ItemReleaseFailure{ItemID: candidate.Item.ID, Err: releaseErr})
		default:
			report.Released++
			if credited != nil {
				r.escrow.events.emit(ctx, newLedgerEvent(domain.EventSaleCredited, credited, r.now()))
			}
		}
	}
	return report, nil
}

// MarkItemDelivered records seller delivery and starts the auto-release window.
func (r *ReleaseService) MarkItemDelivered(ctx context.Context, sellerID, itemID int64) error {
	err := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		item, lockErr := orderRepo.LockItem(c, itemID)
		if lockErr != nil {
			return lockErr //nolint:wrapcheck
		}
		if item.SellerID != sellerID {
			return domain.ErrOwnerConflict
		}
		if item.PaymentStatus != domain.PaymentStatusPaid {
			return domain.NewInvalidTransitionError(
				"order", item.Item.OrderID, "payment "+string(item.PaymentStatus), string(domain.ItemStatusDelivered))
		}
		if item.Item.Status != domain.ItemStatusPending {
			return domain.NewInvalidTransitionError(
				"order item", itemID, string(item.Item.Status), string(domain.ItemStatusDelivered))
		}
		now := r.now()
		return orderRepo.MarkItemDelivered(c, itemID, now, now.Add(r.window)) //nolint:wrapcheck
	})
	if err != nil {
		return fmt.Errorf("marking order item %d delivered: %w", itemID, err)
	}
	return nil
}

// ConfirmItem releases the item earnings on buyer confirmation. The returned transaction is nil when the item
// earns the seller nothing.
func (r *ReleaseService) ConfirmItem(ctx context.Context, buyerID, itemID int64) (*domain.Transaction, error) {
	credited, err := r.release(ctx, itemID, func(item *repoargs.DueItem) error {
		if item.BuyerID != buyerID {
			return domain.ErrOwnerConflict
		}
		if item.Item.FundsReleased || item.Item.Status != domain.ItemStatusDelivered {
			return domain.NewInvalidTransitionError(
				"order item", itemID, string(item.Item.Status), string(domain.ItemStatusCompleted))
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("confirming order item %d: %w", itemID, err)
	}
	if credited != nil {
		r.escrow.events.emit(ctx, newLedgerEvent(domain.EventSaleCredited, credited, r.now()))
	}
	return credited, nil
}

// SellerEarnings is the item total minus the platform fee, rounded to cents.
func SellerEarnings(total, feePercent decimal.Decimal) decimal.Decimal {
	return total.Sub(percentOf(total, feePercent))
}

// OrderFeePercent is the fee percent the order was priced with at checkout.
func OrderFeePercent(order domain.Order) decimal.Decimal {
	if !order.Subtotal.IsPositive() {
		return decimal.Zero
	}
	return order.PlatformFee.Mul(hundred).Div(order.Subtotal)
}

// ItemEarnings is the seller share of one order item. The last unsettled item takes what is left of the
// order payout, so the item credits of an order add up to its seller_payout.
func ItemEarnings(order domain.Order, itemID int64) (earnings decimal.Decimal, last bool) {
	percent := OrderFeePercent(order)
	var (
		item    domain.OrderItem
		settled = decimal.Zero
	)
	last = true
	for _, orderItem := range order.Items {
		switch {
		case orderItem.ID == itemID:
			item = orderItem
		case orderItem.FundsReleased, orderItem.Status == domain.ItemStatusCancelled:
			settled = settled.Add(SellerEarnings(orderItem.Total, percent))
		default:
			last = false
		}
	}
	if !last {
		return SellerEarnings(item.Total, percent), false
	}
	return decimal.Max(order.SellerPayout.Sub(settled), decimal.Zero), true
}

func (r *ReleaseService) release(
	ctx context.Context,
	itemID int64,
	check func(item *repoargs.DueItem) error,
	auto bool,
) (*domain.Transaction, error) {
	var credited *domain.Transaction
	err := retryOnConflict(ctx, func() error {
		credited = nil
		return r.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
			if repoErr != nil {
				return repoErr //nolint:wrapcheck
			}

			item, lockErr := orderRepo.LockItem(c, itemID)
			if lockErr != nil {
				return lockErr //nolint:wrapcheck
			}
			if checkErr := check(item); checkErr != nil {
				return checkErr
			}
			// sibling items of the order are released one at a time.
			order, orderErr := orderRepo.LockByID(c, item.Item.OrderID)
			if orderErr != nil {
				return orderErr //nolint:wrapcheck
			}
			earnings, last := ItemEarnings(*order, itemID)

			if markErr := orderRepo.MarkItemReleased(c, repoargs.MarkItemReleased{
				ItemID:     itemID,
				Auto:       auto,
				ReleasedAt: r.now(),
			}); markErr != nil {
				return markErr //nolint:wrapcheck
			}
			if last {
				if completeErr := orderRepo.MarkCompleted(c, order.ID); completeErr != nil {
					return completeErr //nolint:wrapcheck
				}
			}

			if !earnings.IsPositive() {
				return r.recordEmptySale(c, tx, item.SellerID, last)
			}
			t, creditErr := r.escrow.creditSaleTx(c, tx, CreditSaleArgs{
				SellerID:      item.SellerID,
				OrderID:       item.Item.OrderID,
				Amount:        earnings,
				Currency:      item.Currency,
				Description:   fmt.Sprintf("sale of order item %d", itemID),
				CompletesSale: last,
			})
			if creditErr != nil {
				return creditErr
			}
			credited = t
			return nil
		})
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return credited, nil
}

// recordEmptySale settles an item that earns the seller nothing. No ledger row is posted.
func (r *ReleaseService) recordEmptySale(ctx context.Context, tx uow.TX, sellerID int64, completes bool) error {
	if !completes {
		return nil
	}
	sellerRepo, repoErr := uow.GetAs[SellerRepository](tx, uow.RepositoryName(repoargs.SellerRepoName))
	if repoErr != nil {
		return repoErr //nolint:wrapcheck
	}
	return sellerRepo.RecordSale(ctx, sellerID, decimal.Zero, 1) //nolint:wrapcheck
}
