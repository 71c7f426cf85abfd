package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	providerTimeout          = 10 * time.Second
	defaultTransferWorkers   = 4
	defaultTransferRetryWait = time.Minute
	defaultRetriableLimit    = 100
)

// PaymentService charges buyers and pays sellers out on the provider side. Provider calls never run
// inside a unit of work.
type PaymentService struct {
	orderRepo  OrderRepository
	sellerRepo SellerRepository
	provider   PaymentProvider
	scheduler  TransferRetryScheduler
	workers    int
	retryWait  time.Duration
	l          *logrus.Entry
	now        func() time.Time
}

func NewPaymentService(
	u uow.UOW,
	provider PaymentProvider,
	scheduler TransferRetryScheduler,
	l *logrus.Logger,
) (*PaymentService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	sellerRepo, sellerErr := uow.GetRepositoryAs[SellerRepository](u, uow.RepositoryName(repoargs.SellerRepoName))
	if sellerErr != nil {
		return nil, sellerErr //nolint:wrapcheck
	}
	return &PaymentService{
		orderRepo:  orderRepo,
		sellerRepo: sellerRepo,
		provider:   provider,
		scheduler:  scheduler,
		workers:    defaultTransferWorkers,
		retryWait:  defaultTransferRetryWait,
		l:          l.WithField("component", "PaymentService"),
		now:        time.Now,
	}, nil
}

// SetWorkers bounds the number of parallel seller transfers.
func (p *PaymentService) SetWorkers(workers int) *PaymentService {
	if workers > 0 {
		p.workers = workers
	}
	return p
}

func (p *PaymentService) SetRetryWait(wait time.Duration) *PaymentService {
	if wait > 0 {
		p.retryWait = wait
	}
	return p
}

// PayOrderGroup opens the buyer charge of a checkout. A single seller group becomes a destination charge with
// the platform fee as application fee, a multi seller group one charge settled later by transfers.
// Calling it again returns the already opened intent.
func (p *PaymentService) PayOrderGroup(
	ctx context.Context,
	groupID uuid.UUID,
	customer string,
) (*domain.PaymentIntent, error) {
	orders, err := p.orderRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("paying order group %s: %w", groupID, err)
	}
	for _, order := range orders {
		if order.PaymentStatus != domain.PaymentStatusPending {
			return nil, domain.NewInvalidTransitionError(
				"order", order.ID, "payment "+string(order.PaymentStatus), "payment pending")
		}
	}

	if intentID := orders[0].PaymentIntentID; intentID != "" {
		return p.retrieveIntent(ctx, intentID)
	}

	req := domain.IntentRequest{
		Amount:         groupTotal(orders),
		Currency:       orders[0].Currency,
		Customer:       customer,
		TransferGroup:  groupID.String(),
		Metadata:       domain.Metadata{"order_group_id": groupID.String()},
		IdempotencyKey: "intent-" + groupID.String(),
	}
	if len(orders) == 1 {
		seller, sellerErr := p.sellerRepo.GetByID(ctx, orders[0].SellerID)
		if sellerErr != nil {
			return nil, fmt.Errorf("paying order group %s: %w", groupID, sellerErr)
		}
		if !seller.IsOnboarded() {
			return nil, fmt.Errorf("paying order group %s: seller %d: %w", groupID, seller.ID, domain.ErrSellerNotOnboarded)
		}
		req.Destination = seller.PayoutAccountID
		req.ApplicationFee = orders[0].PlatformFee
		req.TransferGroup = ""
	}

	providerCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()
	intent, intentErr := p.provider.CreatePaymentIntent(providerCtx, req)
	if intentErr != nil {
		return nil, fmt.Errorf("creating payment intent of group %s: %w", groupID, intentErr)
	}

	if setErr := p.orderRepo.SetPaymentIntent(ctx, groupID, intent.ID); setErr != nil {
		return nil, fmt.Errorf("storing payment intent of group %s: %w", groupID, setErr)
	}
	return intent, nil
}

// ConfirmOrderGroupPayment captures the buyer charge and settles the sellers. Returned failures belong to
// individual seller transfers and do not undo the capture.
func (p *PaymentService) ConfirmOrderGroupPayment(
	ctx context.Context,
	groupID uuid.UUID,
) ([]domain.TransferFailure, error) {
	orders, err := p.orderRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("confirming payment of group %s: %w", groupID, err)
	}
	first := orders[0]
	if first.PaymentIntentID == "" {
		return nil, domain.NewInvalidTransitionError("order", first.ID, "unpaid", "captured")
	}

	intent, intentErr := p.retrieveIntent(ctx, first.PaymentIntentID)
	if intentErr != nil {
		return nil, intentErr
	}
	if intent.Status == domain.IntentStatusRequiresCapture {
		providerCtx, cancel := context.WithTimeout(ctx, providerTimeout)
		intent, intentErr = p.provider.CaptureIntent(providerCtx, intent.ID, "capture-"+groupID.String())
		cancel()
		if intentErr != nil {
			return nil, fmt.Errorf("capturing payment intent %s: %w", first.PaymentIntentID, intentErr)
		}
	}
	if intent.Status != domain.IntentStatusSucceeded {
		return nil, domain.NewInvalidTransitionError(
			"order", first.ID, "intent "+string(intent.Status), "intent "+string(domain.IntentStatusSucceeded))
	}

	if markErr := p.orderRepo.MarkGroupCaptured(ctx, groupID, p.now()); markErr != nil {
		return nil, fmt.Errorf("marking group %s captured: %w", groupID, markErr)
	}

	if len(orders) == 1 {
		if first.PaymentStatus != domain.PaymentStatusPending {
			return nil, nil
		}
		if _, paidErr := p.orderRepo.MarkPaid(ctx, first.ID, intent.TransferID); paidErr != nil &&
			!errors.Is(paidErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("marking order %d paid: %w", first.ID, paidErr)
		}
		return nil, nil
	}
	return p.DistributeTransfers(ctx, groupID)
}

// DistributeTransfers pays every pending captured order of the group to its seller. Transfers run in parallel
// and fail independently. A transient failure stays pending with a retry queued, an order of a seller without
// payout account stays pending until onboarding, a permanent provider failure becomes transfer_failed.
func (p *PaymentService) DistributeTransfers(
	ctx context.Context,
	groupID uuid.UUID,
) ([]domain.TransferFailure, error) {
	orders, err := p.orderRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("distributing transfers of group %s: %w", groupID, err)
	}
	pending := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.PaymentStatus != domain.PaymentStatusPending {
			continue
		}
		if order.CapturedAt == nil {
			return nil, domain.NewInvalidTransitionError("order", order.ID, "uncaptured", "transferred")
		}
		pending = append(pending, order)
	}
	return p.distribute(ctx, pending), nil
}

// RetryTransfer completes a single seller transfer. Orders that are no longer pending are left alone.
func (p *PaymentService) RetryTransfer(ctx context.Context, orderID int64) error {
	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("retrying transfer of order %d: %w", orderID, err)
	}
	if order.PaymentStatus != domain.PaymentStatusPending {
		return nil
	}
	if order.CapturedAt == nil {
		return domain.NewInvalidTransitionError("order", order.ID, "uncaptured", "transferred")
	}
	return p.transferOrder(ctx, *order, false)
}

// RetryPendingTransfers picks up captured orders whose transfer never completed, including orders waiting for
// their seller to onboard.
func (p *PaymentService) RetryPendingTransfers(ctx context.Context, limit uint) ([]domain.TransferFailure, error) {
	if limit == 0 {
		limit = defaultRetriableLimit
	}
	orders, err := p.orderRepo.ListRetriable(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing retriable orders: %w", err)
	}
	return p.distribute(ctx, orders), nil
}

// RefundFailedTransfer returns the order total to the buyer when the seller could not be paid.
func (p *PaymentService) RefundFailedTransfer(ctx context.Context, orderID int64) (*domain.Refund, error) {
	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("refunding order %d: %w", orderID, err)
	}
	if order.PaymentStatus != domain.PaymentStatusTransferFailed {
		return nil, domain.NewInvalidTransitionError(
			"order", order.ID, "payment "+string(order.PaymentStatus), "payment "+string(domain.PaymentStatusRefunded))
	}

	providerCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()
	refund, refundErr := p.provider.CreateRefund(providerCtx, domain.RefundRequest{
		PaymentIntentID: order.PaymentIntentID,
		Amount:          order.Total,
		Metadata:        domain.Metadata{"order_id": strconv.FormatInt(order.ID, 10)},
		IdempotencyKey:  "refund-" + strconv.FormatInt(order.ID, 10),
	})
	if refundErr != nil {
		return nil, fmt.Errorf("refunding order %d: %w", orderID, refundErr)
	}

	if markErr := p.orderRepo.MarkRefunded(ctx, order.ID); markErr != nil {
		return nil, fmt.Errorf("marking order %d refunded: %w", orderID, markErr)
	}
	return refund, nil
}

func (p *PaymentService) distribute(ctx context.Context, orders []domain.Order) []domain.TransferFailure {
	var (
		mu       sync.Mutex
		failures = make([]domain.TransferFailure, 0)
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, order := range orders {
		g.Go(func() error {
			if err := p.transferOrder(gCtx, order, true); err != nil {
				mu.Lock()
				failures = append(failures, domain.TransferFailure{OrderID: order.ID, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool { return failures[i].OrderID < failures[j].OrderID })
	return failures
}

func (p *PaymentService) transferOrder(ctx context.Context, order domain.Order, scheduleRetry bool) error {
	l := p.l.WithField("order_id", order.ID).WithField("order_group_id", order.OrderGroupID.String())

	seller, err := p.sellerRepo.GetByID(ctx, order.SellerID)
	if err != nil {
		return fmt.Errorf("getting seller %d: %w", order.SellerID, err)
	}
	if !seller.IsOnboarded() {
		// blocked until onboarding: the order stays pending and the next sweep tries again.
		if markErr := p.orderRepo.SetFailureReason(ctx, order.ID, domain.ErrSellerNotOnboarded.Error()); markErr != nil {
			return errors.Join(domain.ErrSellerNotOnboarded, markErr)
		}
		return fmt.Errorf("seller %d: %w", seller.ID, domain.ErrSellerNotOnboarded)
	}

	orderID := strconv.FormatInt(order.ID, 10)
	providerCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	transfer, transferErr := p.provider.CreateTransfer(providerCtx, domain.TransferRequest{
		Amount:         order.SellerPayout,
		Currency:       order.Currency,
		Destination:    seller.PayoutAccountID,
		TransferGroup:  order.OrderGroupID.String(),
		Metadata:       domain.Metadata{"order_id": orderID},
		IdempotencyKey: "transfer-" + orderID,
	})
	cancel()

	if transferErr != nil {
		if errors.Is(transferErr, domain.ErrProviderTransient) {
			if scheduleRetry && p.scheduler != nil {
				delay := time.Duration(jitter(float64(p.retryWait), 0.1, 0.3))
				if schedErr := p.scheduler.ScheduleTransferRetry(ctx, order.ID, delay); schedErr != nil {
					l.WithError(schedErr).Warn("scheduling transfer retry")
				}
			}
			return fmt.Errorf("transferring order %d: %w", order.ID, transferErr)
		}
		if markErr := p.orderRepo.MarkTransferFailed(ctx, order.ID, transferErr.Error()); markErr != nil {
			return errors.Join(transferErr, markErr)
		}
		return fmt.Errorf("transferring order %d: %w", order.ID, transferErr)
	}

	if _, paidErr := p.orderRepo.MarkPaid(ctx, order.ID, transfer.ID); paidErr != nil {
		if errors.Is(paidErr, domain.ErrRecordNotFound) {
			l.Debug("order already settled by another worker")
			return nil
		}
		return fmt.Errorf("marking order %d paid: %w", order.ID, paidErr)
	}
	return nil
}

func (p *PaymentService) retrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	providerCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()
	intent, err := p.provider.RetrieveIntent(providerCtx, intentID)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent %s: %w", intentID, err)
	}
	return intent, nil
}

func groupTotal(orders []domain.Order) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.Total)
	}
	return total
}
