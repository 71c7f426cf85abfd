package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	uow        uow.UOW
	orderRepo  OrderRepository
	sellerRepo SellerRepository
	fees       FeeSchedule
	newGroupID func() uuid.UUID
}

func NewOrderService(u uow.UOW, fees FeeSchedule) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	sellerRepo, sellerErr := uow.GetRepositoryAs[SellerRepository](u, uow.RepositoryName(repoargs.SellerRepoName))
	if sellerErr != nil {
		return nil, sellerErr //nolint:wrapcheck
	}
	return &OrderService{
		uow:        u,
		orderRepo:  orderRepo,
		sellerRepo: sellerRepo,
		fees:       fees,
		newGroupID: uuid.New,
	}, nil
}

// SplitCart groups cart lines by seller in first-seen order and prices every seller order with one fee percent.
func (o *OrderService) SplitCart(cart domain.Cart, feePercent decimal.Decimal) ([]repoargs.CreateOrder, error) {
	return o.splitCart(cart, func(int64) (decimal.Decimal, error) { return feePercent, nil })
}

// SplitCartAndCreateOrders persists the seller orders of one checkout in a single unit of work.
// A nil feePercent resolves the fee per seller through the fee schedule.
func (o *OrderService) SplitCartAndCreateOrders(
	ctx context.Context,
	cart domain.Cart,
	feePercent *decimal.Decimal,
) ([]domain.Order, error) {
	feeFor := func(sellerID int64) (decimal.Decimal, error) {
		if feePercent != nil {
			return *feePercent, nil
		}
		seller, err := o.sellerRepo.GetByID(ctx, sellerID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("resolving fee of seller %d: %w", sellerID, err)
		}
		return o.fees.ResolvePercent(seller), nil
	}

	split, splitErr := o.splitCart(cart, feeFor)
	if splitErr != nil {
		return nil, splitErr
	}

	var orders = make([]domain.Order, 0, len(split))
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		for _, args := range split {
			order, createErr := repo.CreateOrder(c, args)
			if createErr != nil {
				return createErr //nolint:wrapcheck
			}
			orders = append(orders, *order)
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating orders of buyer %d: %w", cart.BuyerID, txErr)
	}
	return orders, nil
}

// GetOrderGroup returns the sibling orders of a checkout. Only the buyer may read them.
func (o *OrderService) GetOrderGroup(ctx context.Context, groupID uuid.UUID, buyerID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if orders[0].BuyerID != buyerID {
		return nil, domain.ErrOwnerConflict
	}
	return orders, nil
}

func (o *OrderService) splitCart(
	cart domain.Cart,
	feeFor func(sellerID int64) (decimal.Decimal, error),
) ([]repoargs.CreateOrder, error) {
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	groupID := o.newGroupID()
	var (
		split   = make([]repoargs.CreateOrder, 0)
		indexOf = make(map[int64]int)
	)
	for _, item := range cart.Items {
		if err := validateCartItem(item); err != nil {
			return nil, err
		}
		idx, ok := indexOf[item.SellerID]
		if !ok {
			idx = len(split)
			indexOf[item.SellerID] = idx
			split = append(split, repoargs.CreateOrder{
				OrderGroupID: groupID,
				BuyerID:      cart.BuyerID,
				SellerID:     item.SellerID,
				Subtotal:     decimal.Zero,
				Currency:     cart.Currency,
				Items:        make([]repoargs.CreateOrderItem, 0),
			})
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		split[idx].Subtotal = split[idx].Subtotal.Add(lineTotal)
		split[idx].Items = append(split[idx].Items, repoargs.CreateOrderItem{
			Product:  item.Product,
			Price:    item.Price,
			Quantity: item.Quantity,
			Total:    lineTotal,
		})
	}

	for i := range split {
		percent, err := feeFor(split[i].SellerID)
		if err != nil {
			return nil, err
		}
		if percent.IsNegative() || percent.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: fee percent %s", domain.ErrInvalidInput, percent)
		}
		split[i].PlatformFee = percentOf(split[i].Subtotal, percent)
		split[i].SellerPayout = split[i].Subtotal.Sub(split[i].PlatformFee)
		split[i].Total = split[i].Subtotal
	}
	return split, nil
}

func validateCartItem(item domain.CartItem) error {
	switch {
	case item.SellerID <= 0:
		return fmt.Errorf("%w: seller id is required", domain.ErrInvalidInput)
	case !item.Product.Kind.Valid():
		return fmt.Errorf("%w: unknown product kind %q", domain.ErrInvalidInput, item.Product.Kind)
	case item.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	case !item.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidAmount)
	case !item.Price.Equal(item.Price.Round(2)):
		return fmt.Errorf("%w: price %s has more than two decimal places", domain.ErrInvalidAmount, item.Price)
	}
	return nil
}
