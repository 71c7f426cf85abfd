package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	serviceSuite
	service *OrderService
	groupID uuid.UUID
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	service, err := NewOrderService(s.mockUOW, DefaultFeeSchedule(decimal.NewFromInt(10)))
	s.Require().NoError(err)
	s.groupID = uuid.New()
	service.newGroupID = func() uuid.UUID { return s.groupID }
	s.service = service
}

func twoSellerCart() domain.Cart {
	return domain.Cart{
		BuyerID:  1,
		Currency: "USD",
		Items: []domain.CartItem{
			{SellerID: 100, Product: domain.ProductRef{Kind: domain.ProductKindItem, ID: 1}, Price: dec("40"), Quantity: 1},
			{SellerID: 200, Product: domain.ProductRef{Kind: domain.ProductKindCurrency, ID: 2}, Price: dec("20"), Quantity: 3},
		},
	}
}

func (s *OrderServiceTestSuite) TestSplitCart() {
	split, err := s.service.SplitCart(twoSellerCart(), decimal.NewFromInt(10))
	s.Require().NoError(err)
	s.Require().Len(split, 2)

	want := []struct {
		sellerID int64
		subtotal string
		fee      string
		payout   string
	}{
		{sellerID: 100, subtotal: "40", fee: "4", payout: "36"},
		{sellerID: 200, subtotal: "60", fee: "6", payout: "54"},
	}
	for i, w := range want {
		s.Equal(w.sellerID, split[i].SellerID)
		s.Equal(s.groupID, split[i].OrderGroupID)
		s.True(split[i].Subtotal.Equal(dec(w.subtotal)), split[i].Subtotal.String())
		s.True(split[i].PlatformFee.Equal(dec(w.fee)), split[i].PlatformFee.String())
		s.True(split[i].SellerPayout.Equal(dec(w.payout)), split[i].SellerPayout.String())
		s.True(split[i].Total.Equal(split[i].Subtotal))
	}
	s.True(split[1].Items[0].Total.Equal(dec("60")))
}

func (s *OrderServiceTestSuite) TestSplitCartKeepsSellerOrderAndSums() {
	cart := domain.Cart{BuyerID: 1, Currency: "USD"}
	sellers := []int64{7, 3, 7, 9, 3}
	total := decimal.Zero
	for i, sellerID := range sellers {
		price := decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2)
		quantity := gofakeit.Number(1, 5)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
		cart.Items = append(cart.Items, domain.CartItem{
			SellerID: sellerID,
			Product:  domain.ProductRef{Kind: domain.ProductKindService, ID: int64(i + 1)},
			Price:    price,
			Quantity: quantity,
		})
	}

	split, err := s.service.SplitCart(cart, dec("7.5"))
	s.Require().NoError(err)
	s.Require().Len(split, 3)
	s.Equal([]int64{7, 3, 9}, []int64{split[0].SellerID, split[1].SellerID, split[2].SellerID})

	sum := decimal.Zero
	for _, order := range split {
		sum = sum.Add(order.Subtotal)
		s.True(order.PlatformFee.Add(order.SellerPayout).Equal(order.Subtotal))
	}
	s.True(sum.Equal(cart.Total()))
	s.True(sum.Equal(total))
}

func (s *OrderServiceTestSuite) TestSplitCartValidation() {
	product := domain.ProductRef{Kind: domain.ProductKindItem, ID: 1}
	cases := []struct {
		name    string
		items   []domain.CartItem
		fee     decimal.Decimal
		wantErr error
	}{
		{name: "empty cart", fee: dec("10"), wantErr: domain.ErrInvalidInput},
		{
			name:    "zero quantity",
			items:   []domain.CartItem{{SellerID: 1, Product: product, Price: dec("5")}},
			fee:     dec("10"),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative price",
			items:   []domain.CartItem{{SellerID: 1, Product: product, Price: dec("-5"), Quantity: 1}},
			fee:     dec("10"),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "zero price",
			items: []domain.CartItem{
				{SellerID: 1, Product: product, Price: dec("5"), Quantity: 1},
				{SellerID: 1, Product: product, Price: decimal.Zero, Quantity: 1},
			},
			fee:     dec("10"),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "sub cent price",
			items:   []domain.CartItem{{SellerID: 1, Product: product, Price: dec("4.999"), Quantity: 2}},
			fee:     dec("10"),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown product kind",
			items: []domain.CartItem{
				{SellerID: 1, Product: domain.ProductRef{Kind: "bundle"}, Price: dec("5"), Quantity: 1},
			},
			fee:     dec("10"),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "fee above 100",
			items:   []domain.CartItem{{SellerID: 1, Product: product, Price: dec("5"), Quantity: 1}},
			fee:     dec("101"),
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.service.SplitCart(domain.Cart{BuyerID: 1, Currency: "USD", Items: t.items}, t.fee)
			s.Require().ErrorIs(err, t.wantErr)
		})
	}
}

func (s *OrderServiceTestSuite) TestSplitCartAndCreateOrders() {
	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(100)).
		Return(&domain.Seller{ID: 100, SubscriptionTier: "pro"}, nil)
	s.sellerRepo.EXPECT().GetByID(gomock.Any(), int64(200)).
		Return(&domain.Seller{ID: 200}, nil)

	var nextID int64
	s.orderRepo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
			nextID++
			return &domain.Order{
				ID:            nextID,
				OrderGroupID:  args.OrderGroupID,
				BuyerID:       args.BuyerID,
				SellerID:      args.SellerID,
				Subtotal:      args.Subtotal,
				PlatformFee:   args.PlatformFee,
				SellerPayout:  args.SellerPayout,
				Total:         args.Total,
				Currency:      args.Currency,
				PaymentStatus: domain.PaymentStatusPending,
				Status:        domain.OrderStatusPending,
			}, nil
		}).Times(2)
	s.expectDo()

	orders, err := s.service.SplitCartAndCreateOrders(s.T().Context(), twoSellerCart(), nil)
	s.Require().NoError(err)
	s.Require().Len(orders, 2)

	// pro subscription pays 7%, the other seller the default 10%
	s.True(orders[0].PlatformFee.Equal(dec("2.8")), orders[0].PlatformFee.String())
	s.True(orders[1].PlatformFee.Equal(dec("6")), orders[1].PlatformFee.String())
	s.Equal(orders[0].OrderGroupID, orders[1].OrderGroupID)
}

func (s *OrderServiceTestSuite) TestGetOrderGroup() {
	s.orderRepo.EXPECT().GetByGroupID(gomock.Any(), s.groupID).
		Return([]domain.Order{{ID: 1, BuyerID: 1}, {ID: 2, BuyerID: 1}}, nil).Times(2)

	orders, err := s.service.GetOrderGroup(s.T().Context(), s.groupID, 1)
	s.Require().NoError(err)
	s.Len(orders, 2)

	_, strangerErr := s.service.GetOrderGroup(s.T().Context(), s.groupID, 2)
	s.Require().ErrorIs(strangerErr, domain.ErrOwnerConflict)
}
