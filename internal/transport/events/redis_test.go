package events

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type fakeStream struct {
	added []*redis.XAddArgs
	fail  map[domain.EventType]error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if err := f.fail[domain.EventType(a.Values.(map[string]any)["type"].(string))]; err != nil {
		cmd.SetErr(err)
		return cmd
	}
	f.added = append(f.added, a)
	cmd.SetVal("1-0")
	return cmd
}

type PublisherTestSuite struct {
	suite.Suite
	stream    *fakeStream
	publisher *RedisPublisher
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}

func (s *PublisherTestSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.stream = &fakeStream{fail: map[domain.EventType]error{}}
	s.publisher = &RedisPublisher{
		rdb:    s.stream,
		stream: DefaultStream,
		maxLen: defaultStreamMaxLen,
		l:      logger.WithField("module", "events"),
	}
}

func (s *PublisherTestSuite) TestEncodeEvent() {
	orderID := int64(42)
	occurred := time.Date(2026, 3, 10, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	values := encodeEvent(domain.LedgerEvent{
		Type:          domain.EventSaleCredited,
		WalletID:      1,
		UserID:        100,
		TransactionID: 7,
		OrderID:       &orderID,
		Amount:        decimal.RequireFromString("45.5"),
		Currency:      "USD",
		OccurredAt:    occurred,
	})

	s.Equal(map[string]any{
		"type":           "sale_credited",
		"wallet_id":      "1",
		"user_id":        "100",
		"transaction_id": "7",
		"order_id":       "42",
		"amount":         "45.50",
		"currency":       "USD",
		"occurred_at":    "2026-03-10T09:00:00Z",
	}, values)

	_, hasOrder := encodeEvent(domain.LedgerEvent{Type: domain.EventDepositCompleted})["order_id"]
	s.False(hasOrder)
}

func (s *PublisherTestSuite) TestPublishTrimsStream() {
	err := s.publisher.Publish(s.T().Context(),
		domain.LedgerEvent{Type: domain.EventDepositCompleted, Amount: decimal.NewFromInt(10)},
		domain.LedgerEvent{Type: domain.EventBonusCredited, Amount: decimal.NewFromInt(5)},
	)
	s.Require().NoError(err)
	s.Require().Len(s.stream.added, 2)
	for _, args := range s.stream.added {
		s.Equal(DefaultStream, args.Stream)
		s.Equal(int64(defaultStreamMaxLen), args.MaxLen)
		s.True(args.Approx)
	}
}

func (s *PublisherTestSuite) TestPublishKeepsGoingAfterFailure() {
	s.stream.fail[domain.EventDepositCompleted] = errors.New("READONLY")

	err := s.publisher.Publish(s.T().Context(),
		domain.LedgerEvent{Type: domain.EventDepositCompleted},
		domain.LedgerEvent{Type: domain.EventHoldReleased},
	)
	s.Require().Error(err)
	s.Contains(err.Error(), "publish deposit_completed")
	s.Require().Len(s.stream.added, 1)
	s.Equal("hold_released", s.stream.added[0].Values.(map[string]any)["type"])
}
