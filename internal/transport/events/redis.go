// Package events publishes committed ledger events to a Redis stream.
package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultStream       = "ledger:events"
	defaultStreamMaxLen = 100_000
)

// ConnectRedis opens a client and checks it with PING.
func ConnectRedis(ctx context.Context, addr, password string) (redis.UniversalClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DialTimeout:     time.Second,
		ReadTimeout:     500 * time.Millisecond,
		WriteTimeout:    500 * time.Millisecond,
		PoolTimeout:     time.Second,
		ConnMaxIdleTime: 90 * time.Second,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 200 * time.Millisecond,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			_ = cn.ClientSetName(ctx, "groph-ledger").Err()
			return nil
		},
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

type streamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisPublisher appends every event as one stream entry. The stream is trimmed approximately to maxLen.
type RedisPublisher struct {
	rdb    streamWriter
	stream string
	maxLen int64
	l      *logrus.Entry
}

func NewRedisPublisher(rdb redis.UniversalClient, l *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb:    rdb,
		stream: DefaultStream,
		maxLen: defaultStreamMaxLen,
		l:      l.WithField("module", "events"),
	}
}

func (p *RedisPublisher) SetStream(stream string) *RedisPublisher {
	p.stream = stream
	return p
}

func (p *RedisPublisher) SetMaxLen(maxLen int64) *RedisPublisher {
	p.maxLen = maxLen
	return p
}

// Publish writes the events in order. A failed entry does not stop the rest; all errors are joined.
func (p *RedisPublisher) Publish(ctx context.Context, events ...domain.LedgerEvent) error {
	var errs []error
	for _, event := range events {
		id, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: encodeEvent(event),
		}).Result()
		if err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", event.Type, err))
			continue
		}
		p.l.WithFields(logrus.Fields{
			"type":          event.Type,
			"entryID":       id,
			"transactionID": event.TransactionID,
		}).Debug("event published")
	}
	return errors.Join(errs...)
}

func encodeEvent(e domain.LedgerEvent) map[string]any {
	values := map[string]any{
		"type":           string(e.Type),
		"wallet_id":      strconv.FormatInt(e.WalletID, 10),
		"user_id":        strconv.FormatInt(e.UserID, 10),
		"transaction_id": strconv.FormatInt(e.TransactionID, 10),
		"amount":         e.Amount.StringFixed(2),
		"currency":       e.Currency,
		"occurred_at":    e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.OrderID != nil {
		values["order_id"] = strconv.FormatInt(*e.OrderID, 10)
	}
	return values
}
