package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const defaultConcurrency = 4

// Handler retries one seller transfer per task. Errors that another attempt cannot fix skip the asynq retry.
type Handler struct {
	svc TransferRetrier
	l   *logrus.Entry
}

func NewHandler(svc TransferRetrier, l *logrus.Logger) *Handler {
	return &Handler{
		svc: svc,
		l: l.WithFields(logrus.Fields{
			"component": "queue",
			"module":    "handler",
		}),
	}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload TransferRetryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %s: %w", t.Type(), err.Error(), asynq.SkipRetry)
	}

	l := h.l.WithField("orderID", payload.OrderID)
	err := h.svc.RetryTransfer(ctx, payload.OrderID)
	switch {
	case err == nil:
		l.Info("transfer retried")
		return nil
	case isFinal(err):
		l.WithError(err).Warn("transfer retry abandoned")
		return fmt.Errorf("%w: %s", asynq.SkipRetry, err.Error())
	default:
		l.WithError(err).Warn("transfer retry failed")
		return err
	}
}

func (h *Handler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeTransferRetry, h)
	return mux
}

func isFinal(err error) bool {
	return errors.Is(err, domain.ErrProviderPermanent) ||
		errors.Is(err, domain.ErrSellerNotOnboarded) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrRecordNotFound)
}

// RetryDelay honours the provider's Retry-After and falls back to the asynq backoff.
func RetryDelay(n int, err error, t *asynq.Task) time.Duration {
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) && providerErr.RetryAfter > 0 {
		return providerErr.RetryAfter
	}
	return asynq.DefaultRetryDelayFunc(n, err, t)
}

func NewServer(opt asynq.RedisConnOpt, concurrency int, l *logrus.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency:     concurrency,
		Queues:          map[string]int{QueuePayments: 1},
		RetryDelayFunc:  RetryDelay,
		ShutdownTimeout: 10 * time.Second,
		Logger:          l.WithField("component", "asynq"),
	})
}
