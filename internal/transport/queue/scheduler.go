package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const defaultMaxRetry = 8

// Scheduler enqueues transfer retries. One order has at most one retry waiting in the queue.
type Scheduler struct {
	client   Enqueuer
	maxRetry int
	l        *logrus.Entry
}

func NewScheduler(client Enqueuer, l *logrus.Logger) *Scheduler {
	return &Scheduler{
		client:   client,
		maxRetry: defaultMaxRetry,
		l: l.WithFields(logrus.Fields{
			"component": "queue",
			"module":    "scheduler",
		}),
	}
}

func (s *Scheduler) SetMaxRetry(maxRetry int) *Scheduler {
	s.maxRetry = maxRetry
	return s
}

func (s *Scheduler) ScheduleTransferRetry(ctx context.Context, orderID int64, delay time.Duration) error {
	task, err := NewTransferRetryTask(orderID)
	if err != nil {
		return err
	}

	info, enqueueErr := s.client.EnqueueContext(ctx, task,
		asynq.Queue(QueuePayments),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(s.maxRetry),
		asynq.TaskID(transferRetryTaskID(orderID)),
	)
	if enqueueErr != nil {
		if errors.Is(enqueueErr, asynq.ErrTaskIDConflict) {
			s.l.WithField("orderID", orderID).Debug("transfer retry already scheduled")
			return nil
		}
		return fmt.Errorf("schedule transfer retry for order %d: %w", orderID, enqueueErr)
	}

	s.l.WithFields(logrus.Fields{
		"orderID": orderID,
		"taskID":  info.ID,
		"delay":   delay,
	}).Info("transfer retry scheduled")
	return nil
}
