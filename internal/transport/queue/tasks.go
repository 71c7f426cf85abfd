// Package queue schedules and processes delayed seller transfer retries on asynq.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeTransferRetry = "transfer:retry"
	QueuePayments     = "payments"
)

type TransferRetryPayload struct {
	OrderID int64 `json:"order_id"`
}

func NewTransferRetryTask(orderID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(TransferRetryPayload{OrderID: orderID})
	if err != nil {
		return nil, fmt.Errorf("encode transfer retry payload: %w", err)
	}
	return asynq.NewTask(TypeTransferRetry, payload), nil
}

func transferRetryTaskID(orderID int64) string {
	return fmt.Sprintf("transfer-retry-%d", orderID)
}
