package port

import (
	"context"
	"time"
)

// StockDecrement is one pending stock write-back to the record system,
// produced by the webhook ingestor in queued mode.
type StockDecrement struct {
	ID         string    `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	SKU        string    `json:"sku"`
	Quantity   int       `json:"quantity"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// DecrementQueue is a durable at-least-once queue of stock decrements.
type DecrementQueue interface {
	// Enqueue appends a job to the work queue.
	Enqueue(ctx context.Context, job StockDecrement) error

	// Dequeue blocks up to the adapter's poll timeout and returns nil, nil
	// when no job arrived.
	Dequeue(ctx context.Context) (*StockDecrement, error)

	// DeadLetter parks a job that exhausted its retry budget.
	DeadLetter(ctx context.Context, job StockDecrement) error
}
