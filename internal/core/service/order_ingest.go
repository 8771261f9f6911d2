package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailbridge/stylesync/internal/core/domain"
	"github.com/retailbridge/stylesync/internal/port"
)

// OrderIngestor pushes storefront sales back into the record system. In
// direct mode each line item decrements stock inline, fire-and-forget. With
// a queue attached, decrements are enqueued durably and drained by
// RunWorker with bounded retries and a dead-letter parking spot.
type OrderIngestor struct {
	rms         port.RecordSystem
	queue       port.DecrementQueue // nil selects direct mode
	tenantID    int64
	maxAttempts int
	log         *zap.Logger
}

func NewOrderIngestor(rms port.RecordSystem, queue port.DecrementQueue, tenantID int64, maxAttempts int, log *zap.Logger) *OrderIngestor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &OrderIngestor{
		rms:         rms,
		queue:       queue,
		tenantID:    tenantID,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// HandleOrderCreated iterates the order's line items and issues one stock
// decrement per SKU-bearing line. It never returns an error: a line
// without a SKU is skipped with a warning and a failed decrement is only
// logged, so the storefront always gets its acknowledgment.
func (s *OrderIngestor) HandleOrderCreated(ctx context.Context, order domain.WebOrder) {
	s.log.Info("received web order", zap.String("order", order.ID), zap.Int("lines", len(order.LineItems)))

	for _, line := range order.LineItems {
		if line.SKU == "" {
			s.log.Warn("order line missing sku, skipping", zap.String("order", order.ID))
			continue
		}

		if s.queue != nil {
			job := port.StockDecrement{
				ID:         uuid.NewString(),
				TenantID:   s.tenantID,
				SKU:        line.SKU,
				Quantity:   line.Quantity,
				EnqueuedAt: time.Now(),
			}
			if err := s.queue.Enqueue(ctx, job); err != nil {
				s.log.Error("enqueue decrement failed", zap.String("sku", line.SKU), zap.Error(err))
			}
			continue
		}

		s.decrement(ctx, line.SKU, line.Quantity)
	}
}

// RunWorker drains the decrement queue until ctx is cancelled. A job whose
// decrement fails goes back on the queue with its attempt count bumped;
// once the budget is spent it is dead-lettered instead of dropped.
func (s *OrderIngestor) RunWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := s.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("dequeue failed", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}

		if s.decrement(ctx, job.SKU, job.Quantity) {
			continue
		}

		job.Attempts++
		if job.Attempts >= s.maxAttempts {
			s.log.Error("decrement exhausted retries, dead-lettering",
				zap.String("sku", job.SKU), zap.Int("attempts", job.Attempts))
			if err := s.queue.DeadLetter(ctx, *job); err != nil {
				s.log.Error("dead-letter failed", zap.String("sku", job.SKU), zap.Error(err))
			}
			continue
		}
		if err := s.queue.Enqueue(ctx, *job); err != nil {
			s.log.Error("requeue failed", zap.String("sku", job.SKU), zap.Error(err))
		}
	}
}

// decrement reports whether the job is settled. An unknown SKU is a skip,
// not a failure: retrying it would never succeed. Insufficient stock is
// retryable and stays unsettled so the worker requeues and eventually
// dead-letters it.
func (s *OrderIngestor) decrement(ctx context.Context, sku string, qty int) bool {
	ok, err := s.rms.DecrementItemStock(ctx, sku, qty)
	if errors.Is(err, port.ErrInsufficientStock) {
		s.log.Warn("stock decrement refused, insufficient stock",
			zap.String("sku", sku), zap.Int("qty", qty))
		return false
	}
	if err != nil {
		s.log.Error("stock decrement failed", zap.String("sku", sku), zap.Error(err))
		return false
	}
	if !ok {
		s.log.Warn("stock decrement skipped, sku unknown", zap.String("sku", sku))
		return true
	}
	s.log.Info("stock decremented", zap.String("sku", sku), zap.Int("qty", qty))
	return true
}
