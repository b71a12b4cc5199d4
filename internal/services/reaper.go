package services

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/scheduler"

	"go.uber.org/zap"
)

const DefaultAbandonTimeout = 30 * time.Minute

// OrderReaper cancels UPI orders that never completed payment.
type OrderReaper struct {
	repo   repository.OrderRepository
	orders *OrderService
	clock  scheduler.Clock
	logger *zap.Logger
}

func NewOrderReaper(repo repository.OrderRepository, orders *OrderService, clock scheduler.Clock, logger *zap.Logger) *OrderReaper {
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderReaper{repo: repo, orders: orders, clock: clock, logger: logger}
}

// Sweep cancels every pending UPI order created more than timeout ago and
// returns the orders it cancelled. A failure on one order does not stop the
// rest.
func (r *OrderReaper) Sweep(ctx context.Context, timeout time.Duration) ([]domain.Order, error) {
	if timeout <= 0 {
		timeout = DefaultAbandonTimeout
	}
	cutoff := r.clock.Now().Add(-timeout)

	stale, err := r.repo.FindAbandoned(ctx, domain.PaymentUPI, cutoff)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("Payment timeout - order abandoned after %d minutes", int(timeout/time.Minute))
	cancelled := make([]domain.Order, 0, len(stale))
	for _, o := range stale {
		if err := ctx.Err(); err != nil {
			return cancelled, err
		}
		done, err := r.orders.Cancel(ctx, o.ID, reason)
		if err != nil {
			r.logger.Warn("abandoned order not cancelled", zap.Uint64("order_id", o.ID), zap.Error(err))
			continue
		}
		cancelled = append(cancelled, *done)
	}

	if len(stale) > 0 {
		r.logger.Info("abandoned orders swept",
			zap.Int("found", len(stale)),
			zap.Int("cancelled", len(cancelled)),
			zap.Duration("timeout", timeout),
		)
	}
	return cancelled, nil
}

// Task adapts Sweep for the scheduler.
func (r *OrderReaper) Task(timeout time.Duration) scheduler.Task {
	return func(ctx context.Context) error {
		_, err := r.Sweep(ctx, timeout)
		return err
	}
}
