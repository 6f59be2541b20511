package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	domain "ticketing/internal/domain/orders"
)

type OrdersRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]domain.Order
}

func NewOrdersRepo() *OrdersRepo {
	return &OrdersRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func (r *OrdersRepo) CreateIfNotExists(_ context.Context, order domain.Order) (domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.orders[order.BookingID]; ok {
		return existing, false, nil
	}
	r.orders[order.BookingID] = order

	return order, true, nil
}

func (r *OrdersRepo) GetByBookingID(_ context.Context, bookingID uuid.UUID) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[bookingID]
	if !ok {
		return domain.Order{}, fmt.Errorf("booking %s: %w", bookingID, domain.ErrOrderNotFound)
	}

	return order, nil
}

func (r *OrdersRepo) ListByStatus(_ context.Context, status domain.Status) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []domain.Order{}
	for _, o := range r.orders {
		if o.Status == status {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	return orders, nil
}

func (r *OrdersRepo) MarkFulfilled(ctx context.Context, bookingID uuid.UUID) error {
	return r.complete(bookingID, domain.StatusFulfilled, 0, "")
}

func (r *OrdersRepo) MarkReconciliation(ctx context.Context, bookingID uuid.UUID, oversoldBy int64, reason string) error {
	return r.complete(bookingID, domain.StatusReconciliation, oversoldBy, reason)
}

func (r *OrdersRepo) complete(bookingID uuid.UUID, status domain.Status, oversoldBy int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, domain.ErrOrderNotFound)
	}
	if order.Status != domain.StatusPending {
		return nil
	}

	order.Status = status
	order.OversoldBy = oversoldBy
	order.ReconciliationReason = reason
	r.orders[bookingID] = order

	return nil
}
