package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	domain "ticketing/internal/domain/orders"
)

type OrdersRepo struct {
	db *sqlx.DB
}

func NewOrdersRepo(db *sqlx.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

const selectOrders = `
	SELECT
		id, booking_id, customer_id, event_id, ticket_count, total_price, created_at,
		status, oversold_by, reconciliation_reason
	FROM orders`

// CreateIfNotExists inserts the order unless one already exists for its booking. The
// stored order is returned in both cases; created tells which one happened.
func (r *OrdersRepo) CreateIfNotExists(ctx context.Context, order domain.Order) (domain.Order, bool, error) {
	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO orders (
			id, booking_id, customer_id, event_id, ticket_count, total_price, created_at, status
		) VALUES (
			:id, :booking_id, :customer_id, :event_id, :ticket_count, :total_price, :created_at, :status
		) ON CONFLICT (booking_id) DO NOTHING`, order)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to create order: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to create order: %w", err)
	}

	stored, err := r.GetByBookingID(ctx, order.BookingID)
	if err != nil {
		return domain.Order{}, false, err
	}

	return stored, inserted == 1, nil
}

func (r *OrdersRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Order, error) {
	var order domain.Order

	err := r.db.GetContext(ctx, &order, selectOrders+` WHERE booking_id = $1`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("booking %s: %w", bookingID, domain.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *OrdersRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	orders := []domain.Order{}

	err := r.db.SelectContext(ctx, &orders, selectOrders+` WHERE status = $1 ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepo) MarkFulfilled(ctx context.Context, bookingID uuid.UUID) error {
	return r.complete(ctx, bookingID, domain.StatusFulfilled, 0, "")
}

func (r *OrdersRepo) MarkReconciliation(ctx context.Context, bookingID uuid.UUID, oversoldBy int64, reason string) error {
	return r.complete(ctx, bookingID, domain.StatusReconciliation, oversoldBy, reason)
}

// complete moves a pending order to its final state. Orders that already left pending
// are not touched, which keeps redelivered records from rewriting the outcome.
func (r *OrdersRepo) complete(
	ctx context.Context,
	bookingID uuid.UUID,
	status domain.Status,
	oversoldBy int64,
	reason string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, oversold_by = $3, reconciliation_reason = $4, updated_at = NOW()
		WHERE booking_id = $1 AND status = $5`,
		bookingID,
		status,
		oversoldBy,
		reason,
		domain.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if updated == 0 {
		_, err := r.GetByBookingID(ctx, bookingID)
		return err
	}

	return nil
}
