package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	idomain "ticketing/internal/domain/inventory"
	odomain "ticketing/internal/domain/orders"
	"ticketing/internal/entities"
	"ticketing/internal/observability"
)

type OrdersRepo interface {
	CreateIfNotExists(ctx context.Context, order odomain.Order) (odomain.Order, bool, error)
	MarkFulfilled(ctx context.Context, bookingID uuid.UUID) error
	MarkReconciliation(ctx context.Context, bookingID uuid.UUID, oversoldBy int64, reason string) error
}

type InventoryDecrementer interface {
	Decrement(ctx context.Context, eventID, count int64, idempotencyKey string) (idomain.DecrementResult, error)
}

type FulfillBookingUsecase struct {
	orders           OrdersRepo
	inventory        InventoryDecrementer
	decrementTimeout time.Duration
	now              func() time.Time
}

func NewFulfillBookingUsecase(
	orders OrdersRepo,
	inventory InventoryDecrementer,
	decrementTimeout time.Duration,
) *FulfillBookingUsecase {
	return &FulfillBookingUsecase{
		orders:           orders,
		inventory:        inventory,
		decrementTimeout: decrementTimeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// FulfillBooking persists the order for a delivered booking record and applies the
// matching decrement. It is safe to call any number of times for the same record: the
// order is keyed by booking id and the decrement by the record's idempotency key.
//
// A returned error means the delivery must not be acknowledged.
func (u *FulfillBookingUsecase) FulfillBooking(ctx context.Context, event *entities.BookingMade_v1) (odomain.Outcome, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":   event.BookingID,
		"event_id":     event.EventID,
		"ticket_count": event.TicketCount,
	})

	order, created, err := u.orders.CreateIfNotExists(ctx, odomain.Order{
		ID:          uuid.New(),
		BookingID:   event.BookingID,
		CustomerID:  event.CustomerID,
		EventID:     event.EventID,
		TicketCount: event.TicketCount,
		TotalPrice:  event.TotalPrice,
		CreatedAt:   u.now(),
		Status:      odomain.StatusPending,
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist order: %w", err)
	}

	if order.Status != odomain.StatusPending {
		logger.WithField("status", order.Status).Info("Booking already fulfilled, skipping")
		observability.FulfillmentOutcomesTotal.WithLabelValues(string(odomain.OutcomeDuplicate)).Inc()
		return odomain.OutcomeDuplicate, nil
	}
	if !created {
		logger.Info("Resuming fulfillment of a pending order")
	}

	result, err := u.decrement(ctx, event)
	if errors.Is(err, idomain.ErrEventNotFound) {
		if err := u.orders.MarkReconciliation(ctx, event.BookingID, 0, odomain.ReasonEventNotFound); err != nil {
			return "", fmt.Errorf("failed to flag order for reconciliation: %w", err)
		}

		logger.Warn("Event no longer exists, order flagged for reconciliation")
		observability.FulfillmentOutcomesTotal.WithLabelValues(string(odomain.OutcomeReconciliation)).Inc()
		return odomain.OutcomeReconciliation, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to decrement inventory: %w", err)
	}

	if result.Oversold() {
		if err := u.orders.MarkReconciliation(ctx, event.BookingID, result.OversoldBy, odomain.ReasonOversold); err != nil {
			return "", fmt.Errorf("failed to flag order for reconciliation: %w", err)
		}

		logger.WithField("oversold_by", result.OversoldBy).Warn("Event oversold, order flagged for reconciliation")
		observability.FulfillmentOutcomesTotal.WithLabelValues(string(odomain.OutcomeReconciliation)).Inc()
		return odomain.OutcomeReconciliation, nil
	}

	if err := u.orders.MarkFulfilled(ctx, event.BookingID); err != nil {
		return "", fmt.Errorf("failed to mark order fulfilled: %w", err)
	}

	logger.WithField("remaining", result.Remaining).Info("Order fulfilled")
	observability.FulfillmentOutcomesTotal.WithLabelValues(string(odomain.OutcomeFulfilled)).Inc()

	return odomain.OutcomeFulfilled, nil
}

func (u *FulfillBookingUsecase) decrement(ctx context.Context, event *entities.BookingMade_v1) (idomain.DecrementResult, error) {
	ctx, cancel := context.WithTimeout(ctx, u.decrementTimeout)
	defer cancel()

	return u.inventory.Decrement(ctx, event.EventID, event.TicketCount, event.IdempotencyKey())
}
