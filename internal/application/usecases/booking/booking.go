package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	bdomain "ticketing/internal/domain/bookings"
	cdomain "ticketing/internal/domain/customers"
	idomain "ticketing/internal/domain/inventory"
	"ticketing/internal/entities"
)

//go:generate mockgen -destination=mocks/mock_customers_repo.go -package=mocks ticketing/internal/application/usecases/booking CustomersRepo
type CustomersRepo interface {
	GetCustomer(ctx context.Context, id int64) (cdomain.Customer, error)
}

//go:generate mockgen -destination=mocks/mock_inventory_reader.go -package=mocks ticketing/internal/application/usecases/booking InventoryReader
type InventoryReader interface {
	ReadCapacity(ctx context.Context, eventID int64) (idomain.Event, error)
}

//go:generate mockgen -destination=mocks/mock_event_publisher.go -package=mocks ticketing/internal/application/usecases/booking EventPublisher
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type SubmitBookingUsecase struct {
	customers   CustomersRepo
	inventory   InventoryReader
	publisher   EventPublisher
	readTimeout time.Duration
	now         func() time.Time
}

func NewSubmitBookingUsecase(
	customers CustomersRepo,
	inventory InventoryReader,
	publisher EventPublisher,
	readTimeout time.Duration,
) *SubmitBookingUsecase {
	return &SubmitBookingUsecase{
		customers:   customers,
		inventory:   inventory,
		publisher:   publisher,
		readTimeout: readTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SubmitBooking admits a booking against the capacity observed right now and publishes
// it keyed by event id. A confirmation only means the booking was admitted: a concurrent
// booking for the same event may pass the same check, and the oversell is settled when
// the decrement is applied by the order service.
func (u *SubmitBookingUsecase) SubmitBooking(ctx context.Context, booking bdomain.Booking) (bdomain.Confirmation, error) {
	if booking.TicketCount <= 0 {
		return bdomain.Confirmation{}, fmt.Errorf("ticket count %d: %w", booking.TicketCount, bdomain.ErrInvalidTicketCount)
	}

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"customer_id":  booking.CustomerID,
		"event_id":     booking.EventID,
		"ticket_count": booking.TicketCount,
	})

	if _, err := u.customers.GetCustomer(ctx, booking.CustomerID); err != nil {
		return bdomain.Confirmation{}, fmt.Errorf("failed to get customer: %w", err)
	}

	event, err := u.readCapacity(ctx, booking.EventID)
	if err != nil {
		return bdomain.Confirmation{}, err
	}

	if booking.TicketCount > event.RemainingCapacity {
		logger.WithField("remaining", event.RemainingCapacity).Info("Booking rejected, not enough tickets")
		return bdomain.Confirmation{}, fmt.Errorf(
			"tickets available: %d, requested: %d, %w",
			event.RemainingCapacity,
			booking.TicketCount,
			bdomain.ErrInsufficientInventory,
		)
	}

	confirmation := bdomain.Confirmation{
		BookingID:   uuid.New(),
		CustomerID:  booking.CustomerID,
		EventID:     booking.EventID,
		TicketCount: booking.TicketCount,
		TotalPrice:  bdomain.TotalPrice(event.TicketPrice, booking.TicketCount),
		BookedAt:    u.now(),
	}

	err = u.publisher.Publish(ctx, &entities.BookingMade_v1{
		Header:      entities.NewEventHeaderWithIdempotencyKey(confirmation.BookingID.String()),
		BookingID:   confirmation.BookingID,
		CustomerID:  confirmation.CustomerID,
		EventID:     confirmation.EventID,
		TicketCount: confirmation.TicketCount,
		TotalPrice:  confirmation.TotalPrice,
		BookedAt:    confirmation.BookedAt,
	})
	if err != nil {
		return bdomain.Confirmation{}, fmt.Errorf("failed to publish booking: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"booking_id":  confirmation.BookingID,
		"total_price": confirmation.TotalPrice.StringFixed(2),
	}).Info("Booking published")

	return confirmation, nil
}

// readCapacity fails closed: any failure other than an unknown event, including the
// read timeout, is reported as ErrInventoryCheckFailed.
func (u *SubmitBookingUsecase) readCapacity(ctx context.Context, eventID int64) (idomain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, u.readTimeout)
	defer cancel()

	event, err := u.inventory.ReadCapacity(ctx, eventID)
	if errors.Is(err, idomain.ErrEventNotFound) {
		return idomain.Event{}, fmt.Errorf("failed to read capacity: %w", err)
	}
	if err != nil {
		return idomain.Event{}, fmt.Errorf("%w: %w", bdomain.ErrInventoryCheckFailed, err)
	}

	return event, nil
}
