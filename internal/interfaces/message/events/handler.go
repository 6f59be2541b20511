package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	odomain "ticketing/internal/domain/orders"
	"ticketing/internal/entities"
)

type BookingFulfiller interface {
	FulfillBooking(ctx context.Context, event *entities.BookingMade_v1) (odomain.Outcome, error)
}

type Handler struct {
	fulfiller BookingFulfiller
}

func NewHandler(fulfiller BookingFulfiller) *Handler {
	return &Handler{
		fulfiller: fulfiller,
	}
}

// FulfillBookingHandler acks the delivery only when the booking reached a final outcome.
func (h *Handler) FulfillBookingHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"fulfill_booking",
		func(ctx context.Context, event *entities.BookingMade_v1) error {
			_, err := h.fulfiller.FulfillBooking(ctx, event)
			return err
		},
	)
}
