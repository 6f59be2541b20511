package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "ticketing/internal/domain/bookings"
	"ticketing/internal/observability"
)

type BookingSubmitter interface {
	SubmitBooking(ctx context.Context, booking domain.Booking) (domain.Confirmation, error)
}

type SubmitBookingRequest struct {
	CustomerID  int64 `json:"customer_id" validate:"required"`
	EventID     int64 `json:"event_id" validate:"required"`
	TicketCount int64 `json:"ticket_count" validate:"gt=0"`
}

func (s *Server) SubmitBookingHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request SubmitBookingRequest
	if err := bindAndValidate(c, &request); err != nil {
		observability.BookingsSubmittedTotal.WithLabelValues("invalid").Inc()
		return err
	}

	confirmation, err := s.bookings.SubmitBooking(ctx, domain.Booking{
		CustomerID:  request.CustomerID,
		EventID:     request.EventID,
		TicketCount: request.TicketCount,
	})
	if err != nil {
		observability.BookingsSubmittedTotal.WithLabelValues(bookingResult(err)).Inc()
		return mapError(err)
	}

	observability.BookingsSubmittedTotal.WithLabelValues("accepted").Inc()

	return c.JSON(http.StatusCreated, confirmation)
}

func bookingResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, domain.ErrInventoryCheckFailed):
		return "inventory_check_failed"
	}
	return "rejected"
}
