package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	domain "ticketing/internal/domain/orders"
)

type OrdersReader interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Order, error)
}

func (s *Server) GetOrderHandler(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking_id")
	}

	order, err := s.orders.GetByBookingID(c.Request().Context(), bookingID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// ListOrdersHandler lists orders by status, reconciliation by default.
func (s *Server) ListOrdersHandler(c echo.Context) error {
	status := domain.Status(c.QueryParam("status"))
	if status == "" {
		status = domain.StatusReconciliation
	}
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, err := s.orders.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, orders)
}
