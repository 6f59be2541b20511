package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domain "ticketing/internal/domain/inventory"
	"ticketing/internal/idempotency"
)

type InventoryService interface {
	ReadCapacity(ctx context.Context, eventID int64) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetVenue(ctx context.Context, venueID int64) (domain.Venue, error)
	CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	Decrement(ctx context.Context, eventID, count int64, idempotencyKey string) (domain.DecrementResult, error)
}

type CreateVenueRequest struct {
	Name          string `json:"venue_name" validate:"required"`
	TotalCapacity int64  `json:"total_capacity" validate:"gte=0"`
}

type CreateEventRequest struct {
	Name        string          `json:"event" validate:"required"`
	VenueID     int64           `json:"venue_id" validate:"required"`
	Capacity    int64           `json:"capacity" validate:"gte=0"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
}

type DecrementRequest struct {
	Count          int64  `json:"count" validate:"gt=0"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (s *Server) ListEventsHandler(c echo.Context) error {
	events, err := s.inventory.ListEvents(c.Request().Context())
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, events)
}

func (s *Server) GetEventHandler(c echo.Context) error {
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}

	event, err := s.inventory.ReadCapacity(c.Request().Context(), eventID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, event)
}

func (s *Server) CreateEventHandler(c echo.Context) error {
	var request CreateEventRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}
	if request.TicketPrice.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "ticket_price must not be negative")
	}

	event, err := s.inventory.CreateEvent(c.Request().Context(), domain.Event{
		Name:              request.Name,
		Venue:             domain.Venue{ID: request.VenueID},
		RemainingCapacity: request.Capacity,
		TicketPrice:       request.TicketPrice,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, event)
}

// DecrementHandler needs an idempotency key, from the header or the body; without one a
// retried request could be applied twice.
func (s *Server) DecrementHandler(c echo.Context) error {
	ctx := c.Request().Context()

	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}

	var request DecrementRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	key, ok := idempotency.FromContext(ctx)
	if !ok {
		key = request.IdempotencyKey
	}
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "idempotency key is required")
	}

	result, err := s.inventory.Decrement(ctx, eventID, request.Count, key)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) CreateVenueHandler(c echo.Context) error {
	var request CreateVenueRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	venue, err := s.inventory.CreateVenue(c.Request().Context(), domain.Venue{
		Name:          request.Name,
		TotalCapacity: request.TotalCapacity,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, venue)
}

func (s *Server) GetVenueHandler(c echo.Context) error {
	venueID, err := pathID(c, "venue_id")
	if err != nil {
		return err
	}

	venue, err := s.inventory.GetVenue(c.Request().Context(), venueID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, venue)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
