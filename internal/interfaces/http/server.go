package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticketing/internal/idempotency"
)

// Services lists what a process exposes over HTTP. Nil services get no routes.
type Services struct {
	Bookings  BookingSubmitter
	Customers CustomersService
	Inventory InventoryService
	Orders    OrdersReader
}

type Server struct {
	e    *echo.Echo
	addr string

	bookings  BookingSubmitter
	customers CustomersService
	inventory InventoryService
	orders    OrdersReader
}

func NewServer(
	e *echo.Echo,
	addr string,
	services Services,
	isReady func() bool,
) *Server {
	srv := &Server{
		e:         e,
		addr:      addr,
		bookings:  services.Bookings,
		customers: services.Customers,
		inventory: services.Inventory,
		orders:    services.Orders,
	}

	e.Validator = requestValidator{validator: validator.New()}

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log.FromContext(c.Request().Context()).
				WithField("path", c.Request().URL.Path).
				Info("Handling a request")

			err := next(c)

			if err != nil {
				log.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})
	e.Use(idempotency.EchoMiddleware)

	if srv.bookings != nil {
		e.POST("/bookings", srv.SubmitBookingHandler)
	}

	if srv.customers != nil {
		e.POST("/customers", srv.CreateCustomerHandler)
		e.GET("/customers/:customer_id", srv.GetCustomerHandler)
	}

	if srv.inventory != nil {
		e.GET("/inventory/events", srv.ListEventsHandler)
		e.POST("/inventory/events", srv.CreateEventHandler)
		e.GET("/inventory/events/:event_id", srv.GetEventHandler)
		e.POST("/inventory/events/:event_id/decrements", srv.DecrementHandler)
		e.POST("/inventory/venues", srv.CreateVenueHandler)
		e.GET("/inventory/venues/:venue_id", srv.GetVenueHandler)
	}

	if srv.orders != nil {
		e.GET("/orders", srv.ListOrdersHandler)
		e.GET("/orders/:booking_id", srv.GetOrderHandler)
	}

	e.GET("/health", func(c echo.Context) error {
		if !isReady() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

type requestValidator struct {
	validator *validator.Validate
}

func (v requestValidator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindAndValidate binds the request body and runs the struct validation tags.
func bindAndValidate(c echo.Context, request any) error {
	if err := c.Bind(request); err != nil {
		return err
	}
	return c.Validate(request)
}

func (s *Server) Handler() http.Handler {
	return s.e
}
