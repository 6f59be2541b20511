package app

import (
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"ticketing/internal/application/usecases/booking"
	"ticketing/internal/application/usecases/fulfillment"
	"ticketing/internal/application/usecases/inventory"
	"ticketing/internal/infrastructure/event_publisher"
	ticketinghttp "ticketing/internal/interfaces/http"
	ticketingmessage "ticketing/internal/interfaces/message"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/keylock"
	"ticketing/internal/observability"
)

type BookingDeps struct {
	HTTPAddr        string
	Customers       ticketinghttp.CustomersService
	Inventory       booking.InventoryReader
	Publisher       message.Publisher
	Partitions      int
	ReadTimeout     time.Duration
	WatermillLogger watermill.LoggerAdapter
}

// NewBookingApp builds the booking originator. It only publishes, so it has no router.
func NewBookingApp(deps BookingDeps) (*App, error) {
	var publisher message.Publisher = deps.Publisher
	publisher = event_publisher.CorrelationPublisherDecorator{Publisher: publisher}
	publisher = observability.PublisherWithTracing{Publisher: publisher}

	eventBus, err := events.NewEventBus(publisher, deps.Partitions, deps.WatermillLogger)
	if err != nil {
		return nil, err
	}

	submitBooking := booking.NewSubmitBookingUsecase(
		deps.Customers,
		deps.Inventory,
		eventBus,
		deps.ReadTimeout,
	)

	srv := ticketinghttp.NewServer(
		commonHTTP.NewEcho(),
		deps.HTTPAddr,
		ticketinghttp.Services{
			Bookings:  submitBooking,
			Customers: deps.Customers,
		},
		alwaysReady,
	)

	return newApp("booking", nil, srv), nil
}

type OrderDeps struct {
	HTTPAddr             string
	Orders               OrdersRepo
	Inventory            fulfillment.InventoryDecrementer
	NewSubscriber        events.SubscriberConstructor
	PoisonQueuePublisher message.Publisher
	Partitions           int
	DecrementTimeout     time.Duration
	WatermillLogger      watermill.LoggerAdapter
}

type OrdersRepo interface {
	fulfillment.OrdersRepo
	ticketinghttp.OrdersReader
}

// NewOrderApp builds the fulfillment consumer and the order status query path.
func NewOrderApp(deps OrderDeps) (*App, error) {
	fulfillBooking := fulfillment.NewFulfillBookingUsecase(
		deps.Orders,
		deps.Inventory,
		deps.DecrementTimeout,
	)

	router, err := ticketingmessage.NewRouter(
		deps.WatermillLogger,
		deps.PoisonQueuePublisher,
		events.NewHandler(fulfillBooking),
		events.NewEventProcessorConfig("orders", deps.Partitions, deps.NewSubscriber, deps.WatermillLogger),
		deps.Partitions,
	)
	if err != nil {
		return nil, err
	}

	srv := ticketinghttp.NewServer(
		commonHTTP.NewEcho(),
		deps.HTTPAddr,
		ticketinghttp.Services{Orders: deps.Orders},
		router.IsRunning,
	)

	return newApp("order", router, srv), nil
}

type InventoryDeps struct {
	HTTPAddr string
	Repo     inventory.Repository
}

func NewInventoryApp(deps InventoryDeps) *App {
	service := inventory.NewService(deps.Repo, keylock.New())

	srv := ticketinghttp.NewServer(
		commonHTTP.NewEcho(),
		deps.HTTPAddr,
		ticketinghttp.Services{Inventory: service},
		alwaysReady,
	)

	return newApp("inventory", nil, srv)
}

func alwaysReady() bool {
	return true
}
