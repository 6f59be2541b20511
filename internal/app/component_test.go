package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"ticketing/internal/app"
	cdomain "ticketing/internal/domain/customers"
	idomain "ticketing/internal/domain/inventory"
	odomain "ticketing/internal/domain/orders"
	"ticketing/internal/entities"
	"ticketing/internal/infrastructure/clients"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/repository/memory"
)

const partitions = 4

type ComponentTestSuite struct {
	suite.Suite

	ctx    context.Context
	cancel context.CancelFunc

	pubSub          *gochannel.GoChannel
	inventoryServer *httptest.Server
	inventory       *clients.InventoryClient
	bookingApp      *app.App
	orders          *memory.OrdersRepo
	orderApp        *app.App
	orderAppDone    chan error
}

func TestComponentTestSuite(t *testing.T) {
	suite.Run(t, new(ComponentTestSuite))
}

func (s *ComponentTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	logger := watermill.NopLogger{}

	s.pubSub = gochannel.NewGoChannel(gochannel.Config{Persistent: true}, logger)

	inventoryApp := app.NewInventoryApp(app.InventoryDeps{
		HTTPAddr: "127.0.0.1:0",
		Repo:     memory.NewInventoryRepo(),
	})
	s.inventoryServer = httptest.NewServer(inventoryApp.Handler())
	s.inventory = clients.NewInventoryClient(s.inventoryServer.URL, s.inventoryServer.Client())

	var err error
	s.bookingApp, err = app.NewBookingApp(app.BookingDeps{
		HTTPAddr:        "127.0.0.1:0",
		Customers:       memory.NewCustomersRepo(cdomain.Customer{ID: 1, Name: "Ann", Email: "ann@example.com"}),
		Inventory:       s.inventory,
		Publisher:       s.pubSub,
		Partitions:      partitions,
		ReadTimeout:     time.Second,
		WatermillLogger: logger,
	})
	s.Require().NoError(err)

	s.orders = memory.NewOrdersRepo()
	s.orderApp, err = app.NewOrderApp(app.OrderDeps{
		HTTPAddr:  "127.0.0.1:0",
		Orders:    s.orders,
		Inventory: s.inventory,
		NewSubscriber: func(string) (message.Subscriber, error) {
			return s.pubSub, nil
		},
		PoisonQueuePublisher: s.pubSub,
		Partitions:           partitions,
		DecrementTimeout:     time.Second,
		WatermillLogger:      logger,
	})
	s.Require().NoError(err)
	s.orderAppDone = make(chan error, 1)
}

func (s *ComponentTestSuite) TearDownTest() {
	s.cancel()
	if s.orderAppDone != nil {
		select {
		case <-s.orderAppDone:
		case <-time.After(15 * time.Second):
			s.T().Error("order app did not stop")
		}
	}
	s.inventoryServer.Close()
}

// startOrderApp starts consuming. Bookings submitted before are kept by the bus.
func (s *ComponentTestSuite) startOrderApp() {
	go func() {
		s.orderAppDone <- s.orderApp.Run(s.ctx)
	}()

	require.EventuallyWithT(s.T(), func(t *assert.CollectT) {
		rec := httptest.NewRecorder()
		s.orderApp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}, 10*time.Second, 20*time.Millisecond)
}

func (s *ComponentTestSuite) createEvent(capacity int64, price string) int64 {
	venue, err := postJSON[idomain.Venue](s.inventoryServer.URL+"/inventory/venues",
		`{"venue_name":"Arena","total_capacity":`+strconv.FormatInt(capacity, 10)+`}`)
	s.Require().NoError(err)

	event, err := postJSON[idomain.Event](s.inventoryServer.URL+"/inventory/events",
		`{"event":"Concert","venue_id":`+strconv.FormatInt(venue.ID, 10)+
			`,"capacity":`+strconv.FormatInt(capacity, 10)+`,"ticket_price":"`+price+`"}`)
	s.Require().NoError(err)

	return event.ID
}

func (s *ComponentTestSuite) submitBooking(eventID, tickets int64) *httptest.ResponseRecorder {
	body := `{"customer_id":1,"event_id":` + strconv.FormatInt(eventID, 10) +
		`,"ticket_count":` + strconv.FormatInt(tickets, 10) + `}`

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.bookingApp.Handler().ServeHTTP(rec, req)

	return rec
}

func (s *ComponentTestSuite) bookingID(rec *httptest.ResponseRecorder) uuid.UUID {
	var response struct {
		BookingID uuid.UUID `json:"booking_id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response.BookingID
}

func (s *ComponentTestSuite) waitForOrder(bookingID uuid.UUID, status odomain.Status) odomain.Order {
	var order odomain.Order
	require.EventuallyWithT(s.T(), func(t *assert.CollectT) {
		var err error
		order, err = s.orders.GetByBookingID(context.Background(), bookingID)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, status, order.Status)
	}, 10*time.Second, 20*time.Millisecond)

	return order
}

func (s *ComponentTestSuite) remaining(eventID int64) int64 {
	event, err := s.inventory.ReadCapacity(context.Background(), eventID)
	s.Require().NoError(err)
	return event.RemainingCapacity
}

func (s *ComponentTestSuite) TestBookingIsFulfilled() {
	eventID := s.createEvent(10, "20.00")
	s.startOrderApp()

	rec := s.submitBooking(eventID, 4)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	order := s.waitForOrder(s.bookingID(rec), odomain.StatusFulfilled)
	s.True(decimal.RequireFromString("80.00").Equal(order.TotalPrice))
	s.Equal(int64(6), s.remaining(eventID))
}

// Both bookings pass admission against capacity 10 before either decrement lands.
func (s *ComponentTestSuite) TestOversoldBookingGoesToReconciliation() {
	eventID := s.createEvent(10, "20.00")

	first := s.submitBooking(eventID, 4)
	s.Require().Equal(http.StatusCreated, first.Code, first.Body.String())
	second := s.submitBooking(eventID, 8)
	s.Require().Equal(http.StatusCreated, second.Code, second.Body.String())

	s.startOrderApp()

	s.waitForOrder(s.bookingID(first), odomain.StatusFulfilled)
	order := s.waitForOrder(s.bookingID(second), odomain.StatusReconciliation)

	s.Equal(int64(2), order.OversoldBy)
	s.Equal(odomain.ReasonOversold, order.ReconciliationReason)
	s.Equal(int64(0), s.remaining(eventID))

	rec := httptest.NewRecorder()
	s.orderApp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?status=reconciliation", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var listed []odomain.Order
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &listed))
	s.Len(listed, 1)
}

func (s *ComponentTestSuite) TestRejectedBookingPublishesNothing() {
	eventID := s.createEvent(3, "20.00")

	rec := s.submitBooking(eventID, 4)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.submitBooking(404, 1)
	s.Equal(http.StatusNotFound, rec.Code)

	s.startOrderApp()

	// give the router time to pick up anything that might have been published
	time.Sleep(200 * time.Millisecond)

	for _, status := range []odomain.Status{odomain.StatusPending, odomain.StatusFulfilled, odomain.StatusReconciliation} {
		orders, err := s.orders.ListByStatus(context.Background(), status)
		s.Require().NoError(err)
		s.Empty(orders)
	}
	s.Equal(int64(3), s.remaining(eventID))
}

func (s *ComponentTestSuite) TestRedeliveredBookingIsFulfilledOnce() {
	eventID := s.createEvent(10, "20.00")
	s.startOrderApp()

	bookingID := uuid.New()
	record := entities.BookingMade_v1{
		Header:      entities.NewEventHeaderWithIdempotencyKey(bookingID.String()),
		BookingID:   bookingID,
		CustomerID:  1,
		EventID:     eventID,
		TicketCount: 4,
		TotalPrice:  decimal.RequireFromString("80.00"),
		BookedAt:    time.Now().UTC(),
	}

	eventBus, err := events.NewEventBus(s.pubSub, partitions, watermill.NopLogger{})
	s.Require().NoError(err)
	for i := 0; i < 3; i++ {
		s.Require().NoError(eventBus.Publish(context.Background(), &record))
	}

	s.waitForOrder(bookingID, odomain.StatusFulfilled)

	// the last copy is handled after the others on the same partition
	time.Sleep(200 * time.Millisecond)
	s.Equal(int64(6), s.remaining(eventID))

	fulfilled, err := s.orders.ListByStatus(context.Background(), odomain.StatusFulfilled)
	s.Require().NoError(err)
	s.Len(fulfilled, 1)
}

func (s *ComponentTestSuite) TestMalformedRecordGoesToPoisonQueue() {
	poisoned, err := s.pubSub.Subscribe(s.ctx, events.PoisonQueueTopic)
	s.Require().NoError(err)

	s.startOrderApp()

	topic := events.PartitionedTopic(events.EventTopic("BookingMade_v1"), 0, partitions)
	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"booking_id":"`+uuid.NewString()+`","event_id":1,"ticket_count":0}`))
	msg.Metadata.Set("name", "BookingMade_v1")
	s.Require().NoError(s.pubSub.Publish(topic, msg))

	select {
	case received := <-poisoned:
		received.Ack()
		s.Equal(msg.UUID, received.UUID)
		s.Contains(received.Metadata.Get(middleware.ReasonForPoisonedKey), "malformed booking record")
	case <-time.After(10 * time.Second):
		s.Fail("malformed record was not moved to the poison queue")
	}

	orders, err := s.orders.ListByStatus(context.Background(), odomain.StatusPending)
	s.Require().NoError(err)
	s.Empty(orders)
}

func postJSON[T any](url, body string) (T, error) {
	var out T

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&out)
	return out, err
}
