package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/application/usecases/booking"
	"ticketing/internal/application/usecases/inventory"
	cdomain "ticketing/internal/domain/customers"
	idomain "ticketing/internal/domain/inventory"
	odomain "ticketing/internal/domain/orders"
	"ticketing/internal/entities"
	ticketinghttp "ticketing/internal/interfaces/http"
	"ticketing/internal/keylock"
	"ticketing/internal/repository/memory"
)

type recordingPublisher struct {
	lock   sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, event any) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.events = append(p.events, event)
	return nil
}

type testServer struct {
	e         *echo.Echo
	inventory *inventory.Service
	orders    *memory.OrdersRepo
	publisher *recordingPublisher
	eventID   int64
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()

	inventorySvc := inventory.NewService(memory.NewInventoryRepo(), keylock.New())
	venue, err := inventorySvc.CreateVenue(ctx, idomain.Venue{Name: "Arena", TotalCapacity: 10})
	require.NoError(t, err)
	event, err := inventorySvc.CreateEvent(ctx, idomain.Event{
		Name:              "Concert",
		Venue:             venue,
		RemainingCapacity: 10,
		TicketPrice:       decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	customers := memory.NewCustomersRepo(cdomain.Customer{ID: 1, Name: "Ann", Email: "ann@example.com"})
	orders := memory.NewOrdersRepo()

	e := echo.New()
	ticketinghttp.NewServer(e, ":0", ticketinghttp.Services{
		Bookings:  booking.NewSubmitBookingUsecase(customers, inventorySvc, publisher, time.Second),
		Inventory: inventorySvc,
		Orders:    orders,
	}, func() bool { return true })

	return testServer{
		e:         e,
		inventory: inventorySvc,
		orders:    orders,
		publisher: publisher,
		eventID:   event.ID,
	}
}

func (s testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

func TestSubmitBookingHandler(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		wantStatus int
		published  int
	}{
		{
			name:       "accepted",
			body:       `{"customer_id":1,"event_id":1,"ticket_count":4}`,
			wantStatus: http.StatusCreated,
			published:  1,
		},
		{
			name:       "not enough tickets",
			body:       `{"customer_id":1,"event_id":1,"ticket_count":11}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown customer",
			body:       `{"customer_id":2,"event_id":1,"ticket_count":1}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown event",
			body:       `{"customer_id":1,"event_id":404,"ticket_count":1}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "zero tickets",
			body:       `{"customer_id":1,"event_id":1,"ticket_count":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"customer_id":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodPost, "/bookings", tc.body, nil)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Len(t, srv.publisher.events, tc.published)
		})
	}
}

func TestSubmitBookingHandler_Confirmation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/bookings", `{"customer_id":1,"event_id":1,"ticket_count":4}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response struct {
		BookingID  string          `json:"booking_id"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, decimal.RequireFromString("80").Equal(response.TotalPrice))

	require.Len(t, srv.publisher.events, 1)
	published := srv.publisher.events[0].(*entities.BookingMade_v1)
	assert.Equal(t, response.BookingID, published.BookingID.String())
}

func TestDecrementHandler(t *testing.T) {
	srv := newTestServer(t)
	path := "/inventory/events/1/decrements"

	rec := srv.do(t, http.MethodPost, path, `{"count":4}`, map[string]string{"Idempotency-Key": "booking-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result idomain.DecrementResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(6), result.Remaining)
	assert.False(t, result.Duplicate)

	// retried with the key in the body instead of the header
	rec = srv.do(t, http.MethodPost, path, `{"count":4,"idempotency_key":"booking-1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Duplicate)
	assert.Equal(t, int64(6), result.Remaining)

	rec = srv.do(t, http.MethodPost, path, `{"count":8}`, map[string]string{"Idempotency-Key": "booking-2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(0), result.Remaining)
	assert.Equal(t, int64(2), result.OversoldBy)

	rec = srv.do(t, http.MethodPost, path, `{"count":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/inventory/events/404/decrements", `{"count":1}`, map[string]string{"Idempotency-Key": "booking-3"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventoryHandlers(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/inventory/venues", `{"venue_name":"Hall","total_capacity":50}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var venue idomain.Venue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &venue))
	assert.Equal(t, "Hall", venue.Name)

	rec = srv.do(t, http.MethodPost, "/inventory/events",
		`{"event":"Opera","venue_id":`+jsonInt(venue.ID)+`,"capacity":50,"ticket_price":"35.50"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var event idomain.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.Equal(t, "Hall", event.Venue.Name)
	assert.True(t, decimal.RequireFromString("35.50").Equal(event.TicketPrice))

	rec = srv.do(t, http.MethodGet, "/inventory/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []idomain.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 2)

	rec = srv.do(t, http.MethodGet, "/inventory/venues/"+jsonInt(venue.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/inventory/venues/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/inventory/events/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/inventory/events", `{"event":"Opera","venue_id":999,"capacity":5,"ticket_price":"1"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/inventory/events", `{"event":"Opera","venue_id":1,"capacity":5,"ticket_price":"-1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersHandlers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	order, _, err := srv.orders.CreateIfNotExists(ctx, odomain.Order{
		ID:          mustUUID(t),
		BookingID:   mustUUID(t),
		CustomerID:  1,
		EventID:     srv.eventID,
		TicketCount: 8,
		TotalPrice:  decimal.RequireFromString("160"),
		CreatedAt:   time.Now().UTC(),
		Status:      odomain.StatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, srv.orders.MarkReconciliation(ctx, order.BookingID, 2, odomain.ReasonOversold))

	rec := srv.do(t, http.MethodGet, "/orders/"+order.BookingID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got odomain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, odomain.StatusReconciliation, got.Status)
	assert.Equal(t, int64(2), got.OversoldBy)

	rec = srv.do(t, http.MethodGet, "/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []odomain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	rec = srv.do(t, http.MethodGet, "/orders?status=fulfilled", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	rec = srv.do(t, http.MethodGet, "/orders?status=lost", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/orders/"+mustUUID(t).String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	ticketinghttp.NewServer(e, ":0", ticketinghttp.Services{}, func() bool { return false })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
