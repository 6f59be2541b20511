package entities

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is implemented by everything published on the bus. Records with the same
// partition key are delivered in publication order.
type Event interface {
	PartitionKey() string
}

var ErrMalformedRecord = errors.New("malformed booking record")

// BookingMade_v1 is the booking record emitted by the booking service once a booking
// passed the admission check. TotalPrice is fixed at admission time.
type BookingMade_v1 struct {
	Header      EventHeader     `json:"header"`
	BookingID   uuid.UUID       `json:"booking_id"`
	CustomerID  int64           `json:"customer_id"`
	EventID     int64           `json:"event_id"`
	TicketCount int64           `json:"ticket_count"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	BookedAt    time.Time       `json:"booked_at"`
}

func (b BookingMade_v1) PartitionKey() string {
	return strconv.FormatInt(b.EventID, 10)
}

// IdempotencyKey is stable across redeliveries of the same booking.
func (b BookingMade_v1) IdempotencyKey() string {
	if b.Header.IdempotencyKey != "" {
		return b.Header.IdempotencyKey
	}
	return b.BookingID.String()
}

func (b BookingMade_v1) Validate() error {
	if b.BookingID == uuid.Nil {
		return fmt.Errorf("booking_id is empty: %w", ErrMalformedRecord)
	}
	if b.TicketCount <= 0 {
		return fmt.Errorf("ticket_count %d: %w", b.TicketCount, ErrMalformedRecord)
	}
	if b.TotalPrice.IsNegative() {
		return fmt.Errorf("total_price %s: %w", b.TotalPrice, ErrMalformedRecord)
	}

	return nil
}
