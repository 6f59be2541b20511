package bookings

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTicketCount    = errors.New("ticket count must be greater than zero")
	ErrInsufficientInventory = errors.New("not enough tickets available")
	// ErrInventoryCheckFailed means capacity could not be read in time; the booking is rejected.
	ErrInventoryCheckFailed = errors.New("inventory check failed")
)

type Booking struct {
	CustomerID  int64 `json:"customer_id"`
	EventID     int64 `json:"event_id"`
	TicketCount int64 `json:"ticket_count"`
}

// Confirmation describes an admitted booking. It does not mean the order was fulfilled.
type Confirmation struct {
	BookingID   uuid.UUID       `json:"booking_id"`
	CustomerID  int64           `json:"customer_id"`
	EventID     int64           `json:"event_id"`
	TicketCount int64           `json:"ticket_count"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	BookedAt    time.Time       `json:"booked_at"`
}

// TotalPrice is fixed once at admission and never recomputed downstream.
func TotalPrice(unitPrice decimal.Decimal, ticketCount int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(ticketCount))
}
