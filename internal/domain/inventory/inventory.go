package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrVenueNotFound = errors.New("venue not found")
	ErrInvalidCount  = errors.New("count must be greater than zero")
	// ErrTransientStoreFailure marks failures worth retrying: timeouts, unavailable store, 5xx.
	ErrTransientStoreFailure = errors.New("inventory store unavailable")
)

type Venue struct {
	ID            int64  `json:"venue_id"`
	Name          string `json:"venue_name"`
	TotalCapacity int64  `json:"total_capacity"`
}

type Event struct {
	ID                int64           `json:"event_id"`
	Name              string          `json:"event"`
	Venue             Venue           `json:"venue"`
	RemainingCapacity int64           `json:"capacity"`
	TicketPrice       decimal.Decimal `json:"ticket_price"`
}

// DecrementResult is the outcome of one decrement. Remaining capacity is clamped at
// zero; OversoldBy holds the part of the request that could not be covered.
type DecrementResult struct {
	EventID    int64 `json:"event_id"`
	Requested  int64 `json:"requested"`
	Remaining  int64 `json:"remaining"`
	OversoldBy int64 `json:"oversold_by"`

	// Duplicate is set when the idempotency key was already applied; nothing changed.
	Duplicate bool `json:"duplicate"`
}

func (r DecrementResult) Oversold() bool {
	return r.OversoldBy > 0
}

// ApplyDecrement computes the clamped result of taking count tickets from remaining.
func ApplyDecrement(eventID, remaining, count int64) DecrementResult {
	result := DecrementResult{
		EventID:   eventID,
		Requested: count,
		Remaining: remaining - count,
	}
	if result.Remaining < 0 {
		result.OversoldBy = -result.Remaining
		result.Remaining = 0
	}

	return result
}
