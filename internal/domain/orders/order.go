package orders

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

type Status string

const (
	StatusPending        Status = "pending"
	StatusFulfilled      Status = "fulfilled"
	StatusReconciliation Status = "reconciliation"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFulfilled, StatusReconciliation:
		return true
	}
	return false
}

const (
	ReasonOversold      = "oversold"
	ReasonEventNotFound = "event_not_found"
)

// Order is created once per booking. Only the fulfillment fields (Status, OversoldBy,
// ReconciliationReason) change afterwards, and only out of StatusPending.
type Order struct {
	ID          uuid.UUID       `db:"id" json:"order_id"`
	BookingID   uuid.UUID       `db:"booking_id" json:"booking_id"`
	CustomerID  int64           `db:"customer_id" json:"customer_id"`
	EventID     int64           `db:"event_id" json:"event_id"`
	TicketCount int64           `db:"ticket_count" json:"ticket_count"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	Status               Status `db:"status" json:"status"`
	OversoldBy           int64  `db:"oversold_by" json:"oversold_by"`
	ReconciliationReason string `db:"reconciliation_reason" json:"reconciliation_reason,omitempty"`
}

// Outcome is what processing one delivered booking record amounted to.
type Outcome string

const (
	OutcomeFulfilled      Outcome = "fulfilled"
	OutcomeReconciliation Outcome = "reconciliation"
	OutcomeDuplicate      Outcome = "duplicate"
)
