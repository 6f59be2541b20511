package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_submitted_total",
		Help: "Booking submissions by result",
	}, []string{"result"})

	FulfillmentOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_fulfillment_outcomes_total",
		Help: "Processed booking records by outcome",
	}, []string{"outcome"})

	InventoryDecrementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_decrements_total",
		Help: "Inventory decrements by result",
	}, []string{"result"})

	OversoldTicketsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_oversold_tickets_total",
		Help: "Tickets admitted beyond remaining capacity, detected at decrement time",
	})
)
