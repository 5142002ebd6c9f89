package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipRequestedEvent asks the shipping side to dispatch a paid order.
type ShipRequestedEvent struct {
	OrderID      string
	CustomerName string
	TotalPrice   decimal.Decimal
	OccurredAt   time.Time
}

func (ShipRequestedEvent) EventName() string { return "order.ship_requested" }

func NewShipRequestedEvent(o *Order, customerName string) ShipRequestedEvent {
	if customerName == "" {
		customerName = o.CustomerName
	}
	return ShipRequestedEvent{
		OrderID:      o.ID,
		CustomerName: customerName,
		TotalPrice:   o.TotalPrice,
		OccurredAt:   time.Now().UTC(),
	}
}

// ShippedEvent is emitted once a shipment has been recorded for an order.
type ShippedEvent struct {
	OrderID        string
	TrackingNumber string
	OccurredAt     time.Time
}

func (ShippedEvent) EventName() string { return "order.shipped" }

func NewShippedEvent(o *Order) ShippedEvent {
	return ShippedEvent{
		OrderID:        o.ID,
		TrackingNumber: o.TrackingNumber,
		OccurredAt:     time.Now().UTC(),
	}
}
