package order

import (
	"errors"
	"time"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound               = errors.New("order: not found")
	ErrConflict               = errors.New("order: already exists")
	ErrInvalidStateTransition = errors.New("order: invalid state transition")
	ErrTrackingRequired       = errors.New("order: tracking number is required")
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusShipped Status = "shipped"
)

// Order is created only after payment succeeded, so it starts paid.
type Order struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customer_name"`
	Items          []cart.Item     `json:"items"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         Status          `json:"status"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func New(id, customerName string, items []cart.Item, total decimal.Decimal) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:           id,
		CustomerName: customerName,
		Items:        append([]cart.Item(nil), items...),
		TotalPrice:   total,
		Status:       StatusPaid,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkShipped records the tracking number. Re-shipping with the same number is a no-op.
func (o *Order) MarkShipped(trackingNumber string) error {
	if trackingNumber == "" {
		return ErrTrackingRequired
	}
	switch o.Status {
	case StatusPaid:
		o.Status = StatusShipped
		o.TrackingNumber = trackingNumber
		o.touch()
		return nil
	case StatusShipped:
		if o.TrackingNumber == trackingNumber {
			return nil
		}
	}
	return ErrInvalidStateTransition
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]cart.Item(nil), o.Items...)
	return &c
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
