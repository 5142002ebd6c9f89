package shipping

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("shipping: shipment not found")

type Shipment struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	CustomerName   string    `json:"customer_name"`
	TrackingNumber string    `json:"tracking_number"`
	CreatedAt      time.Time `json:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, s *Shipment) error
	FindByOrderID(ctx context.Context, orderID string) (*Shipment, error)
}
