// Package shipping hands paid orders over to the shipping worker through the event bus.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/customer"
	domorder "github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/jewelshop/internal/domain/outbox"
)

const publishTimeout = 300 * time.Millisecond

var ErrNilOrder = errors.New("shipping: order is required")

// Dispatcher publishes a ship request per order. It does not talk to carriers.
type Dispatcher struct {
	publisher domoutbox.Publisher
	timeout   time.Duration
}

func NewDispatcher(publisher domoutbox.Publisher) *Dispatcher {
	return &Dispatcher{publisher: publisher, timeout: publishTimeout}
}

func (d *Dispatcher) ShipOrder(ctx context.Context, o *domorder.Order, c *customer.Customer) error {
	if o == nil {
		return ErrNilOrder
	}
	var name string
	if c != nil {
		name = c.Name
	}

	pubCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.publisher.Publish(pubCtx, domorder.NewShipRequestedEvent(o, name)); err != nil {
		return fmt.Errorf("shipping: publish ship request: %w", err)
	}
	return nil
}
