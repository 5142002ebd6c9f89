package shop

import (
	"context"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/customer"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/payment"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/shopspring/decimal"
)

type ProductManager = product.Manager

type CartManager interface {
	CalculateTotalPrice(ctx context.Context, c *cart.Cart) (decimal.Decimal, error)
}

type PaymentProcessor = payment.Processor

type ShippingService interface {
	ShipOrder(ctx context.Context, o *order.Order, c *customer.Customer) error
}

type IDGenerator interface {
	NewID() string
}
