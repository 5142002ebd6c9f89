// Package shop is the facade that orchestrates catalog, cart, payment and
// shipping collaborators into the order flow.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/jewelshop/internal/application"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/customer"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrNilProduct = errors.New("shop: product is required")

type Outcome string

const (
	OutcomeShipRequested   Outcome = "ship_requested"
	OutcomePaymentDeclined Outcome = "payment_declined"
)

// ProcessOrderInput is the command consumed by ProcessOrderUseCase.
type ProcessOrderInput struct {
	Customer *customer.Customer
	Cart     *cart.Cart
}

type ProcessOrderResult struct {
	Outcome Outcome
	Total   decimal.Decimal
	// Order is nil when payment was declined.
	Order *order.Order
}

type Option func(*Shop)

// WithOrderRepository persists paid orders before they are handed to shipping.
func WithOrderRepository(repo order.Repository) Option {
	return func(s *Shop) { s.orders = repo }
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Shop) { s.ids = ids }
}

func WithObservability(tel observability.Observability) Option {
	return func(s *Shop) { s.tel = tel }
}

type Shop struct {
	products ProductManager
	carts    CartManager
	payments PaymentProcessor
	shipping ShippingService
	orders   order.Repository
	ids      IDGenerator

	tel          observability.Observability
	tracer       observability.Tracer
	log          observability.Logger
	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func New(
	products ProductManager,
	carts CartManager,
	payments PaymentProcessor,
	shipping ShippingService,
	opts ...Option,
) *Shop {
	s := &Shop{
		products: products,
		carts:    carts,
		payments: payments,
		shipping: shipping,
		ids:      sequence{},
		tel:      observability.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m := s.tel.Metrics()
	s.tracer = s.tel.Tracer()
	s.log = s.tel.Logger()
	s.reqCounter = m.Counter(observability.MUsecaseRequests)
	s.durHistogram = m.Histogram(observability.MUsecaseDuration)
	return s
}

func (s *Shop) AddProduct(ctx context.Context, p *product.Product) (err error) {
	ctx, r := s.begin(ctx, "add_product", "AddProduct")
	defer func() { r.end(err) }()

	if p == nil {
		r.fail("INVALID_ARGUMENT")
		return ErrNilProduct
	}
	r.with(observability.F("product", p.Name))
	r.span.SetAttributes(attribute.String("product.name", p.Name))

	if err = s.products.AddProduct(ctx, p); err != nil {
		r.fail("MANAGER_ERROR")
		return fmt.Errorf("shop: add product: %w", err)
	}
	return nil
}

func (s *Shop) RemoveProduct(ctx context.Context, name string) (err error) {
	ctx, r := s.begin(ctx, "remove_product", "RemoveProduct", attribute.String("product.name", name))
	defer func() { r.end(err) }()
	r.with(observability.F("product", name))

	if err = s.products.RemoveProduct(ctx, name); err != nil {
		r.fail("MANAGER_ERROR")
		return fmt.Errorf("shop: remove product: %w", err)
	}
	return nil
}

// RegisterCustomer hands a cart owned by c to the cart manager's pricing
// operation. No registration store exists; the computed total is discarded.
func (s *Shop) RegisterCustomer(ctx context.Context, c *customer.Customer) (err error) {
	ctx, r := s.begin(ctx, "register_customer", "RegisterCustomer")
	defer func() { r.end(err) }()

	name := ""
	if c != nil {
		name = c.Name
	}
	r.with(observability.F("customer", name))

	if _, err = s.carts.CalculateTotalPrice(ctx, cart.For(c)); err != nil {
		r.fail("CART_ERROR")
		return fmt.Errorf("shop: register customer: %w", err)
	}
	r.logger.Warn("register_customer_forwarded",
		observability.F("customer", name),
		observability.F("target", "cart_manager.calculate_total_price"),
	)
	return nil
}

// ProcessOrder prices the cart, charges it and, when the charge succeeds,
// hands the resulting order to shipping exactly once. A declined payment is
// reported through the result outcome, not as an error.
func (s *Shop) ProcessOrder(ctx context.Context, c *customer.Customer, ct *cart.Cart) (*ProcessOrderResult, error) {
	return s.ProcessOrderUseCase().Execute(ctx, ProcessOrderInput{Customer: c, Cart: ct})
}

// ProcessOrderUseCase exposes order processing as an application.UseCase.
func (s *Shop) ProcessOrderUseCase() *ProcessOrderUseCase {
	return &ProcessOrderUseCase{shop: s}
}

type ProcessOrderUseCase struct {
	shop *Shop
}

var _ application.UseCase[ProcessOrderInput, *ProcessOrderResult] = (*ProcessOrderUseCase)(nil)

func (uc *ProcessOrderUseCase) Execute(ctx context.Context, in ProcessOrderInput) (res *ProcessOrderResult, err error) {
	s := uc.shop
	customerName := ownerOf(in)
	ctx, r := s.begin(ctx, "process_order", "ProcessOrder", attribute.String("customer.name", customerName))
	defer func() { r.end(err) }()
	r.with(observability.F("customer", customerName))

	if err = ctx.Err(); err != nil {
		r.fail("CONTEXT_ERROR")
		return nil, err
	}

	total, err := s.carts.CalculateTotalPrice(ctx, in.Cart)
	if err != nil {
		r.fail("CART_ERROR")
		return nil, fmt.Errorf("shop: calculate total: %w", err)
	}
	r.with(observability.F("total", total.String()))
	r.span.SetAttributes(attribute.String("order.total", total.String()))

	status, err := s.charge(r, total)
	if err != nil {
		r.fail("PAYMENT_ERROR")
		return nil, fmt.Errorf("shop: process payment: %w", err)
	}
	if !status.Succeeded() {
		r.outcome, r.status = string(OutcomePaymentDeclined), "PAYMENT_DECLINED"
		r.span.AddEvent("payment_declined")
		return &ProcessOrderResult{Outcome: OutcomePaymentDeclined, Total: total}, nil
	}

	var items []cart.Item
	if in.Cart != nil {
		items = append(items, in.Cart.Items...)
	}
	o := order.New(s.ids.NewID(), customerName, items, total)
	r.with(observability.F("order_id", o.ID))
	r.span.SetAttributes(attribute.String("order.id", o.ID))

	if s.orders != nil {
		if err = s.orders.Insert(ctx, o); err != nil {
			r.fail("ORDER_STORE_ERROR")
			return nil, fmt.Errorf("shop: store order: %w", err)
		}
	}

	if err = s.shipping.ShipOrder(ctx, o, in.Customer); err != nil {
		r.fail("SHIPPING_ERROR")
		if s.orders != nil {
			// The order is stored as paid with no ship request behind it.
			r.logger.Error("order_ship_request_failed",
				observability.F("order_id", o.ID),
				observability.F("status", string(o.Status)),
				observability.Err(err),
			)
		}
		return nil, fmt.Errorf("shop: ship order: %w", err)
	}
	r.span.AddEvent("ship_requested", trace.WithAttributes(attribute.String("order.id", o.ID)))

	return &ProcessOrderResult{Outcome: OutcomeShipRequested, Total: total, Order: o}, nil
}

func ownerOf(in ProcessOrderInput) string {
	if in.Customer != nil {
		return in.Customer.Name
	}
	if in.Cart != nil {
		return in.Cart.Owner
	}
	return ""
}
