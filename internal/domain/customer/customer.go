package customer

import (
	"context"
	"errors"

	"github.com/Zhima-Mochi/jewelshop/internal/domain"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/product"
)

var ErrCapabilityMissing = errors.New("customer: capability not granted")

// Capability is a bit set of the actions a customer may perform.
type Capability uint8

const (
	CanBrowse Capability = 1 << iota
	CanView
	CanPurchase
)

func (c Capability) Has(other Capability) bool { return c&other == other }

func (c Capability) String() string {
	switch c {
	case 0:
		return "none"
	case CanBrowse:
		return "browse"
	case CanView:
		return "view"
	case CanPurchase:
		return "purchase"
	}
	return "mixed"
}

type Browser interface {
	BrowseProducts(ctx context.Context, products []*product.Product) error
}

type Viewer interface {
	ViewProduct(ctx context.Context, p *product.Product) error
}

type Purchaser interface {
	PurchaseProduct(ctx context.Context, p *product.Product, quantity int) error
}

// Customer is a named shopper holding any combination of capabilities.
type Customer struct {
	Name string

	caps      Capability
	browser   Browser
	viewer    Viewer
	purchaser Purchaser
}

type Option func(*Customer)

// WithBrowser grants browsing backed by b, or the placeholder when b is nil.
func WithBrowser(b Browser) Option {
	return func(c *Customer) {
		c.caps |= CanBrowse
		if b == nil {
			b = placeholder{}
		}
		c.browser = b
	}
}

// WithViewer grants viewing backed by v.
func WithViewer(v Viewer) Option {
	return func(c *Customer) {
		c.caps |= CanView
		if v == nil {
			v = placeholder{}
		}
		c.viewer = v
	}
}

// WithPurchaser grants purchasing backed by p.
func WithPurchaser(p Purchaser) Option {
	return func(c *Customer) {
		c.caps |= CanPurchase
		if p == nil {
			p = placeholder{}
		}
		c.purchaser = p
	}
}

// New returns a customer with the given capabilities. Capabilities granted
// through caps use the placeholder implementations; options may override them.
func New(name string, caps Capability, opts ...Option) *Customer {
	c := &Customer{Name: name}
	if caps.Has(CanBrowse) {
		WithBrowser(placeholder{})(c)
	}
	if caps.Has(CanView) {
		WithViewer(placeholder{})(c)
	}
	if caps.Has(CanPurchase) {
		WithPurchaser(placeholder{})(c)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewBrowsing(name string) *Customer   { return New(name, CanBrowse) }
func NewViewing(name string) *Customer    { return New(name, CanView) }
func NewPurchasing(name string) *Customer { return New(name, CanPurchase) }

func (c *Customer) Capabilities() Capability { return c.caps }

func (c *Customer) BrowseProducts(ctx context.Context, products []*product.Product) error {
	if !c.caps.Has(CanBrowse) {
		return ErrCapabilityMissing
	}
	return c.browser.BrowseProducts(ctx, products)
}

func (c *Customer) ViewProduct(ctx context.Context, p *product.Product) error {
	if !c.caps.Has(CanView) {
		return ErrCapabilityMissing
	}
	return c.viewer.ViewProduct(ctx, p)
}

func (c *Customer) PurchaseProduct(ctx context.Context, p *product.Product, quantity int) error {
	if !c.caps.Has(CanPurchase) {
		return ErrCapabilityMissing
	}
	return c.purchaser.PurchaseProduct(ctx, p, quantity)
}

// placeholder backs every capability until real behaviour is attached.
type placeholder struct{}

func (placeholder) BrowseProducts(context.Context, []*product.Product) error {
	return domain.ErrNotImplemented
}

func (placeholder) ViewProduct(context.Context, *product.Product) error {
	return domain.ErrNotImplemented
}

func (placeholder) PurchaseProduct(context.Context, *product.Product, int) error {
	return domain.ErrNotImplemented
}
