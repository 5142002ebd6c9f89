package product

import (
	"github.com/shopspring/decimal"
)

// DefaultDiscountBasePrice is the list price discounted items start from.
var DefaultDiscountBasePrice = decimal.NewFromInt(100)

const discountedItemName = "Discounted Jewelry Item"

// Builder assembles a Product step by step.
type Builder struct {
	p Product
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Name(name string) *Builder {
	b.p.Name = name
	return b
}

func (b *Builder) Description(description string) *Builder {
	b.p.Description = description
	return b
}

func (b *Builder) Price(price decimal.Decimal) *Builder {
	b.p.Price = price
	return b
}

func (b *Builder) Stock(quantity int) *Builder {
	b.p.StockQuantity = quantity
	return b
}

// Build returns the product assembled so far. The builder may be reused.
func (b *Builder) Build() *Product {
	p := b.p
	return &p
}

// PercentageDiscountFactory produces discounted items priced at
// BasePrice * (1 - Discount). Discount is a fraction, 0.2 means 20% off.
type PercentageDiscountFactory struct {
	Discount  decimal.Decimal
	BasePrice decimal.Decimal
}

func NewPercentageDiscountFactory(discount decimal.Decimal) PercentageDiscountFactory {
	return PercentageDiscountFactory{Discount: discount, BasePrice: DefaultDiscountBasePrice}
}

// Create returns a new discounted item.
func (f PercentageDiscountFactory) Create() *Product {
	return NewBuilder().
		Name(discountedItemName).
		Price(f.Apply(f.basePrice())).
		Build()
}

// Apply discounts price by the factory percentage.
func (f PercentageDiscountFactory) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(f.Discount))
}

func (f PercentageDiscountFactory) basePrice() decimal.Decimal {
	if f.BasePrice.IsZero() {
		return DefaultDiscountBasePrice
	}
	return f.BasePrice
}

// WithGemstone returns a copy of p set with the given gemstone. Price is unchanged.
func WithGemstone(p *Product, gemstone string) *Product {
	c := p.Clone()
	if c == nil || gemstone == "" {
		return c
	}
	c.Name = c.Name + " with " + gemstone
	return c
}

// LegacyItem is the item shape used by the pre-catalog inventory system.
type LegacyItem struct {
	Description string
	Cost        decimal.Decimal
}

// FromLegacy adapts a legacy item: its description becomes the name and its cost the price.
func FromLegacy(item LegacyItem) *Product {
	return &Product{Name: item.Description, Price: item.Cost}
}

// Collection is a named group of products priced as the sum of its members.
type Collection struct {
	Name  string
	items []*Product
}

func NewCollection(name string) *Collection {
	return &Collection{Name: name}
}

func (c *Collection) Add(items ...*Product) {
	for _, p := range items {
		if p != nil {
			c.items = append(c.items, p)
		}
	}
}

func (c *Collection) Items() []*Product {
	return append([]*Product(nil), c.items...)
}

func (c *Collection) Price() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.items {
		total = total.Add(p.Price)
	}
	return total
}
