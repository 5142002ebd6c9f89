// Package cart holds the provisional cart model used by order processing.
package cart

import (
	"context"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/customer"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/shopspring/decimal"
)

// Item is one cart line: a product snapshot and a quantity.
type Item struct {
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// ItemFor snapshots p into a cart line.
func ItemFor(p *product.Product, quantity int) Item {
	return Item{ProductName: p.Name, UnitPrice: p.Price, Quantity: quantity}
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Owner string `json:"owner"`
	Items []Item `json:"items"`
}

// For returns an empty cart owned by c.
func For(c *customer.Customer) *Cart {
	if c == nil {
		return &Cart{}
	}
	return &Cart{Owner: c.Name}
}

func (c *Cart) Add(items ...Item) {
	c.Items = append(c.Items, items...)
}

// Calculator prices carts.
type Calculator struct{}

// CalculateTotalPrice sums the subtotals of every line. A nil cart totals zero.
func (Calculator) CalculateTotalPrice(ctx context.Context, c *Cart) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	if c == nil {
		return total, nil
	}
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total, nil
}
