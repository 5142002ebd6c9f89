package product

import (
	"context"
	"errors"

	"github.com/Zhima-Mochi/jewelshop/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product: not found")
	ErrConflict = errors.New("product: already exists")
	// ErrNameRequired is returned by stores, which key products by name.
	ErrNameRequired = errors.New("product: name is required")
)

// Product is a catalog entry. No invariant is enforced on its fields.
type Product struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

// Clone returns a copy that shares no state with p.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Factory constructs products.
type Factory struct{}

// Create returns a Product holding exactly the supplied values.
func (Factory) Create(name, description string, price decimal.Decimal, stockQuantity int) *Product {
	return &Product{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
	}
}

// Manager maintains the set of products offered by the shop.
type Manager interface {
	AddProduct(ctx context.Context, p *Product) error
	RemoveProduct(ctx context.Context, name string) error
}

// Lister is the read side offered by stored catalogs.
type Lister interface {
	List(ctx context.Context) ([]*Product, error)
	Get(ctx context.Context, name string) (*Product, error)
}

// Catalog is a Manager that can also be read back.
type Catalog interface {
	Manager
	Lister
}

// UnimplementedManager is a Manager placeholder.
type UnimplementedManager struct{}

func (UnimplementedManager) AddProduct(context.Context, *Product) error {
	return domain.ErrNotImplemented
}
func (UnimplementedManager) RemoveProduct(context.Context, string) error {
	return domain.ErrNotImplemented
}
