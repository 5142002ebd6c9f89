package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/Zhima-Mochi/jewelshop/internal/domain/product"
)

// ProductRepository is an in-memory product catalog keyed by product name.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
	}
}

func (r *ProductRepository) AddProduct(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil || p.Name == "" {
		return domain.ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.Name]; exists {
		return domain.ErrConflict
	}
	r.products[p.Name] = p.Clone()
	return nil
}

func (r *ProductRepository) RemoveProduct(ctx context.Context, name string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[name]; !exists {
		return domain.ErrNotFound
	}
	delete(r.products, name)
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, name string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

// List returns products sorted by name.
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
