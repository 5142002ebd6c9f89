// Package redis stores the product catalog in a Redis hash.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	domain "github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	goredis "github.com/redis/go-redis/v9"
)

const defaultCatalogKey = "jewelshop:catalog"

// ProductRepository keeps one JSON-encoded product per hash field, keyed by name.
type ProductRepository struct {
	client goredis.UniversalClient
	key    string
}

func NewProductRepository(client goredis.UniversalClient, key string) *ProductRepository {
	if key == "" {
		key = defaultCatalogKey
	}
	return &ProductRepository{client: client, key: key}
}

func (r *ProductRepository) AddProduct(ctx context.Context, p *domain.Product) error {
	if p == nil || p.Name == "" {
		return domain.ErrNameRequired
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("product repository: encode: %w", err)
	}
	created, err := r.client.HSetNX(ctx, r.key, p.Name, data).Result()
	if err != nil {
		return fmt.Errorf("product repository: hsetnx: %w", err)
	}
	if !created {
		return domain.ErrConflict
	}
	return nil
}

func (r *ProductRepository) RemoveProduct(ctx context.Context, name string) error {
	n, err := r.client.HDel(ctx, r.key, name).Result()
	if err != nil {
		return fmt.Errorf("product repository: hdel: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, name string) (*domain.Product, error) {
	data, err := r.client.HGet(ctx, r.key, name).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product repository: hget: %w", err)
	}
	return decode(data)
}

// List returns products sorted by name.
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	raw, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("product repository: hgetall: %w", err)
	}
	out := make([]*domain.Product, 0, len(raw))
	for _, v := range raw {
		p, err := decode([]byte(v))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func decode(data []byte) (*domain.Product, error) {
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("product repository: decode: %w", err)
	}
	return &p, nil
}
