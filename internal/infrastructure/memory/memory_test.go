package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := order.New("1", "Alice", []cart.Item{{ProductName: "Widget", UnitPrice: decimal.NewFromInt(2), Quantity: 2}}, decimal.NewFromInt(4))

	require.NoError(t, repo.Insert(ctx, o))
	assert.ErrorIs(t, repo.Insert(ctx, o), order.ErrConflict)
	assert.Error(t, repo.Insert(ctx, &order.Order{}))

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.CustomerName)

	got.Items[0].Quantity = 99
	again, _ := repo.Get(ctx, "1")
	assert.Equal(t, 2, again.Items[0].Quantity)

	require.NoError(t, got.MarkShipped("TRK"))
	require.NoError(t, repo.Update(ctx, got))
	again, _ = repo.Get(ctx, "1")
	assert.Equal(t, order.StatusShipped, again.Status)

	assert.ErrorIs(t, repo.Update(ctx, &order.Order{ID: "missing"}), order.ErrNotFound)
	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestOrderRepositoryListOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	older := order.New("b", "Alice", nil, decimal.Zero)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := order.New("a", "Bob", nil, decimal.Zero)

	require.NoError(t, repo.Insert(ctx, newer))
	require.NoError(t, repo.Insert(ctx, older))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	ring := product.Factory{}.Create("Diamond Ring", "Exquisite diamond ring", decimal.NewFromInt(2500), 10)
	necklace := product.Factory{}.Create("Gold Necklace", "Elegant gold necklace", decimal.NewFromInt(1200), 20)

	require.NoError(t, repo.AddProduct(ctx, ring))
	require.NoError(t, repo.AddProduct(ctx, necklace))
	assert.ErrorIs(t, repo.AddProduct(ctx, ring), product.ErrConflict)
	assert.ErrorIs(t, repo.AddProduct(ctx, &product.Product{}), product.ErrNameRequired)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Diamond Ring", list[0].Name)

	got, err := repo.Get(ctx, "Gold Necklace")
	require.NoError(t, err)
	assert.Equal(t, 20, got.StockQuantity)

	require.NoError(t, repo.RemoveProduct(ctx, "Gold Necklace"))
	assert.ErrorIs(t, repo.RemoveProduct(ctx, "Gold Necklace"), product.ErrNotFound)
	_, err = repo.Get(ctx, "Gold Necklace")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestShipmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepository()

	_, err := repo.FindByOrderID(ctx, "o-1")
	assert.ErrorIs(t, err, shipping.ErrNotFound)

	require.NoError(t, repo.Save(ctx, &shipping.Shipment{ID: "s-1", OrderID: "o-1", TrackingNumber: "TRK"}))
	assert.Error(t, repo.Save(ctx, &shipping.Shipment{}))

	got, err := repo.FindByOrderID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "TRK", got.TrackingNumber)
}
