package customer

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/jewelshop/internal/domain"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/stretchr/testify/assert"
)

func TestRoleConstructorsStoreNameOnly(t *testing.T) {
	cases := []struct {
		name string
		c    *Customer
		cap  Capability
	}{
		{"browse", NewBrowsing("Alice"), CanBrowse},
		{"view", NewViewing("Alice"), CanView},
		{"purchase", NewPurchasing("Alice"), CanPurchase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, "Alice", tc.c.Name)
			assert.Equal(t, tc.cap, tc.c.Capabilities())
			assert.Equal(t, tc.name, tc.c.Capabilities().String())
		})
	}
}

func TestPlaceholdersReturnNotImplemented(t *testing.T) {
	ctx := context.Background()
	ring := &product.Product{Name: "Diamond Ring", StockQuantity: 10}
	c := New("Bob", CanBrowse|CanView|CanPurchase)

	assert.ErrorIs(t, c.BrowseProducts(ctx, []*product.Product{ring}), domain.ErrNotImplemented)
	assert.ErrorIs(t, c.ViewProduct(ctx, ring), domain.ErrNotImplemented)
	assert.ErrorIs(t, c.PurchaseProduct(ctx, ring, 2), domain.ErrNotImplemented)
	assert.Equal(t, 10, ring.StockQuantity)
	assert.Equal(t, "mixed", c.Capabilities().String())
}

func TestMissingCapability(t *testing.T) {
	ctx := context.Background()
	c := NewViewing("Carol")

	assert.ErrorIs(t, c.BrowseProducts(ctx, nil), ErrCapabilityMissing)
	assert.ErrorIs(t, c.PurchaseProduct(ctx, &product.Product{}, 1), ErrCapabilityMissing)
}

type recordingPurchaser struct {
	got      *product.Product
	quantity int
}

func (r *recordingPurchaser) PurchaseProduct(_ context.Context, p *product.Product, quantity int) error {
	r.got, r.quantity = p, quantity
	return nil
}

func TestAttachedCapabilityOverridesPlaceholder(t *testing.T) {
	rec := &recordingPurchaser{}
	ring := &product.Product{Name: "Gold Necklace"}
	c := New("Dan", CanPurchase|CanBrowse, WithPurchaser(rec))

	assert.NoError(t, c.PurchaseProduct(context.Background(), ring, 3))
	assert.Same(t, ring, rec.got)
	assert.Equal(t, 3, rec.quantity)
	assert.True(t, c.Capabilities().Has(CanBrowse))
}

func TestCapabilityString(t *testing.T) {
	assert.Equal(t, "none", New("dana", 0).Capabilities().String())
	assert.Equal(t, "browse", NewBrowsing("dana").Capabilities().String())
	assert.Equal(t, "mixed", New("dana", CanView|CanPurchase).Capabilities().String())
}

func TestNilImplementationFallsBackToPlaceholder(t *testing.T) {
	c := New("erin", 0, WithBrowser(nil), WithViewer(nil), WithPurchaser(nil))
	ctx := context.Background()

	assert.True(t, c.Capabilities().Has(CanBrowse|CanView|CanPurchase))
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, c.BrowseProducts(ctx, nil), domain.ErrNotImplemented)
		assert.ErrorIs(t, c.ViewProduct(ctx, nil), domain.ErrNotImplemented)
		assert.ErrorIs(t, c.PurchaseProduct(ctx, nil, 1), domain.ErrNotImplemented)
	})
}
