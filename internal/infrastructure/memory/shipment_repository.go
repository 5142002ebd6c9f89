package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Zhima-Mochi/jewelshop/internal/domain/shipping"
)

type ShipmentRepository struct {
	mu      sync.RWMutex
	byOrder map[string]*domain.Shipment
}

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{
		byOrder: make(map[string]*domain.Shipment),
	}
}

func (r *ShipmentRepository) Save(ctx context.Context, s *domain.Shipment) error {
	_ = ctx
	if s == nil || s.OrderID == "" {
		return fmt.Errorf("shipment repository: order id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *s
	r.byOrder[s.OrderID] = &clone
	return nil
}

func (r *ShipmentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byOrder[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *s
	return &clone, nil
}
