// Package postgres persists orders in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	domain "github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Schema creates the orders table used by OrderRepository.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	items JSONB NOT NULL,
	total_price NUMERIC NOT NULL,
	status TEXT NOT NULL,
	tracking_number TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const selectColumns = "SELECT id,customer_name,items,total_price,status,tracking_number,created_at,updated_at FROM orders"

// OrderRepository implements order.Repository on database/sql with the lib/pq driver.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// EnsureSchema creates the orders table when missing.
func (r *OrderRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("order repository: create schema: %w", err)
	}
	return nil
}

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("order repository: encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders (id,customer_name,items,total_price,status,tracking_number,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
		o.ID, o.CustomerName, items, o.TotalPrice, string(o.Status), o.TrackingNumber, o.CreatedAt, o.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	return err
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectColumns+" WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return o, err
}

func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status=$2, tracking_number=$3, updated_at=$4 WHERE id=$1",
		o.ID, string(o.Status), o.TrackingNumber, o.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+" ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		o      domain.Order
		items  []byte
		status string
	)
	if err := s.Scan(&o.ID, &o.CustomerName, &items, &o.TotalPrice, &status, &o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("order repository: decode items: %w", err)
	}
	if o.Items == nil {
		o.Items = []cart.Item{}
	}
	return &o, nil
}
