package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// OrderRepository persists orders in PostgreSQL.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an order repository over the given database.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create runs the whole order insert in one transaction: the order row, every
// item row, and every stock decrement commit together or not at all. The
// decrement is conditional on sufficient stock, so a concurrent order for the
// same product cannot drive it negative; insufficiency rolls everything back
// with ErrInsufficientStock.
func (r *OrderRepository) Create(ctx context.Context, no storefront.NewOrder) (storefront.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storefront.Order{}, fmt.Errorf("beginning order tx: %w", err)
	}

	orderID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, total, status) VALUES ($1,$2,$3,$4)`,
		orderID, no.CustomerID, no.Total, storefront.StatusPending,
	); err != nil {
		tx.Rollback()
		return storefront.Order{}, fmt.Errorf("inserting order: %w", err)
	}

	for _, it := range no.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_name, price, quantity, subtotal)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.NewString(), orderID, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Subtotal,
		); err != nil {
			tx.Rollback()
			return storefront.Order{}, fmt.Errorf("inserting order item: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
			it.Quantity, it.ProductID,
		)
		if err != nil {
			tx.Rollback()
			return storefront.Order{}, fmt.Errorf("decrementing stock for %s: %w", it.ProductID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Zero rows means either the product is gone (the decrement
			// no-ops, the snapshot line stands) or its stock ran out.
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, it.ProductID,
			).Scan(&exists); err != nil {
				tx.Rollback()
				return storefront.Order{}, fmt.Errorf("checking product %s: %w", it.ProductID, err)
			}
			if exists {
				tx.Rollback()
				return storefront.Order{}, fmt.Errorf("product %s: %w", it.ProductID, storefront.ErrInsufficientStock)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return storefront.Order{}, fmt.Errorf("committing order: %w", err)
	}
	return r.Get(ctx, orderID)
}

// Get returns the order with its items and the customer fields merged in via
// a left join; a deleted customer leaves them empty.
func (r *OrderRepository) Get(ctx context.Context, id string) (storefront.Order, error) {
	var (
		o                    storefront.Order
		name, email, address sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT o.id, o.customer_id, o.total, o.status, o.created_at, c.name, c.email, c.address
		 FROM orders o
		 LEFT JOIN customers c ON o.customer_id = c.id
		 WHERE o.id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.CreatedAt, &name, &email, &address)
	if err == sql.ErrNoRows {
		return storefront.Order{}, storefront.ErrNotFound
	}
	if err != nil {
		return storefront.Order{}, fmt.Errorf("getting order %s: %w", id, err)
	}
	o.CustomerName = name.String
	o.CustomerEmail = email.String
	o.CustomerAddress = address.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, price, quantity, subtotal
		 FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return storefront.Order{}, fmt.Errorf("listing items for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it storefront.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Subtotal); err != nil {
			return storefront.Order{}, fmt.Errorf("scanning order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// List returns every order, newest first, with customer name and email.
func (r *OrderRepository) List(ctx context.Context) ([]storefront.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.customer_id, o.total, o.status, o.created_at, c.name, c.email
		 FROM orders o
		 LEFT JOIN customers c ON o.customer_id = c.id
		 ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []storefront.Order{}
	for rows.Next() {
		var (
			o           storefront.Order
			name, email sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.CreatedAt, &name, &email); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.CustomerName = name.String
		o.CustomerEmail = email.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
