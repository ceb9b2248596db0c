// Package postgres implements the storefront repositories over PostgreSQL.
// The schema is the fixed four-table layout the shop has always used;
// InitSchema creates it idempotently and seeds the sample catalog.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		description TEXT,
		image VARCHAR(255) DEFAULT '/images/placeholder.jpg',
		stock INT DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		address TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) PRIMARY KEY,
		customer_id VARCHAR(36) REFERENCES customers(id),
		total NUMERIC(10,2) NOT NULL,
		status VARCHAR(50) DEFAULT 'pending',
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id VARCHAR(36) PRIMARY KEY,
		order_id VARCHAR(36) REFERENCES orders(id),
		product_id VARCHAR(36) REFERENCES products(id),
		product_name VARCHAR(255),
		price NUMERIC(10,2),
		quantity INT,
		subtotal NUMERIC(10,2)
	)`,
}

type sampleProduct struct {
	id, name, description string
	price                 string
	stock                 int
}

var sampleProducts = []sampleProduct{
	{"1", "Buckets", "Amazon S3 Buckets for scalable storage", "29.99", 50},
	{"2", "Load Balancers", "Customizable load balancers for your applications", "34.99", 30},
	{"3", "Microsoft Azure", "Cloud computing services for building, testing, and deploying applications", "24.99", 25},
}

// InitSchema creates the four tables and seeds the sample products when the
// catalog is empty. Safe to run on every startup.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range sampleProducts {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO products (id, name, price, description, stock) VALUES ($1,$2,$3,$4,$5)`,
			p.id, p.name, p.price, p.description, p.stock,
		); err != nil {
			return fmt.Errorf("seeding product %s: %w", p.name, err)
		}
	}
	return nil
}
