package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// CustomerRepository persists customers in PostgreSQL.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a customer repository over the given database.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer and returns only the generated id.
func (r *CustomerRepository) Create(ctx context.Context, nc storefront.NewCustomer) (string, error) {
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, address) VALUES ($1,$2,$3,$4)`,
		id, nc.Name, nc.Email, nc.Address,
	); err != nil {
		return "", fmt.Errorf("inserting customer: %w", err)
	}
	return id, nil
}

// Get retrieves a customer by id.
func (r *CustomerRepository) Get(ctx context.Context, id string) (storefront.Customer, error) {
	var c storefront.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, address, created_at FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return storefront.Customer{}, storefront.ErrNotFound
	}
	if err != nil {
		return storefront.Customer{}, fmt.Errorf("getting customer %s: %w", id, err)
	}
	return c, nil
}
